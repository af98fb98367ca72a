package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/cmd/doxycombine/commands"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/foundation/errors"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("doxycombine"),
		kong.Description("Generate the Unity, Android and iOS SDK documentation and merge it into one versioned tree."),
		kong.Vars{"version": version.String()},
		kong.DefaultEnvars("DOXYCOMBINE"),
		kong.UsageOnError(),
	)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	global := &commands.Global{Logger: slog.Default(), Stdout: os.Stdout}
	err = kctx.Run(global, cli)

	adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	os.Exit(adapter.Report(os.Stderr, err))
}
