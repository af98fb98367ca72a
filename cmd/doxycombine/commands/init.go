package commands

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/config"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Format string `help:"File format when no path is given: xml or yaml" enum:"xml,yaml" default:"xml"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = config.DefaultFileName
		if i.Format == "yaml" {
			path = strings.TrimSuffix(path, ".xml") + ".yaml"
		}
	}

	out := g.out()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		if stderrors.Is(err, config.ErrExists) {
			return errors.ValidationError("configuration file already exists").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		return errors.FileSystemError("failed to write configuration").WithCause(err).Build()
	}
	_, _ = fmt.Fprintln(out, "Edit the six locations, then run doxycombine")
	return nil
}
