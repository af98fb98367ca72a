package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/foundation/errors"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" help:"Number of runs to show" default:"10"`
	JSON  bool `name:"json" help:"Print runs as JSON"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	if root.HistoryDB == "" {
		return errors.ValidationError("--history-db is required").Build()
	}
	if h.Limit <= 0 {
		return errors.ValidationError("--limit must be positive").Build()
	}

	store, err := history.NewSQLiteStore(root.HistoryDB)
	if err != nil {
		return errors.StorageError("failed to open history database").
			WithSeverity(errors.SeverityError).
			WithCause(err).
			WithContext("path", root.HistoryDB).
			Build()
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return errors.StorageError("failed to read run history").
			WithSeverity(errors.SeverityError).
			WithCause(err).
			Build()
	}

	out := g.out()
	if h.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if runs == nil {
			runs = []history.Run{}
		}
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tSTARTED\tOUTCOME\tVERSIONS")
	for _, run := range runs {
		var versions []string
		for _, p := range run.Platforms {
			versions = append(versions, p.Platform+"="+p.Version)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Outcome,
			strings.Join(versions, " "))
	}
	return tw.Flush()
}
