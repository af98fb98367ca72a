package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logfields"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/metrics"
)

// StageName identifies one step of a run.
type StageName string

const (
	StageConfig    StageName = "config"
	StageVersions  StageName = "versions"
	StageWorkspace StageName = "workspace"
	StageGenerate  StageName = "generate"
	StageStage     StageName = "stage"
	StageIndex     StageName = "index"
)

// stageFunc runs one step. A returned error aborts the run; warnings are
// reported through the bool so they can be counted without stopping.
type stageFunc func(ctx context.Context, st *runState) (warned bool, err error)

type stage struct {
	name StageName
	run  stageFunc
	// skip is consulted before run; a skipped stage records no duration.
	skip func(st *runState) bool
}

// execute runs the stages in order, recording durations and outcomes.
func execute(ctx context.Context, rec metrics.Recorder, st *runState, stages []stage) error {
	for _, s := range stages {
		if s.skip != nil && s.skip(st) {
			rec.IncStageResult(string(s.name), metrics.ResultSkipped)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		slog.Debug("Starting stage", logfields.RunID(st.report.Run.ID), logfields.Stage(string(s.name)))
		start := time.Now()
		warned, err := s.run(ctx, st)
		rec.ObserveStageDuration(string(s.name), time.Since(start))
		switch {
		case err != nil:
			rec.IncStageResult(string(s.name), metrics.ResultFatal)
			slog.Error("Stage failed",
				logfields.RunID(st.report.Run.ID),
				logfields.Stage(string(s.name)),
				logfields.Error(err))
			return err
		case warned:
			rec.IncStageResult(string(s.name), metrics.ResultWarning)
		default:
			rec.IncStageResult(string(s.name), metrics.ResultSuccess)
		}
		slog.Debug("Stage completed",
			logfields.RunID(st.report.Run.ID),
			logfields.Stage(string(s.name)),
			logfields.Elapsed(start))
	}
	return nil
}
