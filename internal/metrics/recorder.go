package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
	ResultSkipped ResultLabel = "skipped"
)

// RunOutcome is the final status of a pipeline run.
type RunOutcome string

const (
	OutcomeSuccess RunOutcome = "success"
	OutcomeWarning RunOutcome = "warning"
	OutcomeFailed  RunOutcome = "failed"
	OutcomeAborted RunOutcome = "aborted"
)

// Recorder defines observability hooks for pipeline runs.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcome)
	IncGeneratorResult(platform string, success bool)
	AddFilesStaged(platform string, n int)
	SetLastRunTimestamp(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRunOutcome(RunOutcome)                   {}
func (NoopRecorder) IncGeneratorResult(string, bool)            {}
func (NoopRecorder) AddFilesStaged(string, int)                 {}
func (NoopRecorder) SetLastRunTimestamp(time.Time)              {}
