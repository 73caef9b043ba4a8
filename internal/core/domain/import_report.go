package domain

import "time"

// RunStage is the state of an import run.
type RunStage string

const (
	StageFetching          RunStage = "FETCHING"
	StageTransforming      RunStage = "TRANSFORMING"
	StagePersisting        RunStage = "PERSISTING"
	StageDownstreamTrigger RunStage = "DOWNSTREAM_TRIGGER"
	StageNotifying         RunStage = "NOTIFYING"
	StageDone              RunStage = "DONE"
)

// RowFailure records a record pair whose save failed. Processing continues after it.
type RowFailure struct {
	Key RecordKey `json:"key"`
	Err error     `json:"-"`
	// Partial is true when exactly one of the two rows is present after the failure.
	Partial bool `json:"partial"`
}

// ImportReport aggregates the outcome of one run.
type ImportReport struct {
	RunID        string       `json:"runID"`
	StartedAt    time.Time    `json:"startedAt"`
	FinishedAt   time.Time    `json:"finishedAt"`
	Stage        RunStage     `json:"stage"`
	Observations int          `json:"observations"`
	Persisted    int          `json:"persisted"`
	Skipped      int          `json:"skipped"`
	Failures     []RowFailure `json:"failures"`
	TriggerErr   error        `json:"-"`
}

// Attempted is the number of save attempts, i.e. observations that were not already stored.
func (r *ImportReport) Attempted() int {
	return r.Persisted + len(r.Failures)
}
