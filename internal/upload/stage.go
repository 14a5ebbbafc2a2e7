package upload

import "fmt"

// Stage is a step of one account's pipeline. Stages only move forward.
type Stage int

const (
	StageUploading Stage = iota
	StageParsing
	StageSaving
)

var Stages = []Stage{StageUploading, StageParsing, StageSaving}

func (s Stage) String() string {
	switch s {
	case StageUploading:
		return "UPLOADING"
	case StageParsing:
		return "PARSING"
	case StageSaving:
		return "SAVING"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

type ResultStatus string

const (
	StatusSuccess    ResultStatus = "SUCCESS"
	StatusError      ResultStatus = "ERROR"
	StatusInProgress ResultStatus = "IN_PROGRESS"
)

// Progress percentages reported by the per-account pipeline.
const (
	// UploadThreshold is the UPLOADING percentage treated as the stage's completion.
	UploadThreshold  = 74
	ProgressUploaded = 75
	ProgressParsing  = 80
	ProgressSaving   = 90
	ProgressDone     = 100
)

// Result is one stage-history entry. AccountID is empty for entries that
// precede the per-account fan-out.
type Result struct {
	AccountID string
	Stage     Stage
	Status    ResultStatus
	Message   string
}

// History is the append-only stage history of a run. Append never mutates
// the receiver's backing array, so values handed out in states stay stable.
type History []Result

func (h History) Append(r Result) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, r)
}

// ForAccount returns the entries recorded for one account, in order.
func (h History) ForAccount(accountID string) History {
	var out History
	for _, r := range h {
		if r.AccountID == accountID {
			out = append(out, r)
		}
	}
	return out
}

func (h History) HasError() bool {
	for _, r := range h {
		if r.Status == StatusError {
			return true
		}
	}
	return false
}
