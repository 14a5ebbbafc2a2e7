package upload

import (
	"fmt"

	"github.com/noisevisionproductions/Vitema-sub001/internal/models"
)

// State is the coordinator's observable state. The concrete type is one of
// Initial, Loading, NeedsConfirmation, Success or Failed.
type State interface {
	isState()
}

type Initial struct{}

type Loading struct {
	Message  string
	Progress int
	Stage    Stage
	History  History
}

// NeedsConfirmation pauses the run until Confirm or Dismiss is called.
// Nothing has been written when it is reached.
type NeedsConfirmation struct {
	Message   string
	Conflicts []models.Account
}

type Success struct {
	History History
}

type Failed struct {
	Message string
	History History
}

func (Initial) isState()           {}
func (Loading) isState()           {}
func (NeedsConfirmation) isState() {}
func (Success) isState()           {}
func (Failed) isState()            {}

type Kind string

const (
	KindInitial           Kind = "initial"
	KindLoading           Kind = "loading"
	KindNeedsConfirmation Kind = "needs_confirmation"
	KindSuccess           Kind = "success"
	KindError             Kind = "error"
)

func KindOf(s State) Kind {
	switch s.(type) {
	case Initial:
		return KindInitial
	case Loading:
		return KindLoading
	case NeedsConfirmation:
		return KindNeedsConfirmation
	case Success:
		return KindSuccess
	case Failed:
		return KindError
	}
	panic(fmt.Sprintf("upload: unknown state %T", s))
}

// Settled reports whether s is a terminal state of a run.
func Settled(s State) bool {
	switch s.(type) {
	case Success, Failed:
		return true
	}
	return false
}

// HistoryOf returns the stage history carried by s, if any.
func HistoryOf(s State) History {
	switch v := s.(type) {
	case Loading:
		return v.History
	case Success:
		return v.History
	case Failed:
		return v.History
	}
	return nil
}
