package controller

import (
	"time"

	"github.com/goliatone/go-formflow/pkg/validation"
)

// Observer receives controller events. Calls happen outside the controller
// lock and must not block.
type Observer interface {
	FieldValidated(formID, fieldID string, result validation.Result)
	SubmissionFinished(formID string, outcome Outcome, elapsed time.Duration)
}

// Observers fans events out to several observers.
type Observers []Observer

// FieldValidated implements Observer.
func (o Observers) FieldValidated(formID, fieldID string, result validation.Result) {
	for _, obs := range o {
		if obs != nil {
			obs.FieldValidated(formID, fieldID, result)
		}
	}
}

// SubmissionFinished implements Observer.
func (o Observers) SubmissionFinished(formID string, outcome Outcome, elapsed time.Duration) {
	for _, obs := range o {
		if obs != nil {
			obs.SubmissionFinished(formID, outcome, elapsed)
		}
	}
}
