package controller

// Phase is the submission state of a form.
type Phase int

const (
	// Idle means no attempt is in flight. Banners from an earlier attempt may
	// still be visible until their dismiss fires.
	Idle Phase = iota
	// Validating runs while Submit checks every field.
	Validating
	// Submitting means the transport call is in flight.
	Submitting
	// Success is terminal for the attempt; the success banner is shown.
	Success
	// Error is terminal for the attempt; the error banner is shown.
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether p ends an attempt.
func (p Phase) Terminal() bool {
	return p == Success || p == Error
}
