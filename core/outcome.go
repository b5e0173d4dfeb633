package core

// OutcomeKind discriminates the terminal states of an orchestration loop.
type OutcomeKind int

const (
	// OutcomeFinalAnswer means the engine produced a plain-text answer.
	OutcomeFinalAnswer OutcomeKind = iota
	// OutcomeAborted means loop infrastructure failed (engine unreachable,
	// quota exhausted) and the failure is reported to the caller verbatim.
	OutcomeAborted
	// OutcomeStepLimit means the configured engine round-trip bound was hit.
	OutcomeStepLimit
)

// String returns the string representation of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFinalAnswer:
		return "final_answer"
	case OutcomeAborted:
		return "aborted"
	case OutcomeStepLimit:
		return "step_limit_exceeded"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one query resolution. Exactly one of
// Answer / Err is meaningful depending on Kind.
type Outcome struct {
	Kind   OutcomeKind
	Answer string // set when Kind == OutcomeFinalAnswer
	Err    error  // set when Kind == OutcomeAborted
}

// FinalAnswer constructs a successful terminal outcome.
func FinalAnswer(text string) Outcome {
	return Outcome{Kind: OutcomeFinalAnswer, Answer: text}
}

// Aborted constructs an infrastructure-failure outcome.
func Aborted(err error) Outcome {
	return Outcome{Kind: OutcomeAborted, Err: err}
}

// StepLimitExceeded constructs the bound-exceeded outcome.
func StepLimitExceeded() Outcome {
	return Outcome{Kind: OutcomeStepLimit}
}
