package executor

// Reason classifies tool invocation failures. The set is closed so the loop
// can pattern-match on it to decide whether to surface, continue, or let the
// engine reason about the failure.
type Reason int

const (
	// ReasonNotFound means the tool or its target entity does not exist.
	ReasonNotFound Reason = iota
	// ReasonTimeout means the call exceeded the configured invocation timeout.
	ReasonTimeout
	// ReasonTransport means the channel to the executor is closed or unreachable.
	ReasonTransport
	// ReasonExecutor means the executor reported an application failure; the
	// message carries its text verbatim.
	ReasonExecutor
)

// String returns the string representation of the failure reason.
func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "not_found"
	case ReasonTimeout:
		return "timeout"
	case ReasonTransport:
		return "transport_error"
	case ReasonExecutor:
		return "executor_error"
	default:
		return "unknown"
	}
}

// Failure describes a failed tool invocation.
type Failure struct {
	Reason  Reason
	Message string
}

// Outcome is the result of one tool invocation: either a textual result or a
// structured failure. Failures are conversation data, never Go errors: the
// loop feeds them back to the engine, which may retry with different
// arguments, call a different tool, or apologize in its final answer.
type Outcome struct {
	Text    string
	Failure *Failure // nil on success
}

// OK reports whether the invocation succeeded.
func (o Outcome) OK() bool { return o.Failure == nil }

// Success constructs a successful outcome carrying the executor's text.
func Success(text string) Outcome { return Outcome{Text: text} }

// Fail constructs a failed outcome with the given reason and message.
func Fail(reason Reason, message string) Outcome {
	return Outcome{Failure: &Failure{Reason: reason, Message: message}}
}
