// Package validation implements the incremental field-validation protocol:
// one ordered rule list per form field, evaluated server-side on each
// debounced input event, producing a uniform outcome that the renderer maps
// to an HTML fragment.
package validation

import "context"

// Kind classifies the validity state of a single field value.
type Kind int

const (
	// Empty means the field has no value yet; no fragment is rendered.
	Empty Kind = iota
	// Success means every check passed.
	Success
	// Warning is advisory and never blocks submission.
	Warning
	// Error means the value must be corrected.
	Error
	// Strength is the password-specific outcome carrying a score and the
	// list of unmet criteria instead of a single message.
	Strength
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Strength:
		return "strength"
	}
	return "unknown"
}

// Outcome is the result of evaluating one field value against its rule.
type Outcome struct {
	Kind    Kind
	Message string

	// Strength outcome only.
	Score  int
	Unmet  []string
	Length int
}

// Lookup answers the existence questions some checks ask of the persistent
// store. Implementations must be total: a lookup failure is reported as
// "not found", never as an error, so checks stay pure over their inputs.
type Lookup interface {
	UsernameTaken(ctx context.Context, username string) bool
	EmailRegistered(ctx context.Context, email string) bool
	ContactedBefore(ctx context.Context, email string) bool
	Subscribed(ctx context.Context, email string) bool
}

func errorOutcome(msg string) *Outcome {
	return &Outcome{Kind: Error, Message: msg}
}

func warningOutcome(msg string) *Outcome {
	return &Outcome{Kind: Warning, Message: msg}
}
