// Package forms binds request bodies to typed form values and applies the
// submission-time validation policy. Live per-field feedback is advisory;
// these forms are the gate an actual write has to pass.
package forms

import (
	"context"
	"net/url"
	"strings"

	"community-portal/internal/validation"
)

const requiredMsg = "This field is required."

// ruleError evaluates the registered rule for key against the posted values
// and returns its message when the outcome is a blocking error. Warnings and
// empty values pass: required-ness is enforced separately per form.
func ruleError(ctx context.Context, key string, form url.Values, store validation.Lookup) string {
	rule, ok := validation.Rules[key]
	if !ok {
		return ""
	}
	out := rule.Evaluate(ctx, form, store)
	if out.Kind == validation.Error {
		return out.Message
	}
	return ""
}

func trimmed(form url.Values, name string) string {
	return strings.TrimSpace(form.Get(name))
}
