// Package validation provides a rule-based validation engine.
//
// Rules are ordered predicate+message pairs evaluated eagerly: every rule
// runs and every failure is collected, so callers can report all problems
// in a single response instead of fixing them one at a time.
package validation

// FieldError describes a single violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the structured outcome of evaluating a rule set.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

// IsValid reports whether no rule was violated.
func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Add appends a violation to the result.
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Merge appends all violations from other.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
}

// Rule is a single named check. Valid must be a pure predicate over the
// value under validation; it returns true when the rule holds.
type Rule struct {
	Field   string
	Message string
	Valid   func() bool
}

// Evaluate runs every rule in order and accumulates all failures.
// There is no short-circuiting: a result with three broken rules
// carries three errors.
func Evaluate(rules []Rule) Result {
	var res Result
	for _, rule := range rules {
		if !rule.Valid() {
			res.Add(rule.Field, rule.Message)
		}
	}
	return res
}
