// Package validation accumulates field-scoped and global error messages so callers
// can report every problem with an input at once.
package validation

import "strings"

const bullet = "• "

type Result struct {
	fields map[string][]string
	order  []string
	global []string
}

func New() *Result {
	return &Result{fields: map[string][]string{}}
}

func (r *Result) AddFieldError(field, message string) {
	if _, seen := r.fields[field]; !seen {
		r.order = append(r.order, field)
	}
	r.fields[field] = append(r.fields[field], message)
}

func (r *Result) AddGlobalError(message string) {
	r.global = append(r.global, message)
}

func (r *Result) HasErrors() bool {
	return len(r.order) > 0 || len(r.global) > 0
}

func (r *Result) HasFieldError(field string) bool {
	return len(r.fields[field]) > 0
}

func (r *Result) FieldErrors(field string) []string {
	return r.fields[field]
}

// Messages returns field messages in the order fields were first reported, then global ones.
func (r *Result) Messages() []string {
	var out []string
	for _, f := range r.order {
		out = append(out, r.fields[f]...)
	}
	return append(out, r.global...)
}

func (r *Result) AllErrorsAsString() string {
	return Join(r.Messages())
}

// Join renders messages as bullet lines.
func Join(messages []string) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = bullet + m
	}
	return strings.Join(lines, "\n")
}
