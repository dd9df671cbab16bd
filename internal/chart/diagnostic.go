package chart

import "github.com/google/uuid"

type DiagnosticKind string

const (
	// NotAnArray: a custom transform returned something other than an array.
	NotAnArray DiagnosticKind = "not_an_array"
	// ShapeWarning: the first returned element lacks x or y. Not fatal.
	ShapeWarning DiagnosticKind = "shape_warning"
	// ExecutionError: the transform threw or was interrupted.
	ExecutionError DiagnosticKind = "execution_error"
)

// Diagnostic is an inline message about one render pass of a chart.
type Diagnostic struct {
	ID      string         `json:"id"`
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
}

// ReportFunc receives diagnostics out of band so a faulty transform never
// fails the render itself. A nil ReportFunc discards them.
type ReportFunc func(Diagnostic)

func (r ReportFunc) report(kind DiagnosticKind, msg string) {
	if r == nil {
		return
	}
	r(Diagnostic{ID: uuid.NewString(), Kind: kind, Message: msg})
}
