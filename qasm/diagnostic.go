package qasm

import "fmt"

// DiagnosticKind classifies what a diagnostic is about.
type DiagnosticKind int

const (
	// DiagSyntax is a grammar-level problem.
	DiagSyntax DiagnosticKind = iota
	// DiagSemantic is a meaning-level problem (undeclared register, bad index).
	DiagSemantic
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagSyntax:
		return "syntax"
	case DiagSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Diagnostic is one message tied to a source location. Fatal diagnostics
// become the parse error; warnings ride along the successful result and are
// passed through opaquely by the rest of the compiler.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Loc     Location
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %s: %s error: %s", d.Loc, d.Kind, d.Message)
}

// Error makes a Diagnostic usable directly as a Go error.
func (d Diagnostic) Error() string {
	return d.String()
}
