package domain

import "fmt"

// Severity level of a recorded diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a recorded observation about an analysis pass.
// The engine and registry recover from every in-scope problem silently
// (last-definition-wins, fallback synthesis, unreachable steps); diagnostics
// exist so a strict/batch mode can surface those recoveries without changing
// the produced graph.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}

// Diagnostic codes recorded by the registry and the simulation engine.
const (
	DiagRedefinition      = "redefinition"
	DiagInferredArtifact  = "inferred-artifact"
	DiagUnknownGroup      = "unknown-group"
	DiagUnknownFunction   = "unknown-function"
	DiagFlowStarvation    = "flow-starvation"
	DiagPoolOverflow      = "pool-overflow"
	DiagEmptyOutputBranch = "empty-output-branch"
)
