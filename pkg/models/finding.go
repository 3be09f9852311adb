package models

// Severity of a pre-submission finding. Only warnings exist today.
type Severity string

const SeverityWarning Severity = "warning"

// ValidationFinding is a pre-submission problem that the operator has to
// acknowledge before the run may continue.
type ValidationFinding struct {
	Severity Severity `json:"Severity"`
	Message  string   `json:"Message"`
	Blocking bool     `json:"Blocking"`
}

// NewWarning returns a blocking warning.
func NewWarning(msg string) ValidationFinding {
	return ValidationFinding{
		Severity: SeverityWarning,
		Message:  msg,
		Blocking: true,
	}
}

func (f ValidationFinding) String() string {
	return string(f.Severity) + ": " + f.Message
}
