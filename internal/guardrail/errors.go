package guardrail

import "fmt"

// FailureKind classifies an evaluation failure.
type FailureKind string

const (
	// ServiceFailure tags a failed call to the scoring oracle.
	ServiceFailure FailureKind = "service_failure"
	// ParseFailure tags an oracle response that could not be decoded
	// as the expected score record.
	ParseFailure FailureKind = "parse_failure"
)

// OracleError reports a failed evaluation. It carries no partial score
// record; either the oracle call or the decode of its response failed.
type OracleError struct {
	Kind FailureKind
	Err  error
	Raw  string // raw oracle text, kept for diagnostics on parse failures
}

func (e *OracleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("guardrail %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("guardrail %s", e.Kind)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

func newServiceFailure(err error) *OracleError {
	return &OracleError{Kind: ServiceFailure, Err: err}
}

func newParseFailure(err error, raw string) *OracleError {
	return &OracleError{Kind: ParseFailure, Err: err, Raw: raw}
}
