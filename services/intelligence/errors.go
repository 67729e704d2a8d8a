package ai

import "fmt"

// ContractViolation describes why generator output was rejected. It never
// leaves this package: the arbiter turns it into the fallback decision.
type ContractViolation struct {
	Code    string
	Message string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newViolation(code, format string, args ...interface{}) error {
	return &ContractViolation{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
