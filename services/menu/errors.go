package menu

import "fmt"

type CatalogError struct {
	Code    string
	Message string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newCatalogError(code, format string, args ...interface{}) error {
	return &CatalogError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
