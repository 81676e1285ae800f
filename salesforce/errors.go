package salesforce

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOperation = errors.New("unknown salesforce operation")
	ErrArgumentCount    = errors.New("wrong number of arguments for salesforce operation")
)

// InvalidEnvironmentError is returned when a connection or URL is requested
// for an environment other than live or test.
type InvalidEnvironmentError struct {
	Environment Environment
}

func (e *InvalidEnvironmentError) Error() string {
	return fmt.Sprintf("invalid salesforce environment: %q (expected %q or %q)", string(e.Environment), Live, Test)
}

// FaultError is a fault reported by the remote API. It is never retried.
type FaultError struct {
	Code    string
	Message string
}

func (f *FaultError) Error() string {
	return fmt.Sprintf("salesforce fault - code: %v, message: %v", f.Code, f.Message)
}

// IsFault reports whether err is, or wraps, a FaultError.
func IsFault(err error) bool {
	var f *FaultError
	return errors.As(err, &f)
}

// TransportError is returned by SoapBinding when the server answers with a
// non-2xx status and a body that is not a SOAP envelope.
type TransportError struct {
	StatusCode int
	Method     string
}

func (t *TransportError) Error() string {
	return fmt.Sprintf("error calling salesforce - status code: %v, method: %v", t.StatusCode, t.Method)
}
