package bus

import (
	"errors"
	"fmt"
)

// Failure is the coded error carried by a failed reply. The code survives the
// exchange unchanged, so callers can tell protocol, domain and infrastructure
// failures apart.
type Failure struct {
	Code    int
	Message string
}

func (f Failure) Error() string {
	return f.Message
}

func (f Failure) String() string {
	return fmt.Sprintf("(%d) %s", f.Code, f.Message)
}

func NewFailure(code int, message string) Failure {
	return Failure{
		Code:    code,
		Message: message,
	}
}

const (
	CodeNoHandlers  = -1
	CodeBadRequest  = 400
	CodeNotFound    = 404
	CodeRateLimited = 429
	CodeInternal    = 500
)

var ErrUnknownAction = NewFailure(CodeBadRequest, "Unknown action.")
var ErrRateLimited = NewFailure(CodeRateLimited, "Rate limit exceeded.")
var ErrNoReply = NewFailure(CodeInternal, "no reply sent")

var ErrAlreadyRegistered = errors.New("address already has a registered consumer")
var ErrNotRegistered = errors.New("consumer is not registered")
var ErrAlreadyReplied = errors.New("message already replied")
var ErrAlreadyCompleted = errors.New("future already completed")
var ErrProxyTypeNotFound = errors.New("proxy type not found")
var ErrCallbackPanicked = errors.New("future callback panicked")

func NoHandlers(address string) Failure {
	return NewFailure(CodeNoHandlers, "No handlers for address "+address)
}

// FailureFrom returns err as a Failure, mapping anything that is not already
// one to CodeInternal.
func FailureFrom(err error) Failure {
	var f Failure
	if errors.As(err, &f) {
		return f
	}
	return NewFailure(CodeInternal, err.Error())
}

// HasCode reports whether err is a Failure with the given code.
func HasCode(err error, code int) bool {
	var f Failure
	return errors.As(err, &f) && f.Code == code
}
