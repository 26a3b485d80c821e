package httpwrap

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrRedirectNotCaptured means the server answered 302 but the redirect hook
// never ran, so there is no target to return. This is a protocol violation,
// not a transient condition.
var ErrRedirectNotCaptured = errors.New("redirect reply carried no location")

// HTTPError is returned when the server answers with an unexpected status.
// It keeps the raw body for diagnostics.
type HTTPError struct {
	Status     string
	StatusCode int
	Body       []byte
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e HTTPError) Log() {
	logrus.WithFields(logrus.Fields{
		"status":  e.Status,
		"content": string(e.Body),
	}).Error("Unexpected response status")
}
