package wsbridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Sentinel errors for bridge state.
var (
	ErrNoPeer       = errors.New("no browser tab connected to the bridge")
	ErrPeerReplaced = errors.New("browser tab replaced by a newer one")
	ErrPeerGone     = errors.New("browser tab disconnected")
	ErrServerClosed = errors.New("bridge server is closed")
)

// ErrorKind classifies bridge errors that cannot be returned to a caller.
type ErrorKind int

const (
	ErrParseFailure ErrorKind = iota // inbound frame couldn't be parsed
	ErrUnknownCall                   // result for a call id nobody is waiting on
	ErrNoWebLN                       // tab connected but window.webln is missing
	ErrPeerWrite                     // failed to write to the tab
	ErrUpgrade                       // WebSocket handshake failed
)

var errorKindNames = [...]string{
	ErrParseFailure: "ErrParseFailure",
	ErrUnknownCall:  "ErrUnknownCall",
	ErrNoWebLN:      "ErrNoWebLN",
	ErrPeerWrite:    "ErrPeerWrite",
	ErrUpgrade:      "ErrUpgrade",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// BridgeError is an asynchronous bridge failure, routed to the ErrorHandler
// given to NewServer.
type BridgeError struct {
	Kind      ErrorKind
	CallID    string
	Remote    string // remote address of the tab, if known
	Cause     error
	Raw       []byte // raw frame (for parse failures)
	Timestamp time.Time
}

func (e *BridgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v (call=%s remote=%s)", e.Kind, e.Cause, e.CallID, e.Remote)
	}
	return fmt.Sprintf("%s (call=%s remote=%s)", e.Kind, e.CallID, e.Remote)
}

func (e *BridgeError) Unwrap() error {
	return e.Cause
}

// ErrorHandler is called for every bridge error that cannot be returned to
// a direct caller. It MUST be provided when creating a Server.
type ErrorHandler func(BridgeError)

// LogErrors returns an ErrorHandler that logs all bridge errors to logger.
func LogErrors(logger logrus.FieldLogger) ErrorHandler {
	return func(e BridgeError) {
		entry := logger.WithFields(logrus.Fields{
			"kind":    e.Kind.String(),
			"call_id": e.CallID,
			"remote":  e.Remote,
		})
		if e.Cause != nil {
			entry = entry.WithError(e.Cause)
		}
		entry.Warn("webln bridge error")
	}
}
