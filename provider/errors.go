package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies provider failures. New kinds may be added; callers must
// treat unrecognised kinds like KindUnknown.
type Kind int

const (
	KindUnknown             Kind = iota // unclassified failure
	KindUnavailable                     // no provider in this environment, or it went away
	KindNotEnabled                      // provider requires enable() first
	KindUserRejected                    // user declined a prompt
	KindRejected                        // provider refused (quota, rate limit, policy)
	KindTransport                       // connection to the provider failed
	KindMalformedResponse               // provider answered with something undecodable
	KindInvalidRequest                  // provider rejected the arguments
	KindUnsupported                     // provider does not implement the method
	KindInsufficientBalance             // not enough funds
	KindPaymentFailed                   // routing or settlement failed
	KindTimeout                         // deadline exceeded
	KindCanceled                        // caller canceled
	KindInternal                        // provider-side internal error
)

var kindNames = [...]string{
	KindUnknown:             "unknown",
	KindUnavailable:         "unavailable",
	KindNotEnabled:          "not_enabled",
	KindUserRejected:        "user_rejected",
	KindRejected:            "rejected",
	KindTransport:           "transport",
	KindMalformedResponse:   "malformed_response",
	KindInvalidRequest:      "invalid_request",
	KindUnsupported:         "unsupported",
	KindInsufficientBalance: "insufficient_balance",
	KindPaymentFailed:       "payment_failed",
	KindTimeout:             "timeout",
	KindCanceled:            "canceled",
	KindInternal:            "internal",
}

var kindDescriptions = [...]string{
	KindUnknown:             "unknown provider error",
	KindUnavailable:         "webln provider unavailable",
	KindNotEnabled:          "webln provider not enabled",
	KindUserRejected:        "request rejected by user",
	KindRejected:            "request refused by provider",
	KindTransport:           "provider connection failed",
	KindMalformedResponse:   "malformed provider response",
	KindInvalidRequest:      "invalid request",
	KindUnsupported:         "method not supported by provider",
	KindInsufficientBalance: "insufficient balance",
	KindPaymentFailed:       "payment failed",
	KindTimeout:             "request timed out",
	KindCanceled:            "request canceled",
	KindInternal:            "provider internal error",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Description is a human-readable sentence for the kind.
func (k Kind) Description() string {
	if int(k) >= 0 && int(k) < len(kindDescriptions) {
		return kindDescriptions[k]
	}
	return fmt.Sprintf("provider error (%s)", k)
}

// ParseKind is the inverse of Kind.String. Unknown names map to KindUnknown.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return Kind(k)
		}
	}
	return KindUnknown
}

// Error is the failure value returned by providers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Errorf builds an *Error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error around cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return KindUnknown.Description()
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Description()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf classifies err. Context errors are recognised anywhere in the chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var pe *Error
	if errors.As(err, &pe) && pe != nil {
		return pe.Kind
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}
	return KindUnknown
}

// ClassifyMessage guesses a Kind from a free-form provider error message, as
// produced by browser wallets that only reject with a string.
func ClassifyMessage(msg string) Kind {
	m := strings.ToLower(msg)
	switch {
	case m == "":
		return KindUnknown
	case containsAny(m, "not enabled", "enable()", "call enable"):
		return KindNotEnabled
	case containsAny(m, "reject", "denied", "cancel", "declined", "closed the prompt"):
		return KindUserRejected
	case containsAny(m, "insufficient", "not enough balance"):
		return KindInsufficientBalance
	case containsAny(m, "not supported", "not implemented", "unsupported", "is not a function"):
		return KindUnsupported
	case containsAny(m, "no route", "route not found", "payment failed", "failure_reason"):
		return KindPaymentFailed
	case containsAny(m, "invalid", "malformed", "could not decode"):
		return KindInvalidRequest
	case containsAny(m, "timeout", "timed out"):
		return KindTimeout
	}
	return KindUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
