package webln

import (
	"fmt"
	"reflect"

	"github.com/lnbridge/go-webln/provider"
)

// ConstructionError is returned by NewClient when no provider could be acquired.
type ConstructionError struct {
	Kind    provider.Kind
	Message string
	Err     error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("webln construction failed: %s", e.Message)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// EnableError is returned by Client.Enable, e.g. when the user declines.
type EnableError struct {
	Kind    provider.Kind
	Message string
	Err     error
}

func (e *EnableError) Error() string {
	return fmt.Sprintf("webln enable failed: %s", e.Message)
}

func (e *EnableError) Unwrap() error { return e.Err }

// GetInfoError is returned by Client.GetInfo.
type GetInfoError struct {
	Kind    provider.Kind
	Message string
	Err     error
}

func (e *GetInfoError) Error() string {
	return fmt.Sprintf("webln getInfo failed: %s", e.Message)
}

func (e *GetInfoError) Unwrap() error { return e.Err }

// PaymentError is returned by Client.Keysend and Client.SendPayment.
type PaymentError struct {
	Kind    provider.Kind
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("webln payment failed: %s", e.Message)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// InvoiceError is returned by Client.MakeInvoice.
type InvoiceError struct {
	Kind    provider.Kind
	Message string
	Err     error
}

func (e *InvoiceError) Error() string {
	return fmt.Sprintf("webln makeInvoice failed: %s", e.Message)
}

func (e *InvoiceError) Unwrap() error { return e.Err }

// translate returns the boundary message for an internal error. It is total:
// every input, including nil and errors whose Error method panics or returns
// "", yields a non-empty message.
func translate(err error) (msg string) {
	if isNil(err) {
		return provider.KindUnknown.Description()
	}

	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("%s (%T)", kindOf(err).Description(), err)
		}
	}()

	if msg = err.Error(); msg != "" {
		return msg
	}
	if kind := kindOf(err); kind != provider.KindUnknown {
		return kind.Description()
	}
	return fmt.Sprintf("%s (%T)", provider.KindUnknown.Description(), err)
}

// kindOf is provider.KindOf guarded against panicking Unwrap chains.
func kindOf(err error) (kind provider.Kind) {
	if isNil(err) {
		return provider.KindUnknown
	}
	defer func() {
		if r := recover(); r != nil {
			kind = provider.KindUnknown
		}
	}()
	return provider.KindOf(err)
}

func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func newConstructionError(err error) *ConstructionError {
	return &ConstructionError{Kind: kindOf(err), Message: translate(err), Err: err}
}

func newEnableError(err error) *EnableError {
	return &EnableError{Kind: kindOf(err), Message: translate(err), Err: err}
}

func newGetInfoError(err error) *GetInfoError {
	return &GetInfoError{Kind: kindOf(err), Message: translate(err), Err: err}
}

func newPaymentError(err error) *PaymentError {
	return &PaymentError{Kind: kindOf(err), Message: translate(err), Err: err}
}

func newInvoiceError(err error) *InvoiceError {
	return &InvoiceError{Kind: kindOf(err), Message: translate(err), Err: err}
}
