// Package jsbind exposes a webln.Client to JavaScript as a class whose
// methods return Promises. Register is only available in js/wasm builds; the
// value codec and method table are portable so they can be tested natively.
package jsbind

import (
	"encoding/json"
	"errors"
	"fmt"

	webln "github.com/lnbridge/go-webln"
	"github.com/lnbridge/go-webln/provider"
)

// exportValue turns v into the JSON-shaped values syscall/js can convert:
// map[string]any, []any, string, float64, bool and nil.
func exportValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("export value: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("export value: %w", err)
	}
	return out, nil
}

// decodeArgs decodes a JSON.stringify result into out. Missing arguments
// ("", "undefined", "null") leave out untouched.
func decodeArgs(raw string, out any) error {
	switch raw {
	case "", "undefined", "null":
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return provider.Wrap(provider.KindInvalidRequest, err, "invalid arguments")
	}
	return nil
}

// jsErrorInfo is what a rejected promise carries to JavaScript.
type jsErrorInfo struct {
	Name    string
	Kind    string
	Message string
}

// errorInfo describes err for JavaScript: name is the boundary error type,
// kind the provider.Kind name.
func errorInfo(err error) jsErrorInfo {
	var (
		construction *webln.ConstructionError
		enable       *webln.EnableError
		getInfo      *webln.GetInfoError
		payment      *webln.PaymentError
		invoice      *webln.InvoiceError
	)
	switch {
	case errors.As(err, &construction):
		return jsErrorInfo{"ConstructionError", construction.Kind.String(), construction.Message}
	case errors.As(err, &enable):
		return jsErrorInfo{"EnableError", enable.Kind.String(), enable.Message}
	case errors.As(err, &getInfo):
		return jsErrorInfo{"GetInfoError", getInfo.Kind.String(), getInfo.Message}
	case errors.As(err, &payment):
		return jsErrorInfo{"PaymentError", payment.Kind.String(), payment.Message}
	case errors.As(err, &invoice):
		return jsErrorInfo{"InvoiceError", invoice.Kind.String(), invoice.Message}
	}

	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return jsErrorInfo{"Error", provider.KindOf(err).String(), msg}
}
