package wsbridge

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lnbridge/go-webln/provider"
)

// Frame types exchanged with the relay page.
const (
	frameHello  = "hello"  // page → bridge, once after connecting
	frameCall   = "call"   // bridge → page
	frameResult = "result" // page → bridge
)

// frame is the JSON wire format between the bridge and the relay page.
type frame struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Method    string          `json:"method,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *remoteError    `json:"error,omitempty"`
	Available bool            `json:"available,omitempty"`
	UserAgent string          `json:"userAgent,omitempty"`
}

// remoteError is a rejection reported by the page's window.webln.
type remoteError struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// toProviderError maps a page rejection to a provider error. An explicit
// kind wins; otherwise the wallet's message is classified.
func (e *remoteError) toProviderError(method string) *provider.Error {
	kind := provider.ParseKind(e.Kind)
	if kind == provider.KindUnknown {
		kind = provider.ClassifyMessage(e.Message)
	}
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("%s rejected by browser wallet", method)
	}
	return provider.Errorf(kind, "%s", msg)
}

// generateID returns a new unique call ID.
func generateID() string {
	return uuid.New().String()
}

func newCallFrame(method string, params any) (frame, error) {
	f := frame{Type: frameCall, ID: generateID(), Method: method}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return f, fmt.Errorf("marshal %s params: %w", method, err)
		}
		f.Params = b
	}
	return f, nil
}
