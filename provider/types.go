package provider

// Method names as exposed by window.webln.
const (
	MethodIsEnabled   = "isEnabled"
	MethodEnable      = "enable"
	MethodGetInfo     = "getInfo"
	MethodKeysend     = "keysend"
	MethodSendPayment = "sendPayment"
	MethodMakeInvoice = "makeInvoice"
)

// Node identifies the node behind a provider.
type Node struct {
	Alias  string  `json:"alias"`
	Pubkey string  `json:"pubkey,omitempty"`
	Color  *string `json:"color,omitempty"`
}

// GetInfoResponse is the provider's answer to getInfo.
type GetInfoResponse struct {
	Node     Node     `json:"node"`
	Methods  []string `json:"methods,omitempty"`
	Version  *string  `json:"version,omitempty"`
	Supports []string `json:"supports,omitempty"`
}

// KeysendArgs is the keysend request as handed to a provider.
// Amount is in satoshis.
type KeysendArgs struct {
	Destination   string            `json:"destination"`
	Amount        uint64            `json:"amount"`
	CustomRecords map[string]string `json:"customRecords,omitempty"`
}

// SendPaymentResponse carries the proof of a completed payment.
type SendPaymentResponse struct {
	Preimage string `json:"preimage"`
}

// RequestInvoiceArgs is the makeInvoice request. Amounts are in satoshis.
type RequestInvoiceArgs struct {
	Amount        *uint64 `json:"amount,omitempty"`
	DefaultAmount *uint64 `json:"defaultAmount,omitempty"`
	MinimumAmount *uint64 `json:"minimumAmount,omitempty"`
	MaximumAmount *uint64 `json:"maximumAmount,omitempty"`
	DefaultMemo   *string `json:"defaultMemo,omitempty"`
}

// RequestInvoiceResponse carries the created invoice.
type RequestInvoiceResponse struct {
	PaymentRequest string `json:"paymentRequest"`
}
