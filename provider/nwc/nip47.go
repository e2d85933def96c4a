package nwc

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/bits"
	"sort"
	"strconv"

	"github.com/lnbridge/go-webln/provider"
)

// Event kinds from NIP-47.
const (
	kindRequest  = 23194
	kindResponse = 23195
)

// NIP-47 method names.
const (
	methodGetInfo     = "get_info"
	methodPayInvoice  = "pay_invoice"
	methodPayKeysend  = "pay_keysend"
	methodMakeInvoice = "make_invoice"
)

// NIP-47 error codes.
const (
	codeRateLimited         = "RATE_LIMITED"
	codeNotImplemented      = "NOT_IMPLEMENTED"
	codeInsufficientBalance = "INSUFFICIENT_BALANCE"
	codeQuotaExceeded       = "QUOTA_EXCEEDED"
	codeRestricted          = "RESTRICTED"
	codeUnauthorized        = "UNAUTHORIZED"
	codeInternal            = "INTERNAL"
	codeOther               = "OTHER"
	codePaymentFailed       = "PAYMENT_FAILED"
	codeNotFound            = "NOT_FOUND"
)

var codeKinds = map[string]provider.Kind{
	codeRateLimited:         provider.KindRejected,
	codeNotImplemented:      provider.KindUnsupported,
	codeInsufficientBalance: provider.KindInsufficientBalance,
	codeQuotaExceeded:       provider.KindRejected,
	codeRestricted:          provider.KindRejected,
	codeUnauthorized:        provider.KindRejected,
	codeInternal:            provider.KindInternal,
	codeOther:               provider.KindUnknown,
	codePaymentFailed:       provider.KindPaymentFailed,
	codeNotFound:            provider.KindInvalidRequest,
}

// weblnMethods maps NIP-47 methods to the WebLN methods they back.
var weblnMethods = map[string]string{
	methodGetInfo:     provider.MethodGetInfo,
	methodPayInvoice:  provider.MethodSendPayment,
	methodPayKeysend:  provider.MethodKeysend,
	methodMakeInvoice: provider.MethodMakeInvoice,
}

type request struct {
	Method string `json:"method"`
	Params any    `json:"params"`
}

type response struct {
	ResultType string          `json:"result_type"`
	Error      *responseError  `json:"error,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *responseError) toProviderError() *provider.Error {
	kind, ok := codeKinds[e.Code]
	if !ok {
		kind = provider.ClassifyMessage(e.Message)
	}
	msg := e.Message
	if msg == "" {
		msg = kind.Description()
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Code)
	}
	return provider.Errorf(kind, "%s", msg)
}

type getInfoResult struct {
	Alias       string   `json:"alias"`
	Color       string   `json:"color"`
	Pubkey      string   `json:"pubkey"`
	Network     string   `json:"network"`
	BlockHeight uint64   `json:"block_height"`
	BlockHash   string   `json:"block_hash"`
	Methods     []string `json:"methods"`
}

func (r *getInfoResult) toProvider() *provider.GetInfoResponse {
	resp := &provider.GetInfoResponse{
		Node: provider.Node{
			Alias:  r.Alias,
			Pubkey: r.Pubkey,
		},
		Methods:  make([]string, 0, len(r.Methods)+2),
		Supports: []string{"lightning"},
	}
	if r.Color != "" {
		color := r.Color
		resp.Node.Color = &color
	}
	resp.Methods = append(resp.Methods, provider.MethodEnable, provider.MethodIsEnabled)
	for _, m := range r.Methods {
		if name, ok := weblnMethods[m]; ok {
			resp.Methods = append(resp.Methods, name)
		}
	}
	return resp
}

type payInvoiceParams struct {
	Invoice string `json:"invoice"`
}

type payResult struct {
	Preimage string `json:"preimage"`
	FeesPaid uint64 `json:"fees_paid,omitempty"`
}

type tlvRecord struct {
	Type  uint64 `json:"type"`
	Value string `json:"value"` // hex
}

type payKeysendParams struct {
	Amount     uint64      `json:"amount"` // msat
	Pubkey     string      `json:"pubkey"`
	TLVRecords []tlvRecord `json:"tlv_records,omitempty"`
}

func keysendParams(args *provider.KeysendArgs) (*payKeysendParams, error) {
	msat, err := satToMsat(args.Amount)
	if err != nil {
		return nil, err
	}
	p := &payKeysendParams{
		Amount: msat,
		Pubkey: args.Destination,
	}
	for key, value := range args.CustomRecords {
		typ, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, provider.Wrap(provider.KindInvalidRequest, err,
				fmt.Sprintf("custom record type %q is not a number", key))
		}
		p.TLVRecords = append(p.TLVRecords, tlvRecord{
			Type:  typ,
			Value: hex.EncodeToString([]byte(value)),
		})
	}
	sort.Slice(p.TLVRecords, func(i, j int) bool {
		return p.TLVRecords[i].Type < p.TLVRecords[j].Type
	})
	return p, nil
}

type makeInvoiceParams struct {
	Amount      uint64 `json:"amount"` // msat
	Description string `json:"description,omitempty"`
}

type makeInvoiceResult struct {
	Type        string `json:"type"`
	Invoice     string `json:"invoice"`
	PaymentHash string `json:"payment_hash"`
}

func invoiceParams(args *provider.RequestInvoiceArgs) (*makeInvoiceParams, error) {
	amount := args.Amount
	if amount == nil {
		amount = args.DefaultAmount
	}
	if amount == nil {
		return nil, provider.Errorf(provider.KindInvalidRequest, "nwc wallets need an invoice amount")
	}
	msat, err := satToMsat(*amount)
	if err != nil {
		return nil, err
	}
	p := &makeInvoiceParams{Amount: msat}
	if args.DefaultMemo != nil {
		p.Description = *args.DefaultMemo
	}
	return p, nil
}

// satToMsat converts a WebLN amount to NIP-47 millisatoshis. Amounts that do
// not fit in a uint64 once converted are rejected.
func satToMsat(sat uint64) (uint64, error) {
	hi, lo := bits.Mul64(sat, 1000)
	if hi != 0 {
		return 0, provider.Errorf(provider.KindInvalidRequest, "amount %d sat overflows msat", sat)
	}
	return lo, nil
}
