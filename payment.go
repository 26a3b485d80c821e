package yoomoney

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// Outcome status tags shared by request-payment and process-payment replies.
const (
	statusSuccess         = "success"
	statusHoldForPickup   = "hold_for_pickup"
	statusRefused         = "refused"
	statusInProgress      = "in_progress"
	statusExtAuthRequired = "ext_auth_required"
	statusAccountBlocked  = "account_blocked"
)

// RefusedError reports that the server declined the operation.
type RefusedError struct {
	Message string
}

func (e RefusedError) Error() string {
	return "payment refused: " + e.Message
}

// InProgressError reports that the payment has not settled yet and may be
// retried after NextRetry milliseconds. It is an expected alternative
// outcome, not a transport failure.
type InProgressError struct {
	NextRetry uint64
}

func (e InProgressError) Error() string {
	return fmt.Sprintf("payment in progress, retry after %d", e.NextRetry)
}

// ExtAuthRequiredError reports that the card issuer demands 3-D Secure
// authentication before the payment can proceed.
type ExtAuthRequiredError struct{}

func (ExtAuthRequiredError) Error() string {
	return "external authentication required"
}

// AccountBlockedError reports that the account is blocked; the user must
// visit UnblockURI to remediate.
type AccountBlockedError struct {
	UnblockURI string
}

func (e AccountBlockedError) Error() string {
	return "account blocked, unblock at " + e.UnblockURI
}

// PaymentSource selects where api/process-payment draws the money from.
type PaymentSource interface {
	apply(params url.Values)
}

// WalletSource pays from the wallet balance.
type WalletSource struct{}

func (WalletSource) apply(params url.Values) {
	params.Set("money_source", "wallet")
}

// CardSourceRef pays from a linked card identified by the id reported in
// RequestPaymentResult money sources. Secure3D, when set, supplies the
// completion URIs for external authentication.
type CardSourceRef struct {
	ID       string
	Secure3D *Secure3DData
}

func (c CardSourceRef) apply(params url.Values) {
	params.Set("money_source", c.ID)
	if c.Secure3D != nil {
		params.Set("ext_auth_success_uri", c.Secure3D.ExtAuthSuccessURI)
		params.Set("ext_auth_fail_uri", c.Secure3D.ExtAuthFailURI)
	}
}

// PaymentRequest is a prepared api/request-payment call. Build one with the
// Request* methods, then Send it.
type PaymentRequest struct {
	transport Transport
	params    url.Values
}

// Send posts the payment request and resolves its ternary outcome. The
// hold_for_pickup variant folds into the result as an alternative success.
func (p *PaymentRequest) Send(ctx context.Context) (*RequestPaymentResult, error) {
	reply, err := call[requestPaymentReply](ctx, p.transport, requestPaymentEndpoint, p.params)
	if err != nil {
		return nil, err
	}
	return reply.result()
}

// TestPaymentRequest wraps a PaymentRequest so it runs against the sandbox
// without moving money.
type TestPaymentRequest struct {
	inner *PaymentRequest
}

// Test marks the request as a test payment.
func (p *PaymentRequest) Test() *TestPaymentRequest {
	return &TestPaymentRequest{inner: p}
}

func (p *TestPaymentRequest) Send(ctx context.Context) (*RequestPaymentResult, error) {
	p.inner.params.Set("test_payment", "true")
	return p.inner.Send(ctx)
}

// requestPaymentReply is the wire shape of the tagged request-payment
// outcome: the status tag plus the union of all variant fields.
type requestPaymentReply struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	RequestPaymentSuccessData
}

func (r requestPaymentReply) result() (*RequestPaymentResult, error) {
	switch r.Status {
	case statusSuccess:
		return &RequestPaymentResult{RequestPaymentSuccessData: r.RequestPaymentSuccessData}, nil
	case statusHoldForPickup:
		return &RequestPaymentResult{RequestPaymentSuccessData: r.RequestPaymentSuccessData, HoldForPickup: true}, nil
	case statusRefused:
		return nil, RefusedError{Message: r.Error}
	default:
		return nil, fmt.Errorf("unknown request-payment status %q", r.Status)
	}
}

// RequestShopPayment prepares a shop payment for a pattern id, passing the
// pattern-specific parameters through untouched.
func (c *Client) RequestShopPayment(patternID string, other map[string]string) *PaymentRequest {
	params := url.Values{"pattern_id": {patternID}}
	for k, v := range other {
		params.Set(k, v)
	}
	return &PaymentRequest{transport: c.transport, params: params}
}

// RequestTransfer prepares a peer-to-peer transfer.
func (c *Client) RequestTransfer(to UserID, amount RequestAmount, comment, message, label string, codepro, holdForPickup bool, expirePeriod uint32) *PaymentRequest {
	params := url.Values{
		"pattern_id":      {"p2p"},
		"to":              {to.String()},
		"comment":         {comment},
		"message":         {message},
		"codepro":         {strconv.FormatBool(codepro)},
		"hold_for_pickup": {strconv.FormatBool(holdForPickup)},
		"expire_period":   {strconv.FormatUint(uint64(expirePeriod), 10)},
	}
	if amount.net {
		params.Set("amount_due", amount.value.String())
	} else {
		params.Set("amount", amount.value.String())
	}
	if label != "" {
		params.Set("label", label)
	}
	return &PaymentRequest{transport: c.transport, params: params}
}

// RequestMobilePayment prepares a phone top-up.
func (c *Client) RequestMobilePayment(phoneNumber string, amount decimal.Decimal) *PaymentRequest {
	return &PaymentRequest{
		transport: c.transport,
		params: url.Values{
			"pattern_id":   {"phone-topup"},
			"phone-number": {phoneNumber},
			"amount":       {amount.String()},
		},
	}
}

// processPaymentReply is the wire shape of the five-way process-payment
// outcome.
type processPaymentReply struct {
	Status            string `json:"status"`
	Error             string `json:"error,omitempty"`
	NextRetry         uint64 `json:"next_retry,omitempty"`
	AccountUnblockURI string `json:"account_unblock_uri,omitempty"`
	ProcessPaymentSuccessData
}

func (r processPaymentReply) result() (*ProcessPaymentSuccessData, error) {
	switch r.Status {
	case statusSuccess:
		data := r.ProcessPaymentSuccessData
		return &data, nil
	case statusRefused:
		return nil, RefusedError{Message: r.Error}
	case statusInProgress:
		return nil, InProgressError{NextRetry: r.NextRetry}
	case statusExtAuthRequired:
		return nil, ExtAuthRequiredError{}
	case statusAccountBlocked:
		return nil, AccountBlockedError{UnblockURI: r.AccountUnblockURI}
	default:
		return nil, fmt.Errorf("unknown process-payment status %q", r.Status)
	}
}

// ProcessPayment settles a previously requested payment from the given money
// source. The non-success variants come back as typed errors so callers can
// branch on them.
func (c *Client) ProcessPayment(ctx context.Context, requestID string, source PaymentSource) (*ProcessPaymentSuccessData, error) {
	params := url.Values{"request_id": {requestID}}
	source.apply(params)

	reply, err := call[processPaymentReply](ctx, c.transport, processPaymentEndpoint, params)
	if err != nil {
		return nil, err
	}
	return reply.result()
}
