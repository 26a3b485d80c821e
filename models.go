package yoomoney

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// AccessScope is a permission requested during authorization.
type AccessScope string

const (
	ScopeAccountInfo      AccessScope = "account-info"
	ScopeOperationHistory AccessScope = "operation-history"
	ScopePaymentP2P       AccessScope = "payment-p2p"
)

// TokenExchangeData is the oauth/token reply.
type TokenExchangeData struct {
	AccessToken string `json:"access_token"`
}

type AccountStatus string

const (
	AccountStatusAnonymous  AccountStatus = "anonymous"
	AccountStatusNamed      AccountStatus = "named"
	AccountStatusIdentified AccountStatus = "identified"
)

type AccountType string

const (
	AccountTypePersonal     AccountType = "personal"
	AccountTypeProfessional AccountType = "professional"
)

type BalanceDetails struct {
	Total             decimal.Decimal `json:"total"`
	Available         decimal.Decimal `json:"available"`
	DepositionPending decimal.Decimal `json:"deposition_pending"`
	Blocked           decimal.Decimal `json:"blocked"`
	Debt              decimal.Decimal `json:"debt"`
	Hold              decimal.Decimal `json:"hold"`
}

type CardType string

const (
	CardTypeVisa            CardType = "VISA"
	CardTypeMasterCard      CardType = "MasterCard"
	CardTypeAmericanExpress CardType = "AmericanExpress"
	CardTypeJCB             CardType = "JCB"
)

type LinkedCard struct {
	PanFragment string   `json:"pan_fragment,omitempty"`
	Type        CardType `json:"type,omitempty"`
}

// AccountInfo is the api/account-info reply.
type AccountInfo struct {
	Account        string          `json:"account"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"`
	AccountStatus  AccountStatus   `json:"account_status"`
	AccountType    AccountType     `json:"account_type"`
	BalanceDetails *BalanceDetails `json:"balance_details,omitempty"`
	CardsLinked    []LinkedCard    `json:"cards_linked"`
}

// Uint64String is a uint64 the server sends as a JSON string, such as the
// history cursor.
type Uint64String uint64

func (n *Uint64String) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*n = Uint64String(v)
	return nil
}

func (n Uint64String) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(n), 10))
}

// OperationTypeFilter selects operation kinds in history requests.
type OperationTypeFilter string

const (
	FilterDeposition                  OperationTypeFilter = "deposition"
	FilterPayment                     OperationTypeFilter = "payment"
	FilterIncomingTransfersUnaccepted OperationTypeFilter = "incoming-transfers-unaccepted"
)

// OperationType is the operation kind reported in history replies.
type OperationType string

const (
	OperationPaymentShop               OperationType = "payment-shop"
	OperationOutgoingTransfer          OperationType = "outgoing-transfer"
	OperationDeposition                OperationType = "deposition"
	OperationIncomingTransfer          OperationType = "incoming-transfer"
	OperationIncomingTransferProtected OperationType = "incoming-transfer-protected"
)

type OperationStatus string

const (
	OperationStatusSuccess    OperationStatus = "success"
	OperationStatusRefused    OperationStatus = "refused"
	OperationStatusInProgress OperationStatus = "in_progress"
)

type TransferDirection string

const (
	DirectionIn  TransferDirection = "in"
	DirectionOut TransferDirection = "out"
)

// Operation is one history record.
type Operation struct {
	OperationID string            `json:"operation_id"`
	Status      OperationStatus   `json:"status"`
	Datetime    time.Time         `json:"datetime"`
	Title       string            `json:"title"`
	PatternID   string            `json:"pattern_id,omitempty"`
	Direction   TransferDirection `json:"direction"`
	Amount      decimal.Decimal   `json:"amount"`
	Label       string            `json:"label,omitempty"`
	Type        OperationType     `json:"type"`
}

// operationHistoryPage is one api/operation-history reply.
type operationHistoryPage struct {
	NextRecord *Uint64String `json:"next_record"`
	Operations []Operation   `json:"operations"`
}

type RecipientType string

const (
	RecipientAccount RecipientType = "account"
	RecipientPhone   RecipientType = "phone"
	RecipientEmail   RecipientType = "email"
)

// OperationDetails is the api/operation-details reply.
type OperationDetails struct {
	OperationID    string            `json:"operation_id"`
	Status         OperationStatus   `json:"status"`
	PatternID      string            `json:"pattern_id,omitempty"`
	Direction      TransferDirection `json:"direction"`
	Amount         decimal.Decimal   `json:"amount"`
	AmountDue      *decimal.Decimal  `json:"amount_due,omitempty"`
	Fee            *decimal.Decimal  `json:"fee,omitempty"`
	Datetime       time.Time         `json:"datetime"`
	Title          string            `json:"title"`
	Sender         string            `json:"sender,omitempty"`
	Recipient      string            `json:"recipient,omitempty"`
	RecipientType  RecipientType     `json:"recipient_type,omitempty"`
	Message        string            `json:"message,omitempty"`
	Comment        string            `json:"comment,omitempty"`
	Codepro        *bool             `json:"codepro,omitempty"`
	ProtectionCode string            `json:"protection_code,omitempty"`
	Expires        *time.Time        `json:"expires,omitempty"`
	AnswerDatetime *time.Time        `json:"answer_datetime,omitempty"`
	Label          string            `json:"label,omitempty"`
	Details        string            `json:"details,omitempty"`
	OperationType  OperationType     `json:"operation_type"`
	DigitalGoods   string            `json:"digital_goods,omitempty"`
}

// UserID identifies a transfer recipient by wallet account, phone number or
// email. The server takes all three through the same `to` parameter.
type UserID struct {
	value string
}

func AccountID(id uint64) UserID {
	return UserID{value: strconv.FormatUint(id, 10)}
}

func PhoneID(number string) UserID {
	return UserID{value: number}
}

func EmailID(addr string) UserID {
	return UserID{value: addr}
}

func (u UserID) String() string {
	return u.value
}

// RequestAmount is a transfer amount counted either before (total) or after
// (net) commission.
type RequestAmount struct {
	value decimal.Decimal
	net   bool
}

// AmountTotal is the amount charged to the sender.
func AmountTotal(v decimal.Decimal) RequestAmount {
	return RequestAmount{value: v}
}

// AmountNet is the amount the recipient should receive.
func AmountNet(v decimal.Decimal) RequestAmount {
	return RequestAmount{value: v, net: true}
}

type WalletAllowance struct {
	Allowed bool `json:"allowed"`
}

type CardSource struct {
	ID          string   `json:"id"`
	PanFragment string   `json:"pan_fragment,omitempty"`
	Type        CardType `json:"type,omitempty"`
}

type CardsAllowance struct {
	Allowed     bool         `json:"allowed"`
	CSCRequired *bool        `json:"csc_required,omitempty"`
	Items       []CardSource `json:"items,omitempty"`
}

type MoneySources struct {
	Wallet WalletAllowance `json:"wallet"`
	Cards  CardsAllowance  `json:"cards"`
}

type RequestPaymentSuccessData struct {
	Balance     decimal.Decimal `json:"balance"`
	RequestID   string          `json:"request_id"`
	MoneySource MoneySources    `json:"money_source"`
}

// RequestPaymentResult is the successful outcome of api/request-payment.
// HoldForPickup reports the `hold_for_pickup` status variant; it is an
// alternative success, not a failure.
type RequestPaymentResult struct {
	RequestPaymentSuccessData
	HoldForPickup bool
}

// Secure3DData carries the 3-D Secure completion URIs for card payments.
type Secure3DData struct {
	ExtAuthSuccessURI string
	ExtAuthFailURI    string
}

type ProcessPaymentSuccessData struct {
	PaymentID         string          `json:"payment_id"`
	Balance           decimal.Decimal `json:"balance"`
	InvoiceID         string          `json:"invoice_id"`
	Payer             string          `json:"payer"`
	Payee             string          `json:"payee"`
	CreditAmount      decimal.Decimal `json:"credit_amount"`
	HoldForPickupLink string          `json:"hold_for_pickup_link"`
	AcsURI            string          `json:"acs_uri,omitempty"`
	AcsParams         json.RawMessage `json:"acs_params,omitempty"`
	DigitalGoods      json.RawMessage `json:"digital_goods,omitempty"`
}
