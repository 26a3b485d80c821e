package yoomoney

// DefaultBaseURL is the production API address.
const DefaultBaseURL = "https://money.yandex.ru"

const (
	authorizeEndpoint        = "oauth/authorize"
	tokenEndpoint            = "oauth/token"
	accountInfoEndpoint      = "api/account-info"
	operationHistoryEndpoint = "api/operation-history"
	operationDetailsEndpoint = "api/operation-details"
	requestPaymentEndpoint   = "api/request-payment"
	processPaymentEndpoint   = "api/process-payment"
	revokeEndpoint           = "api/revoke"
)
