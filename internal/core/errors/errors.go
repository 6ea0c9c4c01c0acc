package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidJsonError     = "invalid_json"
	HttpInvalidPurchaseError = "invalid_purchase"
	HttpNotFoundError        = "not_found"
	HttpUnknownRouteError    = "unknown_route"
	HttpPayloadTooLargeError = "payload_too_large"
)

// ErrorResponse is the error body returned by every HTTP endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
