package errors

// Error codes shared by every layer that speaks HTTP.
const (
	ErrInternal            = "INTERNAL"
	ErrNotFound            = "NOT_FOUND"
	ErrInvalidArgument     = "INVALID_ARGUMENT"
	ErrMissingCredential   = "MISSING_CREDENTIAL"
	ErrInvalidCredential   = "INVALID_CREDENTIAL"
	ErrIdentityUnavailable = "IDENTITY_UNAVAILABLE"
	ErrForbidden           = "FORBIDDEN"
	ErrDuplicateIMEI       = "DUPLICATE_IMEI"
	ErrPartialFailure      = "PARTIAL_FAILURE"
	ErrTimeout             = "TIMEOUT"
)

// codeMapping maps an error code to its HTTP status.
var codeMapping = map[string]int{
	ErrInternal:            500,
	ErrNotFound:            404,
	ErrInvalidArgument:     400,
	ErrMissingCredential:   401,
	ErrInvalidCredential:   401,
	ErrIdentityUnavailable: 503,
	ErrForbidden:           403,
	ErrDuplicateIMEI:       409,
	ErrTimeout:             504,
}

// GetCodeMapping returns the HTTP status for code, 500 when unknown.
func GetCodeMapping(code string) int {
	if status, ok := codeMapping[code]; ok {
		return status
	}
	return 500
}
