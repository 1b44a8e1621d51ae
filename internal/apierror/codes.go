package apierror

// Error type URIs following the urn:habits:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:habits:error:validation"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:habits:error:bad_request"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:habits:error:not_found"

	// TypeConflict indicates a resource conflict, e.g. voiding an event
	// that already has a void (409)
	TypeConflict = "urn:habits:error:conflict"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:habits:error:unauthorized"

	// TypeForbidden indicates insufficient permissions (403)
	TypeForbidden = "urn:habits:error:forbidden"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:habits:error:rate_limit"

	// TypeFutureTimestamp indicates a client timestamp beyond the allowed
	// clock-skew tolerance (400)
	TypeFutureTimestamp = "urn:habits:error:future_timestamp"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:habits:error:internal"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation      = "Validation Error"
	TitleBadRequest      = "Bad Request"
	TitleNotFound        = "Resource Not Found"
	TitleConflict        = "Resource Conflict"
	TitleUnauthorized    = "Authentication Required"
	TitleForbidden       = "Permission Denied"
	TitleRateLimit       = "Rate Limit Exceeded"
	TitleFutureTimestamp = "Future Timestamp Not Allowed"
	TitleInternal        = "Internal Server Error"
)
