package errors

// Error codes returned in the "error" field of every error body.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map messages from these codes.

const (
	// Authentication
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthPasswordIncorrect  = "AUTH_PASSWORD_INCORRECT"
	AuthPasswordMismatch   = "AUTH_PASSWORD_MISMATCH"
	AuthPasswordReused     = "AUTH_PASSWORD_REUSED"

	// Authorization
	AuthzForbidden = "AUTHZ_FORBIDDEN"

	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Cart and checkout
	CartEmpty        = "CART_EMPTY"
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	OrderNotFound    = "ORDER_NOT_FOUND"
	ProductNotFound  = "PRODUCT_NOT_FOUND"

	// Uploads
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
