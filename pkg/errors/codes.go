package errors

type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeValidationError Code = "VALIDATION_ERROR"
	CodeNotFound        Code = "NOT_FOUND"
	CodeAccessDenied    Code = "ACCESS_DENIED"
	CodeInvalidActor    Code = "INVALID_ACTOR"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeInternal        Code = "INTERNAL"
)
