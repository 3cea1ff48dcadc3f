package services

// ErrorKind classifies every failure a service can return. The transport
// layer maps kinds to status codes; services never surface raw store errors.
type ErrorKind int

const (
	// KindNotFound covers truly absent resources, and resources deliberately
	// hidden from the requester (an unpublished game asked for publicly).
	KindNotFound ErrorKind = iota + 1
	// KindForbidden means the resource exists but the actor lacks rights.
	KindForbidden
	// KindConflict is a uniqueness violation.
	KindConflict
	// KindInvalidInput is malformed or out-of-range submitted data.
	KindInvalidInput
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func notFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func invalidInput(message string) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: message}
}
