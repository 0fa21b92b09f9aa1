package service

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a failure the caller is allowed to see. Anything else that leaves
// the service layer is reported as ErrInternal.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewValidationError reports malformed client input.
func NewValidationError(message string) *Error {
	return newError(KindValidation, message)
}

var (
	ErrInternal = newError(KindInternal, "internal server error")

	ErrMissingFields        = newError(KindValidation, "Please provide all the required fields")
	ErrPasswordTooLong      = newError(KindValidation, "Password must be at most 72 bytes")
	ErrTitleContentRequired = newError(KindValidation, "Title and content are required")
	ErrContentRequired      = newError(KindValidation, "Content is required")
	ErrParentMismatch       = newError(KindValidation, "Parent comment belongs to another post")
	ErrInvalidCredentials   = newError(KindValidation, "Invalid email or password")

	ErrUserExists = newError(KindConflict, "User already exists!")

	ErrNotAuthorized = newError(KindAuth, "Unauthorized")

	ErrForbiddenPostUpdate    = newError(KindForbidden, "Not authorized to update this post")
	ErrForbiddenPostDelete    = newError(KindForbidden, "Not authorized to delete this post")
	ErrForbiddenCommentDelete = newError(KindForbidden, "Not authorized to delete this comment")

	ErrUserNotFound    = newError(KindNotFound, "User not found")
	ErrPostNotFound    = newError(KindNotFound, "Post not found")
	ErrCommentNotFound = newError(KindNotFound, "Comment not found")
	ErrParentNotFound  = newError(KindNotFound, "Parent comment not found")
)
