package errors

var (
	// Domain errors used by the lifecycle, services and repositories.
	ErrConversationNotFound = NotFound("conversation not found")
	ErrMessageNotFound      = NotFound("message not found")
	ErrUserNotFound         = NotFound("user not found")
	ErrNotParticipant       = AccessDenied("access denied: not a conversation participant")
	ErrNotMessageOwner      = AccessDenied("access denied: not the message sender")
	ErrSelfReceipt          = InvalidActor("cannot mark own message as read")
	ErrSelfDelivery         = InvalidActor("cannot acknowledge delivery of own message")
	ErrMessageDeleted       = Validation("message is deleted")
	ErrEmptyMessageText     = Validation("message text cannot be empty")
	ErrMissingFileURL       = Validation("fileUrl is required for non-text messages")
	ErrConversationExists   = AlreadyExists("conversation already exists")
	ErrInvalidToken         = Unauthorized("invalid or expired token")
)

func ErrSendFailed(cause error) error {
	return Wrap(CodeInternal, "failed to send message", cause)
}

func ErrConversationLookupFailed(cause error) error {
	return Wrap(CodeInternal, "failed to load conversation", cause)
}
