package errors

var (
	// Creator registry
	ErrUsernameTaken   = AlreadyExists("username is already taken")
	ErrCreatorNotFound = NotFound("creator not found")
	ErrCreatorHasTips  = FailedPrecondition("creator has recorded tips and cannot be deleted")

	// Tip ledger
	ErrDuplicateSignature = AlreadyExists("duplicate transaction signature")
	ErrInvalidAmount      = InvalidArg("amount must be greater than zero")

	// Wallet linking
	ErrInvalidPublicKey      = InvalidArg("invalid public key")
	ErrInvalidSignature      = InvalidArg("invalid signature")
	ErrVerificationFailed    = New(CodeVerificationFailed, "signature verification failed")
	ErrWebhookUnauthorized   = Unauthorized("invalid webhook secret")
	ErrUnresolvableRecipient = InvalidArg("no creator matches the destination wallet")
)
