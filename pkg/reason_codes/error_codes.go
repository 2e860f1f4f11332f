package reasoncodes

type ReasonCode string

const (
	ErrDuplicateCommitment ReasonCode = "DuplicateCommitment"
	ErrGroupFull           ReasonCode = "GroupFull"
	ErrNotApproved         ReasonCode = "NotApproved"
	ErrAlreadyCheckedIn    ReasonCode = "AlreadyCheckedIn"
	ErrAlreadyUsed         ReasonCode = "AlreadyUsed"
	ErrEntropy             ReasonCode = "EntropyError"
	ErrInvalidRequest      ReasonCode = "InvalidRequest"
	ErrUnmarshal           ReasonCode = "UnmarshalError"
	ErrUnauthorized        ReasonCode = "Unauthorized"
	ErrForbidden           ReasonCode = "Forbidden"
	ErrRateLimited         ReasonCode = "RateLimited"
	ErrStorageUnavailable  ReasonCode = "StorageUnavailable"
	ErrInternal            ReasonCode = "InternalError"
)
