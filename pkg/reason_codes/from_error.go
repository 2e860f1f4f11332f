package reasoncodes

import (
	"errors"
	"net/http"

	"fairpass/internal/admission"
	"fairpass/internal/group"
	"fairpass/internal/identity"
	"fairpass/internal/nullifier"
)

// FromError maps a domain error to its reason code and HTTP status.
// AlreadyCheckedIn is checked before AlreadyUsed since the former wraps the latter.
func FromError(err error) (ReasonCode, int) {
	switch {
	case err == nil:
		return "", http.StatusOK
	case errors.Is(err, group.ErrDuplicateCommitment):
		return ErrDuplicateCommitment, http.StatusConflict
	case errors.Is(err, group.ErrGroupFull):
		return ErrGroupFull, http.StatusConflict
	case errors.Is(err, admission.ErrNotApproved):
		return ErrNotApproved, http.StatusForbidden
	case errors.Is(err, admission.ErrAlreadyCheckedIn):
		return ErrAlreadyCheckedIn, http.StatusConflict
	case errors.Is(err, nullifier.ErrAlreadyUsed):
		return ErrAlreadyUsed, http.StatusConflict
	case errors.Is(err, identity.ErrEntropy):
		return ErrEntropy, http.StatusInternalServerError
	case errors.Is(err, admission.ErrInvalidEvent),
		errors.Is(err, identity.ErrInvalidCommitment):
		return ErrInvalidRequest, http.StatusBadRequest
	case errors.Is(err, admission.ErrStorage):
		return ErrStorageUnavailable, http.StatusServiceUnavailable
	default:
		return ErrInternal, http.StatusInternalServerError
	}
}
