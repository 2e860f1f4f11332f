package reasoncodes

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fairpass/internal/admission"
	"fairpass/internal/group"
	"fairpass/internal/identity"
	"fairpass/internal/nullifier"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   ReasonCode
		status int
	}{
		{"duplicate", group.ErrDuplicateCommitment, ErrDuplicateCommitment, http.StatusConflict},
		{"full", group.ErrGroupFull, ErrGroupFull, http.StatusConflict},
		{"not approved", fmt.Errorf("%w: bad proof", admission.ErrNotApproved), ErrNotApproved, http.StatusForbidden},
		{"checked in wraps used", fmt.Errorf("%w: %w", admission.ErrAlreadyCheckedIn, nullifier.ErrAlreadyUsed), ErrAlreadyCheckedIn, http.StatusConflict},
		{"bare used", nullifier.ErrAlreadyUsed, ErrAlreadyUsed, http.StatusConflict},
		{"entropy", identity.ErrEntropy, ErrEntropy, http.StatusInternalServerError},
		{"invalid event", admission.ErrInvalidEvent, ErrInvalidRequest, http.StatusBadRequest},
		{"storage", fmt.Errorf("%w: %w", admission.ErrStorage, errors.New("timeout")), ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, status := FromError(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, status)
		})
	}
}
