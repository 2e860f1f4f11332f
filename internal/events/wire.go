package events

import (
	"fairpass/internal/admission"
	"fairpass/internal/group"
	"fairpass/pkg/logger"

	"gorm.io/gorm"
)

// Build assembles the gorm backed controller and its HTTP handler.
func Build(db *gorm.DB, verifier group.ProofVerifier, log *logger.Logger, opts ...admission.Option) (*Handler, error) {
	controller, err := admission.NewController(NewRepository(db), verifier, opts...)
	if err != nil {
		return nil, err
	}
	return NewHandler(NewService(controller), log), nil
}
