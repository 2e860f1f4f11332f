package audit

import (
	"context"
	"errors"

	"fairpass/internal/model"
	dtocommon "fairpass/pkg/dto_common"
)

var ErrMalformedEvent = errors.New("malformed admission event")

type AuditService interface {
	ProcessAdmissionEvent(ctx context.Context, event dtocommon.AdmissionEventDto) error
	GetEntries(ctx context.Context, eventId string, limit, offset int) ([]model.AuditEntry, error)
}

type auditService struct {
	repository AuditRepository
}

func NewAuditService(repository AuditRepository) AuditService {
	return &auditService{repository: repository}
}

func (s *auditService) ProcessAdmissionEvent(ctx context.Context, event dtocommon.AdmissionEventDto) error {
	if event.Id == "" || event.Type == "" || event.EventId == "" {
		return ErrMalformedEvent
	}

	return s.repository.CreateEntry(ctx, model.AuditEntry{
		MessageId:  event.Id,
		Type:       event.Type,
		EventId:    event.EventId,
		Detail:     string(event.Payload),
		OccurredAt: event.OccurredAt.Time(),
	})
}

func (s *auditService) GetEntries(ctx context.Context, eventId string, limit, offset int) ([]model.AuditEntry, error) {
	return s.repository.GetEntriesByEvent(ctx, eventId, limit, offset)
}
