package events

import (
	"context"
	"errors"
	"fmt"

	"fairpass/internal/admission"
	"fairpass/internal/group"
	"fairpass/internal/identity"
	"fairpass/internal/model"
	"fairpass/internal/outbox"
	dtocommon "fairpass/pkg/dto_common"

	"gorm.io/gorm"
)

// Repository is the gorm backed admission.Store. Each write stages its outbox event
// in the same transaction.
type Repository struct {
	db *gorm.DB
}

var _ admission.Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) LoadEvent(ctx context.Context, eventID string) (admission.EventState, error) {
	var state admission.EventState

	var members []model.Member
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("leaf_index ASC").
		Find(&members).Error
	if err != nil {
		return state, err
	}

	var used []model.UsedNullifier
	err = r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&used).Error
	if err != nil {
		return state, err
	}

	state.Members = make([]identity.Commitment, len(members))
	for i, m := range members {
		if m.LeafIndex != i {
			return state, fmt.Errorf("event %q: leaf %d stored at position %d", eventID, m.LeafIndex, i)
		}
		c, err := identity.ParseCommitment(m.Commitment)
		if err != nil {
			return state, fmt.Errorf("event %q leaf %d: %w", eventID, i, err)
		}
		state.Members[i] = c
	}

	state.Nullifiers = make([]identity.Nullifier, len(used))
	for i, u := range used {
		n, err := identity.ParseNullifier(u.Nullifier)
		if err != nil {
			return state, fmt.Errorf("event %q: %w", eventID, err)
		}
		state.Nullifiers[i] = n
	}
	return state, nil
}

func (r *Repository) AppendMember(ctx context.Context, eventID string, leafIndex int, commitment identity.Commitment, root group.Root) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := model.Member{
			EventId:    eventID,
			LeafIndex:  leafIndex,
			Commitment: commitment.Hex(),
			Root:       root.Hex(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		_, err := outbox.NewEvent(tx, dtocommon.TypeMemberApproved, eventID, dtocommon.MemberApprovedDto{
			Commitment: commitment.Hex(),
			LeafIndex:  leafIndex,
			Root:       root.Hex(),
		})
		return err
	})
	return translate(err)
}

func (r *Repository) ConsumeNullifier(ctx context.Context, eventID string, n identity.Nullifier, root group.Root) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		used := model.UsedNullifier{
			EventId:   eventID,
			Nullifier: n.Hex(),
			Root:      root.Hex(),
		}
		if err := tx.Create(&used).Error; err != nil {
			return err
		}

		_, err := outbox.NewEvent(tx, dtocommon.TypeAttendeeCheckedIn, eventID, dtocommon.AttendeeCheckedInDto{
			Nullifier: n.Hex(),
			Root:      root.Hex(),
		})
		return err
	})
	return translate(err)
}

func (r *Repository) DeleteEvent(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members := tx.Where("event_id = ?", eventID).Delete(&model.Member{})
		if members.Error != nil {
			return members.Error
		}
		used := tx.Where("event_id = ?", eventID).Delete(&model.UsedNullifier{})
		if used.Error != nil {
			return used.Error
		}
		if members.RowsAffected == 0 && used.RowsAffected == 0 {
			return nil
		}

		_, err := outbox.NewEvent(tx, dtocommon.TypeEventDeleted, eventID, dtocommon.EventDeletedDto{
			Members:    int(members.RowsAffected),
			Nullifiers: int(used.RowsAffected),
		})
		return err
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", admission.ErrConflict, err)
	}
	return err
}
