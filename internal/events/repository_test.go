package events

import (
	"context"
	"errors"
	"testing"

	"fairpass/internal/admission"
	"fairpass/internal/database"
	"fairpass/internal/group"
	"fairpass/internal/identity"
	"fairpass/internal/model"
	dtocommon "fairpass/pkg/dto_common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitment(t *testing.T) identity.Commitment {
	t.Helper()
	id, err := identity.Generate()
	require.NoError(t, err)
	return id.Commitment()
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := database.NewTestDB(t)
	repo := NewRepository(db)

	a, b := commitment(t), commitment(t)
	var root group.Root
	require.NoError(t, repo.AppendMember(ctx, "concert", 0, a, root))
	require.NoError(t, repo.AppendMember(ctx, "concert", 1, b, root))
	require.NoError(t, repo.AppendMember(ctx, "festival", 0, b, root))

	n := identity.Nullifier{FieldBytes: a.FieldBytes}
	require.NoError(t, repo.ConsumeNullifier(ctx, "concert", n, root))

	state, err := repo.LoadEvent(ctx, "concert")
	require.NoError(t, err)
	assert.Equal(t, []identity.Commitment{a, b}, state.Members)
	assert.Equal(t, []identity.Nullifier{n}, state.Nullifiers)

	var outboxEvents []model.OutboxEvent
	require.NoError(t, db.Order("id ASC").Find(&outboxEvents).Error)
	require.Len(t, outboxEvents, 4)
	assert.Equal(t, dtocommon.TypeMemberApproved, outboxEvents[0].Type)
	assert.Equal(t, dtocommon.TypeAttendeeCheckedIn, outboxEvents[3].Type)
	assert.Equal(t, "concert", outboxEvents[3].AggregateId)
	assert.True(t, outboxEvents[3].ToProcess)
}

func TestRepositoryConflicts(t *testing.T) {
	ctx := context.Background()
	db := database.NewTestDB(t)
	repo := NewRepository(db)
	var root group.Root

	a, b := commitment(t), commitment(t)
	require.NoError(t, repo.AppendMember(ctx, "concert", 0, a, root))

	tests := []struct {
		name string
		run  func() error
	}{
		{"same commitment", func() error { return repo.AppendMember(ctx, "concert", 1, a, root) }},
		{"same leaf", func() error { return repo.AppendMember(ctx, "concert", 0, b, root) }},
		{"same nullifier", func() error {
			n := identity.Nullifier{FieldBytes: b.FieldBytes}
			if err := repo.ConsumeNullifier(ctx, "concert", n, root); err != nil {
				return err
			}
			return repo.ConsumeNullifier(ctx, "concert", n, root)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			assert.True(t, errors.Is(err, admission.ErrConflict), "got %v", err)
		})
	}

	// failed writes leave no outbox rows behind
	var count int64
	require.NoError(t, db.Model(&model.OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryDeleteEvent(t *testing.T) {
	ctx := context.Background()
	db := database.NewTestDB(t)
	repo := NewRepository(db)
	var root group.Root

	require.NoError(t, repo.DeleteEvent(ctx, "empty"))

	a := commitment(t)
	require.NoError(t, repo.AppendMember(ctx, "concert", 0, a, root))
	require.NoError(t, repo.ConsumeNullifier(ctx, "concert", identity.Nullifier{FieldBytes: a.FieldBytes}, root))
	require.NoError(t, repo.DeleteEvent(ctx, "concert"))

	state, err := repo.LoadEvent(ctx, "concert")
	require.NoError(t, err)
	assert.Empty(t, state.Members)
	assert.Empty(t, state.Nullifiers)

	var deleted []model.OutboxEvent
	require.NoError(t, db.Where("type = ?", dtocommon.TypeEventDeleted).Find(&deleted).Error)
	require.Len(t, deleted, 1)
	assert.JSONEq(t, `{"members":1,"nullifiers":1}`, deleted[0].Payload)
}

func TestControllerOnRepository(t *testing.T) {
	ctx := context.Background()
	db := database.NewTestDB(t)

	first, err := admission.NewController(NewRepository(db), nopVerifier{}, admission.WithDepth(testDepth))
	require.NoError(t, err)
	a, b := commitment(t), commitment(t)
	require.NoError(t, first.Approve(ctx, "concert", a))

	// a second instance sharing the database catches up on conflict
	second, err := admission.NewController(NewRepository(db), nopVerifier{}, admission.WithDepth(testDepth))
	require.NoError(t, err)
	_, err = second.Members(ctx, "concert")
	require.NoError(t, err)
	require.NoError(t, first.Approve(ctx, "concert", b))

	err = second.Approve(ctx, "concert", b)
	assert.True(t, errors.Is(err, group.ErrDuplicateCommitment), "got %v", err)

	view, err := second.Members(ctx, "concert")
	require.NoError(t, err)
	assert.Equal(t, []identity.Commitment{a, b}, view.Members)
}
