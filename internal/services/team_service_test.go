package services

import (
	"testing"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamMemberLifecycle(t *testing.T) {
	db := newTestDB(t)
	uploader := &fakeUploader{}
	svc := NewTeamService(db, uploader)

	member, err := svc.Create(&dto.TeamMemberRequest{
		Name:     "María González",
		Position: "Socia fundadora",
		Email:    "mgonzalez@estudio.com",
	}, "/uploads/maria.jpg")
	require.NoError(t, err)
	assert.True(t, member.IsActive)

	t.Run("missing name", func(t *testing.T) {
		_, err := svc.Create(&dto.TeamMemberRequest{Position: "Asociado"}, "")
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("update without file keeps the photo", func(t *testing.T) {
		updated, err := svc.Update(member.ID, &dto.TeamMemberRequest{Position: "Socia directora"}, "")
		require.NoError(t, err)
		got, err := svc.Get(updated.ID)
		require.NoError(t, err)
		assert.Equal(t, "/uploads/maria.jpg", got.PhotoURL)
		assert.Equal(t, "Socia directora", got.Position)
	})

	t.Run("explicit remove clears and deletes the photo", func(t *testing.T) {
		_, err := svc.Update(member.ID, &dto.TeamMemberRequest{RemovePhoto: true}, "")
		require.NoError(t, err)

		got, err := svc.Get(member.ID)
		require.NoError(t, err)
		assert.Empty(t, got.PhotoURL)
		assert.Contains(t, uploader.deleted(), "/uploads/maria.jpg")
	})

	t.Run("reorder rolls back on unknown id", func(t *testing.T) {
		second, err := svc.Create(&dto.TeamMemberRequest{Name: "Juan Pérez"}, "")
		require.NoError(t, err)

		require.NoError(t, svc.Reorder([]uuid.UUID{second.ID, member.ID}))

		err = svc.Reorder([]uuid.UUID{member.ID, uuid.New()})
		assert.ErrorIs(t, err, ErrTeamMemberNotFound)

		got, err := svc.Get(second.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.SortOrder)
	})

	t.Run("delete removes the stored photo", func(t *testing.T) {
		victim, err := svc.Create(&dto.TeamMemberRequest{Name: "Externo"}, "/uploads/externo.jpg")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(victim.ID))
		assert.Contains(t, uploader.deleted(), "/uploads/externo.jpg")

		_, err = svc.Get(victim.ID)
		assert.ErrorIs(t, err, ErrTeamMemberNotFound)
	})
}
