package services

import (
	"testing"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	row, err := svc.Upsert("contact.email", "info@estudio.com", "admin@estudio.com")
	require.NoError(t, err)
	assert.Equal(t, "info@estudio.com", row.Value)
	assert.Equal(t, "admin@estudio.com", row.UpdatedBy)

	t.Run("same key updates in place", func(t *testing.T) {
		row, err := svc.Upsert("contact.email", "consultas@estudio.com", "otro@estudio.com")
		require.NoError(t, err)
		assert.Equal(t, "consultas@estudio.com", row.Value)
		assert.Equal(t, "otro@estudio.com", row.UpdatedBy)

		var count int64
		db.Model(&models.Setting{}).Where("key = ?", "contact.email").Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := svc.Upsert("", "valor", "admin@estudio.com")
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("unknown key on read", func(t *testing.T) {
		_, err := svc.Get("no.existe")
		assert.ErrorIs(t, err, ErrSettingNotFound)
	})
}

func TestSettingsBulkUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingsService(db)

	t.Run("atomic rollback", func(t *testing.T) {
		err := svc.BulkUpsert([]dto.BulkSettingsItem{
			{Key: "site.title", Value: "Estudio Lex"},
			{Key: "", Value: "huérfano"},
		}, "admin@estudio.com")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)

		var count int64
		db.Model(&models.Setting{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("all keys land together", func(t *testing.T) {
		require.NoError(t, svc.BulkUpsert([]dto.BulkSettingsItem{
			{Key: "site.title", Value: "Estudio Lex"},
			{Key: "site.whatsapp", Value: "+54 9 11 5555 5555"},
		}, "admin@estudio.com"))

		rows, err := svc.List()
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}
