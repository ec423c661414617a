package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender fails for addresses in reject and records the rest.
type fakeSender struct {
	mu     sync.Mutex
	sent   []string
	reject map[string]bool
}

func (f *fakeSender) Send(to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reject[to] {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestSubscribe(t *testing.T) {
	db := newTestDB(t)
	svc := NewNewsletterService(db, nil)

	t.Run("invalid address", func(t *testing.T) {
		_, err := svc.Subscribe("no-es-un-correo")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("normalizes and stores", func(t *testing.T) {
		sub, err := svc.Subscribe("  Cliente@Gmail.com ")
		require.NoError(t, err)
		assert.Equal(t, "cliente@gmail.com", sub.Email)
		assert.True(t, sub.IsActive)
		assert.NotEmpty(t, sub.UnsubscribeToken)
	})

	t.Run("repeat subscription is idempotent", func(t *testing.T) {
		first, err := svc.Subscribe("cliente@gmail.com")
		require.NoError(t, err)
		second, err := svc.Subscribe("cliente@gmail.com")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		db.Model(&models.NewsletterSubscriber{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("unsubscribe then resubscribe reactivates", func(t *testing.T) {
		sub, err := svc.Subscribe("cliente@gmail.com")
		require.NoError(t, err)

		require.NoError(t, svc.Unsubscribe(sub.UnsubscribeToken))

		var row models.NewsletterSubscriber
		require.NoError(t, db.First(&row, "id = ?", sub.ID).Error)
		assert.False(t, row.IsActive)
		assert.NotNil(t, row.UnsubscribedAt)

		again, err := svc.Subscribe("cliente@gmail.com")
		require.NoError(t, err)
		assert.Equal(t, sub.ID, again.ID)
		assert.True(t, again.IsActive)
	})

	t.Run("unsubscribe with bad token", func(t *testing.T) {
		assert.ErrorIs(t, svc.Unsubscribe("token-falso"), ErrSubscriberNotFound)
	})
}

func TestSendCampaign(t *testing.T) {
	db := newTestDB(t)
	sender := &fakeSender{reject: map[string]bool{"rebota@gmail.com": true}}
	svc := NewNewsletterService(db, sender)

	for _, email := range []string{"uno@gmail.com", "dos@gmail.com", "rebota@gmail.com"} {
		_, err := svc.Subscribe(email)
		require.NoError(t, err)
	}
	// Inactive subscribers never receive campaigns.
	baja, err := svc.Subscribe("baja@gmail.com")
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(baja.UnsubscribeToken))

	campaign, err := svc.CreateCampaign(&dto.CampaignRequest{Subject: "Nuevas subastas", Body: "<p>Hola</p>"})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignDraft, campaign.Status)

	t.Run("tallies per-recipient results", func(t *testing.T) {
		sent, err := svc.SendCampaign(campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CampaignSent, sent.Status)
		assert.Equal(t, 2, sent.SentCount)
		assert.Equal(t, 1, sent.FailedCount)
		assert.NotNil(t, sent.SentAt)
		assert.NotContains(t, sender.sent, "baja@gmail.com")
	})

	t.Run("sent campaign cannot be re-sent", func(t *testing.T) {
		_, err := svc.SendCampaign(campaign.ID)
		assert.ErrorIs(t, err, ErrCampaignAlreadySent)
	})

	t.Run("unknown campaign", func(t *testing.T) {
		_, err := svc.SendCampaign(uuid.New())
		assert.ErrorIs(t, err, ErrCampaignNotFound)
	})

	t.Run("all failures mark the campaign failed", func(t *testing.T) {
		sender.reject["uno@gmail.com"] = true
		sender.reject["dos@gmail.com"] = true

		failed, err := svc.CreateCampaign(&dto.CampaignRequest{Subject: "Reintento", Body: "<p>Hola</p>"})
		require.NoError(t, err)

		result, err := svc.SendCampaign(failed.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CampaignFailed, result.Status)
		assert.Equal(t, 0, result.SentCount)

		// A failed campaign may be retried.
		delete(sender.reject, "uno@gmail.com")
		delete(sender.reject, "dos@gmail.com")
		retried, err := svc.SendCampaign(failed.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CampaignSent, retried.Status)
	})
}

func TestSendCampaignWithoutSMTP(t *testing.T) {
	db := newTestDB(t)
	svc := NewNewsletterService(db, nil)

	campaign, err := svc.CreateCampaign(&dto.CampaignRequest{Subject: "Asunto", Body: "Cuerpo"})
	require.NoError(t, err)

	_, err = svc.SendCampaign(campaign.ID)
	assert.ErrorIs(t, err, ErrSMTPNotConfigured)
}

func TestCreateCampaignValidation(t *testing.T) {
	svc := NewNewsletterService(newTestDB(t), nil)

	_, err := svc.CreateCampaign(&dto.CampaignRequest{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "subject")
	assert.Contains(t, ve.Fields, "body")
}
