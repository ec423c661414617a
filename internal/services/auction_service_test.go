package services

import (
	"testing"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAuction(t *testing.T, svc *AuctionService, title, status string) *models.Auction {
	t.Helper()
	auction, err := svc.Create(&dto.CreateAuctionRequest{Title: title, Status: status})
	require.NoError(t, err)
	return auction
}

func TestCreateAuction(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, &fakeUploader{})

	t.Run("defaults", func(t *testing.T) {
		auction, err := svc.Create(&dto.CreateAuctionRequest{Title: "Campo en Pergamino"})
		require.NoError(t, err)
		assert.Equal(t, models.AuctionDraft, auction.Status)
		assert.Equal(t, "ARS", auction.Currency)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := svc.Create(&dto.CreateAuctionRequest{})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "title")
	})

	t.Run("bogus status", func(t *testing.T) {
		_, err := svc.Create(&dto.CreateAuctionRequest{Title: "Lote", Status: "ARCHIVED"})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "status")
	})
}

func TestSetFeatured(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, &fakeUploader{})

	var ids []uuid.UUID
	for _, title := range []string{"Lote A", "Lote B", "Lote C", "Lote D"} {
		a := seedAuction(t, svc, title, models.AuctionPublished)
		ids = append(ids, a.ID)
	}

	t.Run("more than the cap is rejected", func(t *testing.T) {
		err := svc.SetFeatured(ids)
		assert.ErrorIs(t, err, ErrTooManyFeatured)

		var count int64
		db.Model(&models.Auction{}).Where("is_featured = ?", true).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("replaces the featured set", func(t *testing.T) {
		require.NoError(t, svc.SetFeatured(ids[:2]))

		var featured []models.Auction
		require.NoError(t, db.Where("is_featured = ?", true).Find(&featured).Error)
		assert.Len(t, featured, 2)

		// A new set clears the old one.
		require.NoError(t, svc.SetFeatured(ids[2:4]))
		require.NoError(t, db.Where("is_featured = ?", true).Find(&featured).Error)
		require.Len(t, featured, 2)
		for _, a := range featured {
			assert.Contains(t, ids[2:4], a.ID)
		}
	})

	t.Run("unknown id rolls the batch back", func(t *testing.T) {
		err := svc.SetFeatured([]uuid.UUID{ids[0], uuid.New()})
		assert.ErrorIs(t, err, ErrAuctionNotFound)

		var featured []models.Auction
		require.NoError(t, db.Where("is_featured = ?", true).Find(&featured).Error)
		assert.Len(t, featured, 2, "previous set must survive the failed replace")
	})

	t.Run("empty set clears everything", func(t *testing.T) {
		require.NoError(t, svc.SetFeatured(nil))

		var count int64
		db.Model(&models.Auction{}).Where("is_featured = ?", true).Count(&count)
		assert.Zero(t, count)
	})
}

func TestReorderAuctions(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, &fakeUploader{})

	a := seedAuction(t, svc, "Primero", models.AuctionPublished)
	b := seedAuction(t, svc, "Segundo", models.AuctionPublished)
	c := seedAuction(t, svc, "Tercero", models.AuctionPublished)

	require.NoError(t, svc.Reorder([]uuid.UUID{c.ID, a.ID, b.ID}))

	order := map[uuid.UUID]int{}
	var rows []models.Auction
	require.NoError(t, db.Find(&rows).Error)
	for _, row := range rows {
		order[row.ID] = row.SortOrder
	}
	assert.Equal(t, 0, order[c.ID])
	assert.Equal(t, 1, order[a.ID])
	assert.Equal(t, 2, order[b.ID])

	t.Run("unknown id rolls the permutation back", func(t *testing.T) {
		err := svc.Reorder([]uuid.UUID{b.ID, uuid.New(), a.ID})
		assert.ErrorIs(t, err, ErrAuctionNotFound)

		var row models.Auction
		require.NoError(t, db.First(&row, "id = ?", b.ID).Error)
		assert.Equal(t, 2, row.SortOrder, "partial writes must be rolled back")
	})
}

func TestAuctionImages(t *testing.T) {
	db := newTestDB(t)
	uploader := &fakeUploader{}
	svc := NewAuctionService(db, uploader)
	auction := seedAuction(t, svc, "Casa en Rosario", models.AuctionPublished)

	t.Run("first image becomes primary", func(t *testing.T) {
		images, err := svc.AddImages(auction.ID, []string{"/uploads/a.jpg", "/uploads/b.jpg"})
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.True(t, images[0].IsPrimary)
		assert.False(t, images[1].IsPrimary)
	})

	t.Run("later batches never steal primary", func(t *testing.T) {
		images, err := svc.AddImages(auction.ID, []string{"/uploads/c.jpg"})
		require.NoError(t, err)
		assert.False(t, images[0].IsPrimary)

		var count int64
		db.Model(&models.AuctionImage{}).Where("auction_id = ? AND is_primary = ?", auction.ID, true).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("set primary moves the flag atomically", func(t *testing.T) {
		fresh, err := svc.Get(auction.ID)
		require.NoError(t, err)
		require.Len(t, fresh.Images, 3)
		target := fresh.Images[2]

		require.NoError(t, svc.SetPrimaryImage(auction.ID, target.ID))

		var primaries []models.AuctionImage
		require.NoError(t, db.Where("auction_id = ? AND is_primary = ?", auction.ID, true).Find(&primaries).Error)
		require.Len(t, primaries, 1)
		assert.Equal(t, target.ID, primaries[0].ID)
	})

	t.Run("set primary on foreign image fails", func(t *testing.T) {
		other := seedAuction(t, svc, "Otro lote", models.AuctionPublished)
		fresh, err := svc.Get(auction.ID)
		require.NoError(t, err)

		err = svc.SetPrimaryImage(other.ID, fresh.Images[0].ID)
		assert.ErrorIs(t, err, ErrImageNotFound)
	})

	t.Run("delete image removes the remote file", func(t *testing.T) {
		fresh, err := svc.Get(auction.ID)
		require.NoError(t, err)
		victim := fresh.Images[0]

		require.NoError(t, svc.DeleteImage(auction.ID, victim.ID))
		assert.Contains(t, uploader.deleted(), victim.URL)

		var count int64
		db.Model(&models.AuctionImage{}).Where("id = ?", victim.ID).Count(&count)
		assert.Zero(t, count)
	})
}

func TestUpdateAuctionPDF(t *testing.T) {
	db := newTestDB(t)
	uploader := &fakeUploader{}
	svc := NewAuctionService(db, uploader)
	auction := seedAuction(t, svc, "Depósito en Córdoba", models.AuctionDraft)

	updated, err := svc.Update(auction.ID, &dto.UpdateAuctionRequest{}, "/uploads/pliego.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/pliego.pdf", updated.PDFURL)

	t.Run("no file and no flag preserves the url", func(t *testing.T) {
		title := "Depósito renombrado"
		updated, err := svc.Update(auction.ID, &dto.UpdateAuctionRequest{Title: &title}, "")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/pliego.pdf", updated.PDFURL)
	})

	t.Run("explicit remove clears and deletes", func(t *testing.T) {
		updated, err := svc.Update(auction.ID, &dto.UpdateAuctionRequest{RemovePDF: true}, "")
		require.NoError(t, err)
		assert.Empty(t, updated.PDFURL)
		assert.Contains(t, uploader.deleted(), "/uploads/pliego.pdf")
	})
}

func TestDeleteAuction(t *testing.T) {
	db := newTestDB(t)
	uploader := &fakeUploader{}
	svc := NewAuctionService(db, uploader)

	auction := seedAuction(t, svc, "Galpón en Mendoza", models.AuctionPublished)
	_, err := svc.AddImages(auction.ID, []string{"/uploads/x.jpg", "/uploads/y.jpg"})
	require.NoError(t, err)
	_, err = svc.Update(auction.ID, &dto.UpdateAuctionRequest{}, "/uploads/pliego.pdf")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(auction.ID))

	_, err = svc.Get(auction.ID)
	assert.ErrorIs(t, err, ErrAuctionNotFound)

	var count int64
	db.Model(&models.AuctionImage{}).Where("auction_id = ?", auction.ID).Count(&count)
	assert.Zero(t, count)

	deleted := uploader.deleted()
	assert.Contains(t, deleted, "/uploads/x.jpg")
	assert.Contains(t, deleted, "/uploads/y.jpg")
	assert.Contains(t, deleted, "/uploads/pliego.pdf")

	t.Run("missing auction", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(uuid.New()), ErrAuctionNotFound)
	})
}

func TestListAuctions(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuctionService(db, &fakeUploader{})

	seedAuction(t, svc, "Publicada", models.AuctionPublished)
	seedAuction(t, svc, "Borrador", models.AuctionDraft)
	seedAuction(t, svc, "Terminada", models.AuctionEnded)

	t.Run("published only hides the rest", func(t *testing.T) {
		rows, total, err := svc.List(1, 20, "", "", true)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, rows, 1)
		assert.Equal(t, "Publicada", rows[0].Title)
	})

	t.Run("status filter", func(t *testing.T) {
		rows, _, err := svc.List(1, 20, models.AuctionEnded, "", false)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Terminada", rows[0].Title)
	})

	t.Run("search matches title", func(t *testing.T) {
		rows, _, err := svc.List(1, 20, "", "borra", false)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Borrador", rows[0].Title)
	})
}

func TestSetStatus(t *testing.T) {
	svc := NewAuctionService(newTestDB(t), &fakeUploader{})
	auction := seedAuction(t, svc, "Lote", models.AuctionDraft)

	updated, err := svc.SetStatus(auction.ID, models.AuctionPublished)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionPublished, updated.Status)

	_, err = svc.SetStatus(auction.ID, "NOPE")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.SetStatus(uuid.New(), models.AuctionEnded)
	assert.ErrorIs(t, err, ErrAuctionNotFound)
}
