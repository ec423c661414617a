package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/estudiolex/subastas-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrImageNotFound   = errors.New("auction image not found")
	ErrTooManyFeatured = errors.New("too many featured auctions")
	ErrInvalidStatus   = errors.New("invalid auction status")
)

// ValidationError carries field-level detail for 400 responses.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

func validStatus(s string) bool {
	switch s {
	case models.AuctionDraft, models.AuctionPublished, models.AuctionEnded, models.AuctionCancelled:
		return true
	}
	return false
}

type AuctionService struct {
	db       *gorm.DB
	uploader storage.Uploader
}

func NewAuctionService(db *gorm.DB, uploader storage.Uploader) *AuctionService {
	return &AuctionService{db: db, uploader: uploader}
}

func (s *AuctionService) List(page, limit int, status, search string, publishedOnly bool) ([]models.Auction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&models.Auction{})
	if publishedOnly {
		query = query.Where("status = ?", models.AuctionPublished)
	} else if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR location LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var auctions []models.Auction
	err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Order("sort_order ASC, created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&auctions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch auctions: %w", err)
	}
	return auctions, total, nil
}

func (s *AuctionService) Featured() ([]models.Auction, error) {
	var auctions []models.Auction
	err := s.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("is_featured = ? AND status = ?", true, models.AuctionPublished).
		Order("sort_order ASC").
		Find(&auctions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured auctions: %w", err)
	}
	return auctions, nil
}

func (s *AuctionService) Get(id uuid.UUID) (*models.Auction, error) {
	var auction models.Auction
	err := s.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&auction, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to fetch auction: %w", err)
	}
	return &auction, nil
}

func (s *AuctionService) Create(req *dto.CreateAuctionRequest) (*models.Auction, error) {
	fields := map[string]string{}
	if req.Title == "" {
		fields["title"] = "El título es obligatorio"
	}
	status := req.Status
	if status == "" {
		status = models.AuctionDraft
	}
	if !validStatus(status) {
		fields["status"] = "Estado inválido"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	currency := req.Currency
	if currency == "" {
		currency = "ARS"
	}

	auction := models.Auction{
		ID:            uuid.New(),
		Title:         req.Title,
		Description:   req.Description,
		Status:        status,
		StartingPrice: req.StartingPrice,
		Currency:      currency,
		Location:      req.Location,
		AuctionDate:   req.AuctionDate,
	}
	if err := s.db.Create(&auction).Error; err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}
	return &auction, nil
}

func (s *AuctionService) Update(id uuid.UUID, req *dto.UpdateAuctionRequest, pdfURL string) (*models.Auction, error) {
	auction, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, &ValidationError{Fields: map[string]string{"title": "El título es obligatorio"}}
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if req.StartingPrice != nil {
		updates["starting_price"] = *req.StartingPrice
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.AuctionDate != nil {
		updates["auction_date"] = *req.AuctionDate
	}

	// Absent file preserves the stored URL; RemovePDF is the explicit
	// clear signal.
	if pdfURL != "" {
		updates["pdf_url"] = pdfURL
	} else if req.RemovePDF {
		if auction.PDFURL != "" {
			s.uploader.Delete(context.Background(), auction.PDFURL)
		}
		updates["pdf_url"] = ""
	}

	if len(updates) > 0 {
		if err := s.db.Model(auction).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update auction: %w", err)
		}
	}
	return s.Get(id)
}

func (s *AuctionService) Delete(id uuid.UUID) error {
	auction, err := s.Get(id)
	if err != nil {
		return err
	}

	// Remote files go best-effort; the row delete is the operation.
	for _, img := range auction.Images {
		s.uploader.Delete(context.Background(), img.URL)
	}
	if auction.PDFURL != "" {
		s.uploader.Delete(context.Background(), auction.PDFURL)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("auction_id = ?", id).Delete(&models.AuctionImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(auction).Error
	})
}

// AddImages appends uploaded URLs as image rows. The first image an
// auction ever gets becomes primary automatically.
func (s *AuctionService) AddImages(auctionID uuid.UUID, urls []string) ([]models.AuctionImage, error) {
	auction, err := s.Get(auctionID)
	if err != nil {
		return nil, err
	}

	var maxOrder int
	hasPrimary := false
	for _, img := range auction.Images {
		if img.SortOrder > maxOrder {
			maxOrder = img.SortOrder
		}
		if img.IsPrimary {
			hasPrimary = true
		}
	}

	images := make([]models.AuctionImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, models.AuctionImage{
			ID:        uuid.New(),
			AuctionID: auctionID,
			URL:       url,
			IsPrimary: !hasPrimary && len(auction.Images) == 0 && i == 0,
			SortOrder: maxOrder + i + 1,
		})
	}

	if err := s.db.Create(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to save auction images: %w", err)
	}
	return images, nil
}

func (s *AuctionService) DeleteImage(auctionID, imageID uuid.UUID) error {
	var image models.AuctionImage
	if err := s.db.Where("id = ? AND auction_id = ?", imageID, auctionID).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to fetch auction image: %w", err)
	}

	s.uploader.Delete(context.Background(), image.URL)
	return s.db.Delete(&image).Error
}

// SetPrimaryImage enforces the at-most-one-primary invariant with a
// transactional clear-then-set.
func (s *AuctionService) SetPrimaryImage(auctionID, imageID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var image models.AuctionImage
		if err := tx.Where("id = ? AND auction_id = ?", imageID, auctionID).First(&image).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrImageNotFound
			}
			return err
		}

		if err := tx.Model(&models.AuctionImage{}).
			Where("auction_id = ?", auctionID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&image).Update("is_primary", true).Error
	})
}

func (s *AuctionService) SetStatus(id uuid.UUID, status string) (*models.Auction, error) {
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	result := s.db.Model(&models.Auction{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAuctionNotFound
	}
	return s.Get(id)
}

// SetFeatured replaces the featured set atomically. The public site
// highlights at most MaxFeaturedAuctions.
func (s *AuctionService) SetFeatured(ids []uuid.UUID) error {
	if len(ids) > models.MaxFeaturedAuctions {
		return ErrTooManyFeatured
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Auction{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(ids) {
			return ErrAuctionNotFound
		}

		if err := tx.Model(&models.Auction{}).Where("is_featured = ?", true).
			Update("is_featured", false).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&models.Auction{}).Where("id IN ?", ids).
			Update("is_featured", true).Error
	})
}

// Reorder applies the submitted permutation atomically: position in the
// slice becomes the sort order. An unknown id rolls the whole batch back.
func (s *AuctionService) Reorder(ids []uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(&models.Auction{}).Where("id = ?", id).Update("sort_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrAuctionNotFound
			}
		}
		return nil
	})
}
