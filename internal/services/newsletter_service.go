package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/estudiolex/subastas-backend/internal/config"
	"github.com/estudiolex/subastas-backend/internal/dto"
	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

var (
	ErrSubscriberNotFound  = errors.New("subscriber not found")
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrCampaignAlreadySent = errors.New("campaign already sent")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrSMTPNotConfigured   = errors.New("smtp not configured")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MailSender abstracts SMTP delivery so campaign tests run without a
// mail server.
type MailSender interface {
	Send(to, subject, htmlBody string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender returns nil when SMTP is unconfigured; the newsletter
// admin endpoints then reject sends instead of the process crashing.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	if cfg.SMTPHost == "" {
		slog.Warn("SMTP not configured, newsletter sending disabled")
		return nil
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   from,
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}

type NewsletterService struct {
	db     *gorm.DB
	sender MailSender
}

func NewNewsletterService(db *gorm.DB, sender MailSender) *NewsletterService {
	return &NewsletterService{db: db, sender: sender}
}

// Subscribe is idempotent: a previously unsubscribed address is
// reactivated instead of duplicated.
func (s *NewsletterService) Subscribe(email string) (*models.NewsletterSubscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	var existing models.NewsletterSubscriber
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if !existing.IsActive {
			if err := s.db.Model(&existing).Updates(map[string]interface{}{
				"is_active":       true,
				"unsubscribed_at": nil,
			}).Error; err != nil {
				return nil, fmt.Errorf("failed to reactivate subscriber: %w", err)
			}
			existing.IsActive = true
			existing.UnsubscribedAt = nil
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up subscriber: %w", err)
	}

	token := make([]byte, 24)
	if _, err := rand.Read(token); err != nil {
		return nil, fmt.Errorf("failed to generate unsubscribe token: %w", err)
	}

	row := models.NewsletterSubscriber{
		ID:               uuid.New(),
		Email:            email,
		IsActive:         true,
		UnsubscribeToken: hex.EncodeToString(token),
		SubscribedAt:     time.Now(),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}
	return &row, nil
}

func (s *NewsletterService) Unsubscribe(token string) error {
	var row models.NewsletterSubscriber
	if err := s.db.Where("unsubscribe_token = ?", token).First(&row).Error; err != nil {
		return ErrSubscriberNotFound
	}
	now := time.Now()
	return s.db.Model(&row).Updates(map[string]interface{}{
		"is_active":       false,
		"unsubscribed_at": now,
	}).Error
}

func (s *NewsletterService) ListSubscribers(page, limit int, activeOnly bool) ([]models.NewsletterSubscriber, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := s.db.Model(&models.NewsletterSubscriber{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	query.Count(&total)

	var rows []models.NewsletterSubscriber
	if err := query.Order("subscribed_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch subscribers: %w", err)
	}
	return rows, total, nil
}

func (s *NewsletterService) CreateCampaign(req *dto.CampaignRequest) (*models.EmailCampaign, error) {
	fields := map[string]string{}
	if req.Subject == "" {
		fields["subject"] = "El asunto es obligatorio"
	}
	if req.Body == "" {
		fields["body"] = "El contenido es obligatorio"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	row := models.EmailCampaign{
		ID:      uuid.New(),
		Subject: req.Subject,
		Body:    req.Body,
		Status:  models.CampaignDraft,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return &row, nil
}

func (s *NewsletterService) ListCampaigns() ([]models.EmailCampaign, error) {
	var rows []models.EmailCampaign
	if err := s.db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}
	return rows, nil
}

// SendCampaign fans the campaign out to every active subscriber with a
// bounded number of concurrent SMTP sessions. Individual failures are
// tallied, not fatal: one bad mailbox must not abort the whole send.
func (s *NewsletterService) SendCampaign(id uuid.UUID) (*models.EmailCampaign, error) {
	if s.sender == nil {
		return nil, ErrSMTPNotConfigured
	}

	var campaign models.EmailCampaign
	if err := s.db.First(&campaign, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to fetch campaign: %w", err)
	}
	if campaign.Status != models.CampaignDraft && campaign.Status != models.CampaignFailed {
		return nil, ErrCampaignAlreadySent
	}

	var subscribers []models.NewsletterSubscriber
	if err := s.db.Where("is_active = ?", true).Find(&subscribers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch subscribers: %w", err)
	}

	s.db.Model(&campaign).Update("status", models.CampaignSending)

	var sent, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(4)
	for _, sub := range subscribers {
		g.Go(func() error {
			if err := s.sender.Send(sub.Email, campaign.Subject, campaign.Body); err != nil {
				slog.Warn("campaign send failed for recipient", "email", sub.Email, "error", err)
				failed.Add(1)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	g.Wait()

	status := models.CampaignSent
	if sent.Load() == 0 && failed.Load() > 0 {
		status = models.CampaignFailed
	}
	now := time.Now()
	if err := s.db.Model(&campaign).Updates(map[string]interface{}{
		"status":       status,
		"sent_count":   sent.Load(),
		"failed_count": failed.Load(),
		"sent_at":      now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	campaign.Status = status
	campaign.SentCount = int(sent.Load())
	campaign.FailedCount = int(failed.Load())
	campaign.SentAt = &now
	return &campaign, nil
}
