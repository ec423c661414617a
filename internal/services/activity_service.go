package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/estudiolex/subastas-backend/internal/models"
	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityEntry is what mutating handlers hand to the audit sink.
type ActivityEntry struct {
	Actor     *models.User
	Action    string
	Entity    string
	EntityID  string
	Detail    interface{}
	IP        string
	UserAgent string
}

// ActivityService is the best-effort audit sink. Record never blocks the
// request and never returns an error: a full buffer drops the entry with
// a warning, a failed insert is logged and swallowed. Observability must
// never become a correctness or availability dependency.
type ActivityService struct {
	db   *gorm.DB
	ch   chan models.ActivityLog
	done chan struct{}
}

func NewActivityService(db *gorm.DB) *ActivityService {
	s := &ActivityService{
		db:   db,
		ch:   make(chan models.ActivityLog, 256),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *ActivityService) run() {
	for row := range s.ch {
		if err := s.db.Create(&row).Error; err != nil {
			slog.Warn("activity log write failed", "action", row.Action, "entity", row.Entity, "error", err)
		}
	}
	close(s.done)
}

func (s *ActivityService) Record(e ActivityEntry) {
	row := models.ActivityLog{
		ID:        uuid.New(),
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		IP:        e.IP,
		UserAgent: summarizeUserAgent(e.UserAgent),
	}
	if e.Actor != nil {
		id := e.Actor.ID
		row.ActorID = &id
		row.ActorEmail = e.Actor.Email
	}
	if e.Detail != nil {
		if b, err := json.Marshal(e.Detail); err == nil {
			row.Detail = datatypes.JSON(b)
		}
	}

	select {
	case s.ch <- row:
	default:
		slog.Warn("activity log buffer full, dropping entry", "action", e.Action, "entity", e.Entity)
	}
}

// Close drains pending entries. Used at shutdown and in tests.
func (s *ActivityService) Close() {
	close(s.ch)
	<-s.done
}

// List returns a page of the audit trail, newest first, optionally
// filtered by entity kind and action tag.
func (s *ActivityService) List(page, limit int, entity, action string) ([]models.ActivityLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	query := s.db.Model(&models.ActivityLog{})
	if entity != "" {
		query = query.Where("entity = ?", entity)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	query.Count(&total)

	var rows []models.ActivityLog
	if err := query.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch activity log: %w", err)
	}
	return rows, total, nil
}

// summarizeUserAgent keeps the audit row readable: "Chrome 120 / Linux"
// instead of the raw 200-char header.
func summarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		if len(raw) > 255 {
			return raw[:255]
		}
		return raw
	}
	summary := name
	if version != "" {
		summary += " " + version
	}
	if os := ua.OS(); os != "" {
		summary += " / " + os
	}
	if len(summary) > 255 {
		summary = summary[:255]
	}
	return summary
}
