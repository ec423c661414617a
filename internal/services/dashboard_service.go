package services

import (
	"fmt"

	"github.com/estudiolex/subastas-backend/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStats struct {
	AuctionsByStatus  map[string]int64     `json:"auctionsByStatus"`
	FeaturedAuctions  int64                `json:"featuredAuctions"`
	ActiveSubscribers int64                `json:"activeSubscribers"`
	TeamMembers       int64                `json:"teamMembers"`
	PracticeAreas     int64                `json:"practiceAreas"`
	RecentActivity    []models.ActivityLog `json:"recentActivity"`
}

func (s *DashboardService) Stats() (*DashboardStats, error) {
	stats := &DashboardStats{
		AuctionsByStatus: map[string]int64{},
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var byStatus []statusCount
	if err := s.db.Model(&models.Auction{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to count auctions: %w", err)
	}
	for _, row := range byStatus {
		stats.AuctionsByStatus[row.Status] = row.Count
	}

	s.db.Model(&models.Auction{}).Where("is_featured = ?", true).Count(&stats.FeaturedAuctions)
	s.db.Model(&models.NewsletterSubscriber{}).Where("is_active = ?", true).Count(&stats.ActiveSubscribers)
	s.db.Model(&models.TeamMember{}).Where("is_active = ?", true).Count(&stats.TeamMembers)
	s.db.Model(&models.PracticeArea{}).Where("is_active = ?", true).Count(&stats.PracticeAreas)

	if err := s.db.Order("created_at DESC").Limit(10).Find(&stats.RecentActivity).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent activity: %w", err)
	}
	return stats, nil
}
