package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secondbrain-ai/deal-intel/internal/domain/entities"
	"github.com/secondbrain-ai/deal-intel/internal/domain/repositories"
)

// Deals scoring at or above this are counted as high probability
const highProbabilityThreshold = 80

// MeetingRepository implements the meeting repository interface using GORM
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{
		db: db,
	}
}

// Create creates a new meeting record
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if err := r.db.WithContext(ctx).Create(meeting).Error; err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// FindByID finds a meeting by ID
func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting by ID: %w", err)
	}
	return &meeting, nil
}

// FindByIDForBroker finds a meeting by ID scoped to its owner.
// A meeting belonging to another broker is indistinguishable from a missing one.
func (r *MeetingRepository) FindByIDForBroker(ctx context.Context, id, brokerID uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("id = ? AND broker_id = ?", id, brokerID).
		First(&meeting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting by ID: %w", err)
	}
	return &meeting, nil
}

// ListByBroker returns a broker's meetings honoring the filters
func (r *MeetingRepository) ListByBroker(ctx context.Context, brokerID uuid.UUID, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("broker_id = ?", brokerID)

	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR client_name ILIKE ? OR transcript ILIKE ?", pattern, pattern, pattern)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ConversationType != "" {
		query = query.Where("conversation_type = ?", filters.ConversationType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}

	sortColumn := "created_at"
	if filters.SortBy == "deal_probability_score" {
		sortColumn = "deal_probability_score"
	}
	direction := "ASC"
	if filters.SortDesc {
		direction = "DESC"
	}
	query = query.Order(fmt.Sprintf("%s %s NULLS LAST", sortColumn, direction))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var meetings []*entities.Meeting
	if err := query.Find(&meetings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, total, nil
}

// CountByBroker counts all meetings ever created by a broker
func (r *MeetingRepository) CountByBroker(ctx context.Context, brokerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("broker_id = ?", brokerID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count meetings: %w", err)
	}
	return count, nil
}

// Update persists the full meeting record
func (r *MeetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	if err := r.db.WithContext(ctx).Save(meeting).Error; err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	return nil
}

// StatsByBroker aggregates completed deal intelligence for a broker
func (r *MeetingRepository) StatsByBroker(ctx context.Context, brokerID uuid.UUID) (*repositories.CRMStats, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&entities.Meeting{}).
			Where("broker_id = ? AND status = ?", brokerID, entities.MeetingStatusCompleted)
	}

	stats := &repositories.CRMStats{}

	if err := base().Count(&stats.TotalDeals).Error; err != nil {
		return nil, fmt.Errorf("failed to count deals: %w", err)
	}
	if err := base().
		Where("conversation_type = ?", entities.ConversationBuyer).
		Count(&stats.Buyers).Error; err != nil {
		return nil, fmt.Errorf("failed to count buyers: %w", err)
	}
	if err := base().
		Where("conversation_type = ?", entities.ConversationSeller).
		Count(&stats.Sellers).Error; err != nil {
		return nil, fmt.Errorf("failed to count sellers: %w", err)
	}
	if err := base().
		Where("deal_probability_score >= ?", highProbabilityThreshold).
		Count(&stats.HighProbabilityDeals).Error; err != nil {
		return nil, fmt.Errorf("failed to count high probability deals: %w", err)
	}

	var avg *float64
	if err := base().
		Select("AVG(deal_probability_score)").
		Scan(&avg).Error; err != nil {
		return nil, fmt.Errorf("failed to average deal probability: %w", err)
	}
	if avg != nil {
		stats.AverageDealProbability = *avg
	}

	return stats, nil
}
