package insight

import (
	"FoodBridge-Backend/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	InsightRepository interface {
		GetDonationsSince(ctx context.Context, since time.Time, limit int) ([]*entities.Donation, error)
		CreateInsights(ctx context.Context, insights []*entities.Insight) error
		GetInsights(ctx context.Context, limit int) ([]*entities.Insight, error)
		TrimInsights(ctx context.Context, keep int) error
	}

	insightRepository struct {
		db *gorm.DB
	}
)

func NewInsightRepository(db *gorm.DB) InsightRepository {
	return &insightRepository{db: db}
}

func (r *insightRepository) GetDonationsSince(ctx context.Context, since time.Time, limit int) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *insightRepository) CreateInsights(ctx context.Context, insights []*entities.Insight) error {
	return r.db.WithContext(ctx).Create(insights).Error
}

func (r *insightRepository) GetInsights(ctx context.Context, limit int) ([]*entities.Insight, error) {
	var insights []*entities.Insight
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}

// TrimInsights enforces the retention cap: everything beyond the `keep`
// most recent rows is removed, oldest first.
func (r *insightRepository) TrimInsights(ctx context.Context, keep int) error {
	var staleIDs []string
	if err := r.db.WithContext(ctx).
		Model(&entities.Insight{}).
		Order("created_at DESC").
		Offset(keep).
		Limit(1000).
		Pluck("id", &staleIDs).Error; err != nil {
		return err
	}

	if len(staleIDs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Unscoped().
		Where("id IN ?", staleIDs).
		Delete(&entities.Insight{}).Error
}
