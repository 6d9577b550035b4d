package donation

import (
	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	DonationRepository interface {
		CreateDonation(ctx context.Context, donation *entities.Donation) error
		GetDonationByID(ctx context.Context, id string) (*entities.Donation, error)
		GetAvailableDonations(ctx context.Context) ([]*entities.Donation, error)
		GetUserDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.Donation, int64, error)
		UpdateDonationStatus(ctx context.Context, id string, status string) error

		AcceptDonation(ctx context.Context, donationID, acceptorID uuid.UUID, distanceKm float64, points int) (*entities.DonationAcceptance, error)
		CompleteDonation(ctx context.Context, donationID string, completedAt time.Time) error
		GetAcceptanceByDonationID(ctx context.Context, donationID string) (*entities.DonationAcceptance, error)
		GetAcceptanceHistory(ctx context.Context, acceptorID string, limit int) ([]*entities.DonationAcceptance, error)
		RateAcceptance(ctx context.Context, acceptanceID string, rating int, feedback string) error

		GetDonationStatistics(ctx context.Context, donorID string) (map[string]int64, error)
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) CreateDonation(ctx context.Context, donation *entities.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	var donation entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donor").
		Preload("Acceptance").
		Where("id = ?", id).
		First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) GetAvailableDonations(ctx context.Context) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Where("status = ? AND available_until > ?", domain.DonationStatusAvailable, time.Now()).
		Order("created_at ASC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) GetUserDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.Donation, int64, error) {
	var donations []*entities.Donation
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("donor_id = ?", donorID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Acceptance").
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, count, nil
}

func (r *donationRepository) UpdateDonationStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// AcceptDonation applies the acceptance as a single transaction. The
// unique index on donation_id arbitrates concurrent attempts: the insert
// uses ON CONFLICT DO NOTHING, and a zero RowsAffected means another
// acceptor already holds the donation. The status flip is additionally
// guarded on the current status so the transition, the acceptance row
// and the donor's point credit commit or roll back together.
func (r *donationRepository) AcceptDonation(ctx context.Context, donationID, acceptorID uuid.UUID, distanceKm float64, points int) (*entities.DonationAcceptance, error) {
	acceptance := &entities.DonationAcceptance{
		ID:         uuid.New(),
		DonationID: donationID,
		AcceptorID: acceptorID,
		DistanceKm: distanceKm,
		AcceptedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "donation_id"}},
			DoNothing: true,
		}).Create(acceptance)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAlreadyAccepted
		}

		update := tx.Model(&entities.Donation{}).
			Where("id = ? AND status = ?", donationID, domain.DonationStatusAvailable).
			Update("status", domain.DonationStatusAccepted)
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return domain.ErrAlreadyAccepted
		}

		var donation entities.Donation
		if err := tx.Select("donor_id").Where("id = ?", donationID).First(&donation).Error; err != nil {
			return err
		}

		return tx.Model(&entities.User{}).
			Where("id = ?", donation.DonorID).
			Update("green_points", gorm.Expr("green_points + ?", points)).Error
	})
	if err != nil {
		return nil, err
	}

	return acceptance, nil
}

func (r *donationRepository) CompleteDonation(ctx context.Context, donationID string, completedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&entities.Donation{}).
			Where("id = ? AND status = ?", donationID, domain.DonationStatusAccepted).
			Update("status", domain.DonationStatusCompleted)
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return domain.ErrInvalidTransition
		}

		return tx.Model(&entities.DonationAcceptance{}).
			Where("donation_id = ?", donationID).
			Update("completed_at", completedAt).Error
	})
}

func (r *donationRepository) GetAcceptanceByDonationID(ctx context.Context, donationID string) (*entities.DonationAcceptance, error) {
	var acceptance entities.DonationAcceptance
	if err := r.db.WithContext(ctx).
		Where("donation_id = ?", donationID).
		First(&acceptance).Error; err != nil {
		return nil, err
	}
	return &acceptance, nil
}

func (r *donationRepository) GetAcceptanceHistory(ctx context.Context, acceptorID string, limit int) ([]*entities.DonationAcceptance, error) {
	var acceptances []*entities.DonationAcceptance
	if err := r.db.WithContext(ctx).
		Preload("Donation").
		Where("acceptor_id = ?", acceptorID).
		Order("accepted_at DESC").
		Limit(limit).
		Find(&acceptances).Error; err != nil {
		return nil, err
	}
	return acceptances, nil
}

func (r *donationRepository) RateAcceptance(ctx context.Context, acceptanceID string, rating int, feedback string) error {
	return r.db.WithContext(ctx).
		Model(&entities.DonationAcceptance{}).
		Where("id = ?", acceptanceID).
		Updates(map[string]interface{}{
			"rating":   rating,
			"feedback": feedback,
		}).Error
}

func (r *donationRepository) GetDonationStatistics(ctx context.Context, donorID string) (map[string]int64, error) {
	stats := map[string]int64{}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("donor_id = ?", donorID).
		Count(&total).Error; err != nil {
		return nil, err
	}
	stats["total"] = total

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Select("status, COUNT(*) as count").
		Where("donor_id = ?", donorID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats[c.Status] = c.Count
	}

	return stats, nil
}
