package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/roomfinder-bot/internal/models"
)

// UserActivityRepository persists the append-only room search log.
type UserActivityRepository interface {
	Create(ctx context.Context, entry *models.UserActivity) error
	CountDistinctUsers(ctx context.Context) (int64, error)
	LatestByUser(ctx context.Context, userID int64) (models.UserActivity, bool, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

type userActivityRepository struct {
	db *gorm.DB
}

// NewUserActivityRepository constructs the activity log repository.
func NewUserActivityRepository(db *gorm.DB) UserActivityRepository {
	return &userActivityRepository{db: db}
}

func (r *userActivityRepository) Create(ctx context.Context, entry *models.UserActivity) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *userActivityRepository) CountDistinctUsers(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.UserActivity{}).Distinct("user_id").Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *userActivityRepository) LatestByUser(ctx context.Context, userID int64) (models.UserActivity, bool, error) {
	var entry models.UserActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "time"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserActivity{}, false, nil
	}
	if err != nil {
		return models.UserActivity{}, false, err
	}
	return entry, true, nil
}

func (r *userActivityRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.UserActivity{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
