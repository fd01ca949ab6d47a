package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/roomfinder-bot/internal/models"
)

// BuildingRepository provides access to building records.
type BuildingRepository interface {
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, buildings []models.Building) error
	List(ctx context.Context) ([]models.Building, error)
	FindByName(ctx context.Context, name string) (models.Building, bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type buildingRepository struct {
	db *gorm.DB
}

// NewBuildingRepository constructs a building repository.
func NewBuildingRepository(db *gorm.DB) BuildingRepository {
	return &buildingRepository{db: db}
}

func (r *buildingRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Building{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *buildingRepository) CreateBatch(ctx context.Context, buildings []models.Building) error {
	if len(buildings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&buildings).Error
}

func (r *buildingRepository) List(ctx context.Context) ([]models.Building, error) {
	var buildings []models.Building
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

func (r *buildingRepository) FindByName(ctx context.Context, name string) (models.Building, bool, error) {
	var building models.Building
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&building).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Building{}, false, nil
	}
	if err != nil {
		return models.Building{}, false, err
	}
	return building, true, nil
}

func (r *buildingRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Building{}).Where("name = ?", name).Limit(1).Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}
