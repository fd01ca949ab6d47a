package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/roomfinder-bot/internal/models"
)

// FloorRepository provides access to building floors.
type FloorRepository interface {
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, floors []models.Floor) error
	ListWithBuilding(ctx context.Context) ([]models.Floor, error)
	CountByBuilding(ctx context.Context, buildingID uint) (int64, error)
}

type floorRepository struct {
	db *gorm.DB
}

// NewFloorRepository constructs a floor repository.
func NewFloorRepository(db *gorm.DB) FloorRepository {
	return &floorRepository{db: db}
}

func (r *floorRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Floor{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *floorRepository) CreateBatch(ctx context.Context, floors []models.Floor) error {
	if len(floors) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&floors).Error
}

func (r *floorRepository) ListWithBuilding(ctx context.Context) ([]models.Floor, error) {
	var floors []models.Floor
	if err := r.db.WithContext(ctx).Preload("Building").Order("id ASC").Find(&floors).Error; err != nil {
		return nil, err
	}
	return floors, nil
}

func (r *floorRepository) CountByBuilding(ctx context.Context, buildingID uint) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Floor{}).Where("building_id = ?", buildingID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
