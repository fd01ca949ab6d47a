package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/roomfinder-bot/internal/models"
)

const classroomInsertBatchSize = 100

// ClassroomRepository provides access to classrooms and their location.
type ClassroomRepository interface {
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, classrooms []models.Classroom) error
	FindByCode(ctx context.Context, code string) (models.Classroom, bool, error)
	CountByBuilding(ctx context.Context, buildingID uint) (int64, error)
	FirstByBuilding(ctx context.Context, buildingID uint) (models.Classroom, bool, error)
}

type classroomRepository struct {
	db *gorm.DB
}

// NewClassroomRepository constructs a classroom repository.
func NewClassroomRepository(db *gorm.DB) ClassroomRepository {
	return &classroomRepository{db: db}
}

func (r *classroomRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Classroom{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *classroomRepository) CreateBatch(ctx context.Context, classrooms []models.Classroom) error {
	if len(classrooms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&classrooms, classroomInsertBatchSize).Error
}

// FindByCode returns the first classroom with the exact code, with its floor and
// building loaded.
func (r *classroomRepository) FindByCode(ctx context.Context, code string) (models.Classroom, bool, error) {
	var classroom models.Classroom
	err := r.db.WithContext(ctx).
		Preload("Floor.Building").
		Where("code = ?", code).
		Order("id ASC").
		First(&classroom).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Classroom{}, false, nil
	}
	if err != nil {
		return models.Classroom{}, false, err
	}
	return classroom, true, nil
}

func (r *classroomRepository) CountByBuilding(ctx context.Context, buildingID uint) (int64, error) {
	var total int64
	err := r.scopedToBuilding(ctx, buildingID).Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *classroomRepository) FirstByBuilding(ctx context.Context, buildingID uint) (models.Classroom, bool, error) {
	var classroom models.Classroom
	err := r.scopedToBuilding(ctx, buildingID).Order("classrooms.id ASC").First(&classroom).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Classroom{}, false, nil
	}
	if err != nil {
		return models.Classroom{}, false, err
	}
	return classroom, true, nil
}

func (r *classroomRepository) scopedToBuilding(ctx context.Context, buildingID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Classroom{}).
		Joins("JOIN floors ON floors.id = classrooms.floor_id").
		Where("floors.building_id = ?", buildingID)
}
