package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/roomfinder-bot/internal/dto"
	"github.com/noah-isme/roomfinder-bot/internal/models"
	"github.com/noah-isme/roomfinder-bot/internal/repository"
)

// LookupService answers room and building questions. Matching is exact and
// case-sensitive; a missing row is reported through the found flag.
type LookupService interface {
	FindClassroom(ctx context.Context, code string) (dto.ClassroomLocation, bool, error)
	FindBuilding(ctx context.Context, name string) (models.Building, bool, error)
	BuildingSummary(ctx context.Context, building models.Building) (dto.BuildingSummary, error)
	IsBuildingName(ctx context.Context, text string) (bool, error)
	ListBuildings(ctx context.Context) ([]models.Building, error)
}

type lookupService struct {
	buildings  repository.BuildingRepository
	floors     repository.FloorRepository
	classrooms repository.ClassroomRepository
	logger     zerolog.Logger
}

// NewLookupService constructs the lookup service.
func NewLookupService(buildings repository.BuildingRepository, floors repository.FloorRepository, classrooms repository.ClassroomRepository, logger zerolog.Logger) LookupService {
	return &lookupService{
		buildings:  buildings,
		floors:     floors,
		classrooms: classrooms,
		logger:     logger.With().Str("component", "lookup_service").Logger(),
	}
}

func (s *lookupService) FindClassroom(ctx context.Context, code string) (dto.ClassroomLocation, bool, error) {
	classroom, found, err := s.classrooms.FindByCode(ctx, code)
	if err != nil {
		return dto.ClassroomLocation{}, false, fmt.Errorf("find classroom %q: %w", code, err)
	}
	if !found {
		return dto.ClassroomLocation{}, false, nil
	}

	return dto.ClassroomLocation{
		Code:         classroom.Code,
		BuildingName: classroom.Floor.Building.Name,
		FloorNumber:  classroom.Floor.Number,
	}, true, nil
}

func (s *lookupService) FindBuilding(ctx context.Context, name string) (models.Building, bool, error) {
	building, found, err := s.buildings.FindByName(ctx, name)
	if err != nil {
		return models.Building{}, false, fmt.Errorf("find building %q: %w", name, err)
	}
	return building, found, nil
}

func (s *lookupService) BuildingSummary(ctx context.Context, building models.Building) (dto.BuildingSummary, error) {
	floorCount, err := s.floors.CountByBuilding(ctx, building.ID)
	if err != nil {
		return dto.BuildingSummary{}, fmt.Errorf("count floors: %w", err)
	}

	classroomCount, err := s.classrooms.CountByBuilding(ctx, building.ID)
	if err != nil {
		return dto.BuildingSummary{}, fmt.Errorf("count classrooms: %w", err)
	}

	first, found, err := s.classrooms.FirstByBuilding(ctx, building.ID)
	if err != nil {
		return dto.BuildingSummary{}, fmt.Errorf("first classroom: %w", err)
	}

	summary := dto.BuildingSummary{
		Name:           building.Name,
		FloorCount:     floorCount,
		ClassroomCount: classroomCount,
		HasClassrooms:  found,
	}
	if found {
		summary.FirstClassroomCode = first.Code
	}

	return summary, nil
}

func (s *lookupService) IsBuildingName(ctx context.Context, text string) (bool, error) {
	exists, err := s.buildings.ExistsByName(ctx, text)
	if err != nil {
		return false, fmt.Errorf("check building name: %w", err)
	}
	return exists, nil
}

func (s *lookupService) ListBuildings(ctx context.Context) ([]models.Building, error) {
	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return buildings, nil
}
