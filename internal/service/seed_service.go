package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/roomfinder-bot/internal/dto"
	"github.com/noah-isme/roomfinder-bot/internal/models"
	"github.com/noah-isme/roomfinder-bot/internal/repository"
)

const (
	floorsPerBuilding  = 5
	classroomsPerFloor = 20
)

// DefaultBuildings is the campus seeded into an empty store.
var DefaultBuildings = []string{"Головний корпус", "Корпус З", "Корпус І"}

// SeedService populates the campus tables at startup.
type SeedService interface {
	Seed(ctx context.Context) (dto.SeedReport, error)
}

type seedService struct {
	buildings  repository.BuildingRepository
	floors     repository.FloorRepository
	classrooms repository.ClassroomRepository
	names      []string
	logger     zerolog.Logger
}

// NewSeedService constructs a seeding service for the given building names.
func NewSeedService(buildings repository.BuildingRepository, floors repository.FloorRepository, classrooms repository.ClassroomRepository, names []string, logger zerolog.Logger) SeedService {
	return &seedService{
		buildings:  buildings,
		floors:     floors,
		classrooms: classrooms,
		names:      names,
		logger:     logger.With().Str("component", "seed_service").Logger(),
	}
}

// Seed fills each table only when it is empty, in dependency order.
func (s *seedService) Seed(ctx context.Context) (dto.SeedReport, error) {
	var report dto.SeedReport

	inserted, err := s.seedBuildings(ctx)
	if err != nil {
		return report, fmt.Errorf("seed buildings: %w", err)
	}
	report.Buildings = inserted

	inserted, err = s.seedFloors(ctx)
	if err != nil {
		return report, fmt.Errorf("seed floors: %w", err)
	}
	report.Floors = inserted

	inserted, err = s.seedClassrooms(ctx)
	if err != nil {
		return report, fmt.Errorf("seed classrooms: %w", err)
	}
	report.Classrooms = inserted

	s.logger.Info().
		Int("buildings", report.Buildings).
		Int("floors", report.Floors).
		Int("classrooms", report.Classrooms).
		Msg("campus seeding finished")

	return report, nil
}

func (s *seedService) seedBuildings(ctx context.Context) (int, error) {
	total, err := s.buildings.Count(ctx)
	if err != nil || total > 0 {
		return 0, err
	}

	buildings := make([]models.Building, 0, len(s.names))
	for _, name := range s.names {
		buildings = append(buildings, models.Building{Name: name})
	}
	if err := s.buildings.CreateBatch(ctx, buildings); err != nil {
		return 0, err
	}
	return len(buildings), nil
}

func (s *seedService) seedFloors(ctx context.Context) (int, error) {
	total, err := s.floors.Count(ctx)
	if err != nil || total > 0 {
		return 0, err
	}

	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return 0, err
	}

	floors := make([]models.Floor, 0, len(buildings)*floorsPerBuilding)
	for _, building := range buildings {
		for number := 1; number <= floorsPerBuilding; number++ {
			floors = append(floors, models.Floor{BuildingID: building.ID, Number: number})
		}
	}
	if err := s.floors.CreateBatch(ctx, floors); err != nil {
		return 0, err
	}
	return len(floors), nil
}

func (s *seedService) seedClassrooms(ctx context.Context) (int, error) {
	total, err := s.classrooms.Count(ctx)
	if err != nil || total > 0 {
		return 0, err
	}

	floors, err := s.floors.ListWithBuilding(ctx)
	if err != nil {
		return 0, err
	}

	classrooms := make([]models.Classroom, 0, len(floors)*classroomsPerFloor)
	for _, floor := range floors {
		suffix := ClassroomSuffix(floor.Building.Name)
		for seq := 1; seq <= classroomsPerFloor; seq++ {
			classrooms = append(classrooms, models.Classroom{
				FloorID: floor.ID,
				Code:    ClassroomCode(floor.Number, seq, suffix),
			})
		}
	}
	if err := s.classrooms.CreateBatch(ctx, classrooms); err != nil {
		return 0, err
	}
	return len(classrooms), nil
}

// ClassroomSuffix derives the code suffix from the building name: "з" for
// buildings marked З, "і" for buildings marked І, none otherwise.
func ClassroomSuffix(buildingName string) string {
	switch {
	case strings.ContainsRune(buildingName, 'З'):
		return "з"
	case strings.ContainsRune(buildingName, 'І'):
		return "і"
	default:
		return ""
	}
}

// ClassroomCode formats a classroom code such as "302і".
func ClassroomCode(floorNumber, sequence int, suffix string) string {
	return fmt.Sprintf("%d%02d%s", floorNumber, sequence, suffix)
}
