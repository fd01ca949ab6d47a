package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/roomfinder-bot/internal/models"
)

func TestClassroomRepositoryFindByCodeLoadsLocation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassroomRepository(db)
	ctx := context.Background()

	_, floors := createBuildingWithFloors(t, db, "Корпус І", 3)
	require.NoError(t, repo.CreateBatch(ctx, []models.Classroom{
		{Code: "101і", FloorID: floors[0].ID},
		{Code: "301і", FloorID: floors[2].ID},
	}))

	classroom, ok, err := repo.FindByCode(ctx, "301і")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, classroom.Floor.Number)
	require.Equal(t, "Корпус І", classroom.Floor.Building.Name)

	_, ok, err = repo.FindByCode(ctx, "999і")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClassroomRepositoryScopesToBuilding(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClassroomRepository(db)
	ctx := context.Background()

	main, mainFloors := createBuildingWithFloors(t, db, "Головний корпус", 2)
	empty, _ := createBuildingWithFloors(t, db, "Корпус З", 2)

	require.NoError(t, repo.CreateBatch(ctx, []models.Classroom{
		{Code: "201", FloorID: mainFloors[1].ID},
		{Code: "101", FloorID: mainFloors[0].ID},
		{Code: "102", FloorID: mainFloors[0].ID},
	}))

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)

	count, err := repo.CountByBuilding(ctx, main.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	first, ok, err := repo.FirstByBuilding(ctx, main.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "201", first.Code, "first classroom follows insertion order")

	count, err = repo.CountByBuilding(ctx, empty.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	_, ok, err = repo.FirstByBuilding(ctx, empty.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
