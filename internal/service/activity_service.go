package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/roomfinder-bot/internal/dto"
	"github.com/noah-isme/roomfinder-bot/internal/models"
	"github.com/noah-isme/roomfinder-bot/internal/repository"
)

// ActivityService tracks room searches per user.
type ActivityService interface {
	RecordSearch(ctx context.Context, userID int64, classroomCode string) (models.UserActivity, error)
	DistinctUserCount(ctx context.Context) (int64, error)
	LatestActivity(ctx context.Context, userID int64) (dto.ActivitySummary, bool, error)
}

type activityService struct {
	repo   repository.UserActivityRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewActivityService constructs the activity tracker.
func NewActivityService(repo repository.UserActivityRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RecordSearch appends one row per search. No deduplication takes place.
func (s *activityService) RecordSearch(ctx context.Context, userID int64, classroomCode string) (models.UserActivity, error) {
	if strings.TrimSpace(classroomCode) == "" {
		return models.UserActivity{}, fmt.Errorf("classroom code is required")
	}

	entry := models.UserActivity{
		UserID:                userID,
		MessagesSent:          1,
		LastClassroomSearched: classroomCode,
		Time:                  s.now(),
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to persist user activity")
		return models.UserActivity{}, err
	}

	return entry, nil
}

func (s *activityService) DistinctUserCount(ctx context.Context) (int64, error) {
	total, err := s.repo.CountDistinctUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("count distinct users: %w", err)
	}
	return total, nil
}

func (s *activityService) LatestActivity(ctx context.Context, userID int64) (dto.ActivitySummary, bool, error) {
	latest, found, err := s.repo.LatestByUser(ctx, userID)
	if err != nil {
		return dto.ActivitySummary{}, false, fmt.Errorf("latest activity: %w", err)
	}
	if !found {
		return dto.ActivitySummary{}, false, nil
	}

	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return dto.ActivitySummary{}, false, fmt.Errorf("count user activity: %w", err)
	}

	return dto.ActivitySummary{
		UserID:                latest.UserID,
		MessagesSent:          latest.MessagesSent,
		LastClassroomSearched: latest.LastClassroomSearched,
		Time:                  latest.Time,
		TotalSearches:         total,
	}, true, nil
}
