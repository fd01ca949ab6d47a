package service

import (
	"context"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/roomfinder-bot/internal/dto"
	"github.com/noah-isme/roomfinder-bot/internal/observability"
)

// Dispatch actions, used as metric labels.
const (
	ActionStart           = "start"
	ActionSearchPrompt    = "search_prompt"
	ActionStatisticsMenu  = "statistics_menu"
	ActionBuildingsMenu   = "buildings_menu"
	ActionBack            = "back"
	ActionSubscriberCount = "subscriber_count"
	ActionOwnActivity     = "own_activity"
	ActionBuildingSummary = "building_summary"
	ActionRoomSearch      = "room_search"
	ActionInvalidFormat   = "invalid_format"
	ActionNonText         = "non_text"
)

// DispatcherService turns one inbound message into replies. It keeps no
// per-chat state: the menu position lives only in the keyboard sent back.
type DispatcherService interface {
	Dispatch(ctx context.Context, msg dto.IncomingMessage) ([]dto.OutgoingMessage, error)
}

type dispatcherService struct {
	lookup    LookupService
	activity  ActivityService
	events    SearchEventPublisher
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewDispatcherService constructs the message dispatcher. events may be nil.
func NewDispatcherService(lookup LookupService, activity ActivityService, events SearchEventPublisher, validate *validator.Validate, logger zerolog.Logger) DispatcherService {
	return &dispatcherService{
		lookup:    lookup,
		activity:  activity,
		events:    events,
		validator: validate,
		logger:    logger.With().Str("component", "dispatcher_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/roomfinder-bot/internal/service/dispatcher"),
	}
}

func (s *dispatcherService) Dispatch(ctx context.Context, msg dto.IncomingMessage) ([]dto.OutgoingMessage, error) {
	if err := s.validator.Struct(msg); err != nil {
		return nil, fmt.Errorf("invalid incoming message: %w", err)
	}

	spanCtx, span := s.tracer.Start(ctx, "bot.dispatch", trace.WithAttributes(
		attribute.Int64("bot.chat_id", msg.ChatID),
		attribute.Int64("bot.user_id", msg.Sender.ID),
		attribute.String("bot.message_type", string(msg.Type)),
	))
	defer span.End()

	start := time.Now()
	action, replies, err := s.route(spanCtx, msg)
	observability.MessageLatency().WithLabelValues(action).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("bot.action", action))
	observability.MessagesHandled().WithLabelValues(action).Inc()
	return replies, nil
}

func (s *dispatcherService) route(ctx context.Context, msg dto.IncomingMessage) (string, []dto.OutgoingMessage, error) {
	if msg.Type != dto.MessageTypeText {
		return ActionNonText, reply(msg.ChatID, textTextOnly, nil), nil
	}

	text := msg.Text
	switch text {
	case CommandStart:
		return ActionStart, s.rootMenu(msg.ChatID), nil
	case LabelSearchRoom:
		return ActionSearchPrompt, reply(msg.ChatID, textSearchPrompt, nil), nil
	case LabelStatistics:
		return ActionStatisticsMenu, reply(msg.ChatID, textStatistics, statisticsKeyboard()), nil
	case LabelBuildingInfo:
		replies, err := s.buildingsMenu(ctx, msg.ChatID)
		return ActionBuildingsMenu, replies, err
	case LabelBack, LabelSubscriberCount, LabelOwnActivity:
		return s.statistics(ctx, msg)
	}

	isBuilding, err := s.lookup.IsBuildingName(ctx, text)
	if err != nil {
		return ActionBuildingSummary, nil, err
	}
	if isBuilding {
		replies, err := s.buildingSummary(ctx, msg.ChatID, text)
		return ActionBuildingSummary, replies, err
	}

	if LooksLikeRoomCode(text) {
		replies, err := s.roomSearch(ctx, msg)
		return ActionRoomSearch, replies, err
	}

	return ActionInvalidFormat, reply(msg.ChatID, textInvalidRoomFormat, nil), nil
}

// LooksLikeRoomCode reports whether text is longer than one character and
// starts with a digit.
func LooksLikeRoomCode(text string) bool {
	if utf8.RuneCountInString(text) <= 1 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(text)
	return unicode.IsDigit(first)
}

func (s *dispatcherService) rootMenu(chatID int64) []dto.OutgoingMessage {
	return reply(chatID, textWelcome, rootMenuKeyboard())
}

func (s *dispatcherService) statistics(ctx context.Context, msg dto.IncomingMessage) (string, []dto.OutgoingMessage, error) {
	switch msg.Text {
	case LabelBack:
		return ActionBack, s.rootMenu(msg.ChatID), nil
	case LabelSubscriberCount:
		count, err := s.activity.DistinctUserCount(ctx)
		if err != nil {
			return ActionSubscriberCount, nil, err
		}
		return ActionSubscriberCount, reply(msg.ChatID, subscriberCountText(count), nil), nil
	case LabelOwnActivity:
		summary, found, err := s.activity.LatestActivity(ctx, msg.Sender.ID)
		if err != nil {
			return ActionOwnActivity, nil, err
		}
		if !found {
			return ActionOwnActivity, reply(msg.ChatID, textNoActivity, nil), nil
		}
		return ActionOwnActivity, reply(msg.ChatID, activityText(summary), nil), nil
	default:
		return ActionInvalidFormat, reply(msg.ChatID, textUnknownCommand, nil), nil
	}
}

func (s *dispatcherService) buildingsMenu(ctx context.Context, chatID int64) ([]dto.OutgoingMessage, error) {
	buildings, err := s.lookup.ListBuildings(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(buildings))
	for _, building := range buildings {
		names = append(names, building.Name)
	}

	return reply(chatID, textChooseBuilding, buildingsKeyboard(names)), nil
}

func (s *dispatcherService) buildingSummary(ctx context.Context, chatID int64, name string) ([]dto.OutgoingMessage, error) {
	building, found, err := s.lookup.FindBuilding(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return reply(chatID, textBuildingNotFound, nil), nil
	}

	summary, err := s.lookup.BuildingSummary(ctx, building)
	if err != nil {
		return nil, err
	}

	return reply(chatID, buildingSummaryText(summary), nil), nil
}

func (s *dispatcherService) roomSearch(ctx context.Context, msg dto.IncomingMessage) ([]dto.OutgoingMessage, error) {
	code := msg.Text
	location, found, err := s.lookup.FindClassroom(ctx, code)
	if err != nil {
		return nil, err
	}
	if !found {
		observability.RoomSearches().WithLabelValues("not_found").Inc()
		return reply(msg.ChatID, roomNotFoundText(code), nil), nil
	}
	observability.RoomSearches().WithLabelValues("found").Inc()

	// Activity write failures are logged; the user still gets the location.
	entry, err := s.activity.RecordSearch(ctx, msg.Sender.ID, code)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", msg.Sender.ID).Str("classroom", code).Msg("failed to record room search")
	} else if s.events != nil {
		event := SearchEvent{
			UserID:        msg.Sender.ID,
			ClassroomCode: location.Code,
			BuildingName:  location.BuildingName,
			FloorNumber:   location.FloorNumber,
			SearchedAt:    entry.Time,
		}
		if err := s.events.PublishSearch(ctx, event); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish search event")
		}
	}

	return reply(msg.ChatID, roomFoundText(location), nil), nil
}

func reply(chatID int64, text string, keyboard *dto.ReplyKeyboard) []dto.OutgoingMessage {
	return []dto.OutgoingMessage{{ChatID: chatID, Text: text, Keyboard: keyboard}}
}
