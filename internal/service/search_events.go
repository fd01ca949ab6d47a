package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SearchEvent is broadcast after every successful room search.
type SearchEvent struct {
	Source        string    `json:"source"`
	UserID        int64     `json:"user_id"`
	ClassroomCode string    `json:"classroom_code"`
	BuildingName  string    `json:"building_name"`
	FloorNumber   int       `json:"floor_number"`
	SearchedAt    time.Time `json:"searched_at"`
}

// SearchEventPublisher fans search events out to other consumers.
type SearchEventPublisher interface {
	PublishSearch(ctx context.Context, event SearchEvent) error
}

type natsSearchPublisher struct {
	conn    *nats.Conn
	subject string
	nodeID  string
	logger  zerolog.Logger
}

// NewNATSSearchPublisher publishes events on subject. A nil connection or an
// empty subject yields a publisher that drops events.
func NewNATSSearchPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) SearchEventPublisher {
	return &natsSearchPublisher{
		conn:    conn,
		subject: subject,
		nodeID:  uuid.NewString(),
		logger:  logger.With().Str("component", "search_publisher").Logger(),
	}
}

func (p *natsSearchPublisher) PublishSearch(_ context.Context, event SearchEvent) error {
	if p.conn == nil || p.subject == "" {
		return nil
	}

	if event.Source == "" {
		event.Source = p.nodeID
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return err
	}

	p.logger.Debug().Str("subject", p.subject).Str("classroom", event.ClassroomCode).Msg("search event published")
	return nil
}
