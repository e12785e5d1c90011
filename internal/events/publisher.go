package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/draftroomhq/draftroom/internal/models"
)

// Publisher mirrors session events to an external bus for consumers outside
// this process. Publishing is best-effort: the event log and session row are
// the source of truth, not the notification stream.
type Publisher interface {
	Publish(event *models.DraftEvent) error
}

// NATSPublisher publishes events to NATS subjects of the form
// <prefix>.<session_id>.<event_type>.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

// NewNATSPublisher connects to NATS with reconnect handling.
func NewNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSPublisher{nc: nc, subject: subjectPrefix}, nil
}

func (p *NATSPublisher) Publish(event *models.DraftEvent) error {
	subject := fmt.Sprintf("%s.%s.%s", p.subject, event.SessionID, event.Type)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// NopPublisher discards events; used when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(*models.DraftEvent) error { return nil }
