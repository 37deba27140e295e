// Package events publishes board changes to NATS.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rpggio/projectboard/internal/domain/project"
)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "projects"

// Event is the message body published for each change.
type Event struct {
	Tick        int64              `json:"tick"`
	Kind        project.ChangeKind `json:"kind"`
	Project     project.Project    `json:"project"`
	From        project.Status     `json:"from,omitempty"`
	PublishedAt time.Time          `json:"published_at"`
}

// Publisher forwards state changes to NATS subjects of the form
//
//	{prefix}.{kind}
type Publisher struct {
	nc     *nats.Conn
	prefix string
	logger *slog.Logger
}

// NewPublisher creates a publisher on nc.
func NewPublisher(nc *nats.Conn, prefix string, logger *slog.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{nc: nc, prefix: prefix, logger: logger}
}

// Subject returns the subject used for kind.
func (p *Publisher) Subject(kind project.ChangeKind) string {
	return fmt.Sprintf("%s.%s", p.prefix, kind)
}

// Attach subscribes the publisher to state.
func (p *Publisher) Attach(state *project.State) *project.Subscription {
	return state.Subscribe(p.Record)
}

// Record publishes the change carried by snap. Publish errors are logged.
func (p *Publisher) Record(snap project.Snapshot) {
	if err := p.Publish(snap); err != nil {
		p.logger.Error("publish change failed", "kind", snap.Change.Kind, "id", snap.Change.Project.ID, "error", err)
	}
}

// Publish sends snap's change to NATS.
func (p *Publisher) Publish(snap project.Snapshot) error {
	if snap.Change.Kind == "" {
		return nil
	}
	data, err := json.Marshal(Event{
		Tick:        snap.Tick,
		Kind:        snap.Change.Kind,
		Project:     snap.Change.Project,
		From:        snap.Change.From,
		PublishedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.nc.Publish(p.Subject(snap.Change.Kind), data); err != nil {
		return fmt.Errorf("publish %s event: %w", snap.Change.Kind, err)
	}
	return nil
}

// Connect dials url with reconnect settings suitable for a long-running server.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("projectboard"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil && logger != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}
