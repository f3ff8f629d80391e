// Package events announces listing lifecycle changes on the message bus.
// Downstream collaborators (payment confirmation, publication) consume
// these; the sync engine itself never reads them back.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/sol-flex/aijobcareer/internal/models"
	"github.com/sol-flex/aijobcareer/internal/syncerrors"
	"github.com/sol-flex/aijobcareer/internal/telemetry"
)

var tracer = telemetry.GetTracer("aijobcareer/sync/events")

const (
	ListingAddedSubject   = "listings.added"
	ListingRemovedSubject = "listings.removed"
)

type ListingEvent struct {
	ID             string          `json:"id"`
	Company        string          `json:"company"`
	Title          string          `json:"title"`
	ApplicationURL string          `json:"application_url"`
	Platform       models.Platform `json:"platform"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

type Publisher interface {
	ListingAdded(ctx context.Context, listing *models.CanonicalListing) error
	ListingRemoved(ctx context.Context, listing *models.CanonicalListing) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSPublisher(url string, connTimeout time.Duration, logger *zap.Logger) (Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(connTimeout),
		nats.Name("sync-service"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, syncerrors.Transient("connecting to NATS", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) ListingAdded(ctx context.Context, listing *models.CanonicalListing) error {
	return p.publish(ctx, ListingAddedSubject, listing)
}

func (p *natsPublisher) ListingRemoved(ctx context.Context, listing *models.CanonicalListing) error {
	return p.publish(ctx, ListingRemovedSubject, listing)
}

func (p *natsPublisher) publish(ctx context.Context, subject string, listing *models.CanonicalListing) error {
	_, span := tracer.Start(ctx, "publishListingEvent")
	defer span.End()

	event := ListingEvent{
		ID:             listing.ID,
		Company:        listing.Company,
		Title:          listing.Title,
		ApplicationURL: listing.ApplicationURL,
		Platform:       listing.Platform,
		OccurredAt:     time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return syncerrors.Persistence("marshaling listing event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish listing event",
			zap.String("subject", subject),
			zap.String("id", event.ID),
			zap.Error(err))
		return syncerrors.Persistence("publishing listing event", err)
	}

	p.logger.Debug("published listing event",
		zap.String("subject", subject),
		zap.String("id", event.ID))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// NopPublisher stands in when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) ListingAdded(context.Context, *models.CanonicalListing) error   { return nil }
func (NopPublisher) ListingRemoved(context.Context, *models.CanonicalListing) error { return nil }
func (NopPublisher) Close()                                                         {}
