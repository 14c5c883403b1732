// Package recorder persists finalized orders. Orders are written together
// with an outbox event in one transaction; the publisher drains the outbox
// into Kafka for the operator CRM.
package recorder

import (
	"context"
	"errors"
	"time"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already recorded")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type RepoInterface interface {
	Create(ctx context.Context, record *d.OrderRecord) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*d.OrderRecord, error)
	ListOrdersByStoreID(ctx context.Context, storeID string) ([]*d.OrderRecord, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
	Close() error
}
