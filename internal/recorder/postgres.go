package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// Create writes the order row and its outbox event in one transaction so an
// order is never recorded without an event and vice versa.
func (r *Repository) Create(ctx context.Context, record *d.OrderRecord) error {
	linesJSON, err := json.Marshal(record.Lines)
	if err != nil {
		return fmt.Errorf("failed to marshal order lines: %w", err)
	}
	customerJSON, err := json.Marshal(record.Customer)
	if err != nil {
		return fmt.Errorf("failed to marshal customer: %w", err)
	}
	payloadJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal order payload: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `INSERT INTO orders (id, store_id, customer, lines, total, payment_method, discount_applied, created_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, insertErr := tx.ExecContext(ctx, orderQuery,
		record.ID,
		record.StoreID,
		customerJSON,
		linesJSON,
		record.Total,
		string(record.PaymentMethod),
		record.DiscountApplied,
		record.CreatedAt)
	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	outboxQuery := `INSERT INTO outbox_events (aggregate_id, event_type, payload)
	                VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, outboxQuery, record.ID.String(), "order.submitted", payloadJSON); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}
	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*d.OrderRecord, error) {
	query := `SELECT id, store_id, customer, lines, total, payment_method, discount_applied, created_at
	          FROM orders WHERE id = $1`

	record, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return record, nil
}

func (r *Repository) ListOrdersByStoreID(ctx context.Context, storeID string) ([]*d.OrderRecord, error) {
	query := `SELECT id, store_id, customer, lines, total, payment_method, discount_applied, created_at
	          FROM orders WHERE store_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("query orders by store id: %w", err)
	}
	defer rows.Close()

	var records []*d.OrderRecord
	for rows.Next() {
		record, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*d.OrderRecord, error) {
	var record d.OrderRecord
	var method string
	var customerJSON, linesJSON []byte

	err := row.Scan(
		&record.ID,
		&record.StoreID,
		&customerJSON,
		&linesJSON,
		&record.Total,
		&method,
		&record.DiscountApplied,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.PaymentMethod = d.PaymentMethod(method)
	if err := json.Unmarshal(customerJSON, &record.Customer); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	if err := json.Unmarshal(linesJSON, &record.Lines); err != nil {
		return nil, fmt.Errorf("unmarshal order lines: %w", err)
	}
	return &record, nil
}

func (r *Repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at
	          FROM outbox_events WHERE NOT processed ORDER BY id ASC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var event OutboxEvent
		if err := rows.Scan(&event.ID, &event.AggregateID, &event.EventType, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (r *Repository) MarkEventAsProcessed(ctx context.Context, id int64) error {
	query := `UPDATE outbox_events SET processed = TRUE, processed_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark event as processed: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
