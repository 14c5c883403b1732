package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"
	r "github.com/maptiva/tienda-online-mvp-sub000/internal/recorder"

	"github.com/google/uuid"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// mockRepository implements r.RepoInterface for poller tests.
type mockRepository struct {
	mu           sync.Mutex
	outboxEvents []*r.OutboxEvent
	processedIDs []int64
}

func (m *mockRepository) Create(context.Context, *d.OrderRecord) error {
	return nil
}

func (m *mockRepository) GetOrderByID(context.Context, uuid.UUID) (*d.OrderRecord, error) {
	return nil, r.ErrOrderNotFound
}

func (m *mockRepository) ListOrdersByStoreID(context.Context, string) ([]*d.OrderRecord, error) {
	return nil, nil
}

func (m *mockRepository) GetUnprocessedEvents(context.Context, int) ([]*r.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.outboxEvents) > 0 {
		ev := []*r.OutboxEvent{m.outboxEvents[0]} // return first event once
		m.outboxEvents = m.outboxEvents[1:]
		return ev, nil
	}
	return nil, nil
}

func (m *mockRepository) MarkEventAsProcessed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processedIDs = append(m.processedIDs, id)
	return nil
}

func (m *mockRepository) Close() error {
	return nil
}

func (m *mockRepository) processed() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.processedIDs...)
}

func setupKafka(t *testing.T) (string, func()) {
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers[0], cleanup
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	topicConfigs := []kafkaGo.TopicConfig{{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}}

	err = controllerConn.CreateTopics(topicConfigs...)
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestOutboxPoller_PublishesEventsToKafka(t *testing.T) {
	brokerAddr, cleanup := setupKafka(t)
	defer cleanup()

	createTopic(t, brokerAddr, "orders-outbox")

	// Give Kafka time to fully initialize the topic
	time.Sleep(5 * time.Second)

	orderID := uuid.New().String()
	mockRepo := &mockRepository{
		outboxEvents: []*r.OutboxEvent{
			{
				ID:          1,
				AggregateID: orderID,
				EventType:   "order.submitted",
				Payload:     json.RawMessage(fmt.Sprintf(`{"id":%q,"store_id":"store-1","total":18}`, orderID)),
				CreatedAt:   time.Now(),
			},
		},
	}

	writer := &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(brokerAddr),
		Topic:        "orders-outbox",
		Balancer:     &kafkaGo.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	defer writer.Close()

	poller := &OutboxPoller{
		tick:      time.Second,
		batchSize: 100,
		repo:      mockRepo,
		writer:    writer,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	go poller.Run(ctx)

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  []string{brokerAddr},
		Topic:    "orders-outbox",
		GroupID:  "test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)

	assert.Equal(t, orderID, string(msg.Key))

	var payload map[string]interface{}
	err = json.Unmarshal(msg.Value, &payload)
	require.NoError(t, err)
	assert.Equal(t, orderID, payload["id"])
	assert.Equal(t, "store-1", payload["store_id"])

	assert.Equal(t, []int64{1}, mockRepo.processed())
}
