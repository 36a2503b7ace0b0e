package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/segmentio/kafka-go"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
)

const (
	AssetEventsTopic = "asset-events"
	NumPartitions    = 3
)

// TopicConfig содержит настройки для создания топика
type TopicConfig struct {
	NumPartitions     int
	ReplicationFactor int
}

type AssetEventKafkaRepository struct {
	writer  *kafka.Writer
	brokers []string
	topic   string
}

// createTopicIfNotExists создает топик, если он не существует
func createTopicIfNotExists(ctx context.Context, brokers []string, topic string, config TopicConfig) error {
	dialer := &kafka.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	partitions, err := conn.ReadPartitions(topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}
	if err != nil && !errors.Is(err, kafka.UnknownTopicOrPartition) {
		return err
	}

	// топики создаются только через контроллер кластера
	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer func() { _ = controllerConn.Close() }()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     config.NumPartitions,
		ReplicationFactor: config.ReplicationFactor,
	})
}

// replicationFactor не даёт запросить больше реплик, чем брокеров в кластере
func replicationFactor(ctx context.Context, brokers []string, desired int) int {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(dialCtx, "tcp", brokers[0])
	if err != nil {
		log.Warnf("kafka: не удалось получить метаданные брокеров: %v", err)
		return min(len(brokers), desired)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return min(len(brokers), desired)
	}
	metadata, err := conn.Brokers()
	if err != nil || len(metadata) == 0 {
		return min(len(brokers), desired)
	}
	return min(len(metadata), desired)
}

func NewAssetEventKafkaRepository(ctx context.Context, brokers []string) (repo.AssetEventRepository, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are not provided")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	config := TopicConfig{
		NumPartitions:     NumPartitions,
		ReplicationFactor: replicationFactor(ctx, brokers, 3),
	}
	if err := createTopicIfNotExists(ctx, brokers, AssetEventsTopic, config); err != nil {
		return nil, fmt.Errorf("failed to create topic %s: %w", AssetEventsTopic, err)
	}

	return &AssetEventKafkaRepository{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        AssetEventsTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		brokers: brokers,
		topic:   AssetEventsTopic,
	}, nil
}

// eventKey - события одного назначения попадают в одну партицию и обрабатываются по порядку
func eventKey(event *entity.AssetEvent) []byte {
	return []byte(strconv.Itoa(event.ProjectID) + ":" + strconv.Itoa(event.CreatorID))
}

func (r *AssetEventKafkaRepository) PublishAssetEvent(ctx context.Context, event *entity.AssetEvent) error {
	b, err := msgpack.Marshal(event)
	if err != nil {
		return err
	}
	return r.writer.WriteMessages(ctx, kafka.Message{
		Key:   eventKey(event),
		Value: b,
	})
}

func (r *AssetEventKafkaRepository) SubscribeAssetEvents(ctx context.Context, groupID string) (<-chan *entity.AssetEvent, error) {
	if groupID == "" {
		return nil, errors.New("consumer group id is required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     r.brokers,
		Topic:       r.topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})

	ch := make(chan *entity.AssetEvent)
	go func() {
		defer close(ch)
		defer func() { _ = reader.Close() }()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Errorf("kafka: ошибка чтения %s: %v", r.topic, err)
				}
				return
			}
			var event entity.AssetEvent
			if err := msgpack.Unmarshal(m.Value, &event); err != nil {
				log.Warnf("kafka: пропущено нечитаемое событие offset=%d: %v", m.Offset, err)
				continue
			}
			select {
			case ch <- &event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func (r *AssetEventKafkaRepository) Close() error {
	return r.writer.Close()
}
