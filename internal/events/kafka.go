package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// KafkaPublisher writes each event as JSON to the topic derived from its name.
type KafkaPublisher struct {
	producer    sarama.SyncProducer
	topicPrefix string
	logger      *zap.Logger
}

// NewKafkaPublisher connects a synchronous producer to brokers.
func NewKafkaPublisher(brokers []string, clientID, topicPrefix string, logger *zap.Logger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.ClientID = clientID

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topicPrefix, logger), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topicPrefix string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{
		producer:    producer,
		topicPrefix: topicPrefix,
		logger:      logger,
	}
}

// Topic maps an event name to its topic: "penalty.applied" becomes
// "<prefix>.penalty-applied".
func (p *KafkaPublisher) Topic(name string) string {
	topic := strings.ReplaceAll(name, ".", "-")
	if p.topicPrefix == "" {
		return topic
	}
	return p.topicPrefix + "." + topic
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", evt.Name, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.Topic(evt.Name),
		Key:   sarama.StringEncoder(evt.Key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error("failed to send event",
			zap.String("event", evt.Name),
			zap.String("key", evt.Key),
			zap.Error(err))
		return err
	}

	p.logger.Debug("event sent",
		zap.String("event", evt.Name),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
