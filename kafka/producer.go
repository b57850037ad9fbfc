package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type ProducerAPI interface {
	Publish(topic string, key, message []byte) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("Kafka producer initialized", zap.Strings("brokers", brokers))
	return &Producer{writer: w, logger: logger}
}

func (p *Producer) Publish(topic string, key, message []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   key,
		Value: message,
	}
	return p.writer.WriteMessages(context.Background(), msg)
}

func (p *Producer) Close() error {
	p.logger.Info("Kafka producer closing")
	return p.writer.Close()
}
