// Package notify holds SMS provider implementations beyond the hostinger
// REST channel.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const smsTopic = "sms-dispatch"

// KafkaSMSProvider hands messages to the sms-dispatch topic, where a
// downstream worker performs the actual delivery. It is one leg of the
// notifier's require-any dual dispatch.
type KafkaSMSProvider struct {
	writer *kafka.Writer
}

func NewKafkaSMSProvider(brokers []string) *KafkaSMSProvider {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  smsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaSMSProvider{writer: w}
}

type smsMessage struct {
	Phone    string    `json:"phone"`
	Message  string    `json:"message"`
	QueuedAt time.Time `json:"queued_at"`
}

func (p *KafkaSMSProvider) Name() string {
	return "kafka"
}

func (p *KafkaSMSProvider) SendSMS(ctx context.Context, phone, message string) error {
	data, err := json.Marshal(smsMessage{
		Phone:    phone,
		Message:  message,
		QueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(phone),
		Value: data,
	})
}

func (p *KafkaSMSProvider) Close() error {
	return p.writer.Close()
}
