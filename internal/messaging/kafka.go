package messaging

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	"github.com/blsantos/InfiniteVideoWall/internal/config"
)

// Event types published to the broker.
const (
	EventTypeVideoSubmitted = "video.submitted"
	EventTypeVideoModerated = "video.moderated"
	EventTypeChannelSynced  = "channel.synced"
	EventTypeVideosCleaned  = "videos.cleaned"
)

// MessageEvent envelope for every published event.
type MessageEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// VideoSubmittedPayload published when a testimony is submitted.
type VideoSubmittedPayload struct {
	ID         int    `json:"id"`
	YoutubeID  string `json:"youtubeId,omitempty"`
	RacismType string `json:"racismType"`
	State      string `json:"state"`
	HasUpload  bool   `json:"hasUpload"`
}

// VideoModeratedPayload published on every moderation transition.
type VideoModeratedPayload struct {
	ID          int    `json:"id"`
	Status      string `json:"status"`
	ModeratedBy string `json:"moderatedBy"`
}

// ChannelSyncedPayload published after a reconciliation run.
type ChannelSyncedPayload struct {
	ChannelID string `json:"channelId"`
	Total     int    `json:"total"`
	Synced    int    `json:"synced"`
	Skipped   int    `json:"skipped"`
}

// VideosCleanedPayload published after an invalid-record cleanup.
type VideosCleanedPayload struct {
	DeletedCount int `json:"deletedCount"`
}

// Publisher is what services publish through. A nil *KafkaClient is a
// valid Publisher that drops events, so the service runs without a broker.
type Publisher interface {
	SendEvent(eventType string, payload interface{}) error
}

// KafkaClient sarama-backed event publisher.
type KafkaClient struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaClient connects a sync producer to the broker.
func NewKafkaClient(cfg config.KafkaConfig) (*KafkaClient, error) {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
	kafkaConfig.Producer.Retry.Max = 5
	kafkaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, kafkaConfig)
	if err != nil {
		return nil, err
	}

	return &KafkaClient{
		producer: producer,
		topic:    cfg.Topic,
	}, nil
}

// SendEvent publishes a JSON event to the configured topic. A nil client
// silently drops the event.
func (k *KafkaClient) SendEvent(eventType string, payload interface{}) error {
	if k == nil {
		return nil
	}

	event := MessageEvent{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Value: sarama.StringEncoder(jsonData),
	}

	_, _, err = k.producer.SendMessage(msg)
	return err
}

// Close closes the producer.
func (k *KafkaClient) Close() error {
	if k == nil {
		return nil
	}
	return k.producer.Close()
}
