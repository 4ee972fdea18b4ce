package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndSucceed()

	event := NewSaleEvent(
		EventTypeSaleCreated,
		"sale-123",
		"customer-1",
		"pending",
		map[string]interface{}{
			"total": "77.70",
		},
	)

	if err := producer.PublishEvent(TopicSaleEvents, "sale-123", event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewSaleEvent(EventTypeSaleCancelled, "sale-123", "customer-1", "cancelled", nil)

	if err := producer.PublishEvent(TopicSaleEvents, "sale-123", event); err == nil {
		t.Fatal("expected publish error")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewSaleEvent(t *testing.T) {
	event := NewSaleEvent(EventTypeSaleStatusChanged, "sale-1", "customer-1", "shipped", nil)

	if event.EventType != EventTypeSaleStatusChanged {
		t.Errorf("unexpected event type: %s", event.EventType)
	}
	if event.SaleID != "sale-1" {
		t.Errorf("unexpected sale id: %s", event.SaleID)
	}
	if event.Status != "shipped" {
		t.Errorf("unexpected status: %s", event.Status)
	}
	if event.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}
