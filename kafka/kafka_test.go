package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	inventory "github.com/tair/pharmacy-backend/internal/inventory/domain"
)

func TestPublishSaleCommitted(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	customer := uint(4)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event SaleCommittedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeSaleCommitted || event.EventID == "" {
			return errors.New("event envelope not filled")
		}
		if event.SaleID != 12 || event.CustomerID == nil || *event.CustomerID != 4 {
			return errors.New("sale fields not carried")
		}
		if len(event.Items) != 1 || event.Items[0].ItemID != 7 || event.Items[0].Qty != 3 {
			return errors.New("items not carried")
		}
		return nil
	})

	pub := NewPublisherWithProducer(producer)
	event := NewSaleCommittedEvent(inventory.SaleCommitted{
		SaleID:     12,
		CustomerID: &customer,
		Items:      []inventory.SoldItem{{ItemID: 7, Qty: 3}},
	})
	if err := pub.PublishSaleCommitted(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestPublishSaleCommittedFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewPublisherWithProducer(producer)
	err := pub.PublishSaleCommitted(context.Background(), SaleCommittedEvent{SaleID: 1})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Errorf("err = %v, want ErrOutOfBrokers", err)
	}
	_ = pub.Close()
}

func TestCloseDrainsBackgroundPublishes(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	for i := 0; i < 3; i++ {
		producer.ExpectSendMessageAndSucceed()
	}

	pub := NewPublisherWithProducer(producer)
	for i := uint(1); i <= 3; i++ {
		pub.AfterSaleCommitted(context.Background(), inventory.SaleCommitted{
			SaleID: i,
			Items:  []inventory.SoldItem{{ItemID: 1, Qty: 1}},
		})
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// the mock reports any send after its expectations are used up
	pub.AfterSaleCommitted(context.Background(), inventory.SaleCommitted{SaleID: 4})
}

func message(eventType string, value []byte) *sarama.ConsumerMessage {
	msg := &sarama.ConsumerMessage{Topic: TopicSaleCommitted, Value: value}
	if eventType != "" {
		msg.Headers = []*sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("event_id"), Value: []byte("evt-1")},
		}
	}
	return msg
}

func TestHandleMessage(t *testing.T) {
	c := newConsumer("notifier", []string{TopicSaleCommitted})
	var got []inventory.SaleCommitted
	c.RegisterHandler(EventTypeSaleCommitted, func(_ context.Context, e SaleCommittedEvent) error {
		got = append(got, e.Domain())
		return nil
	})

	body, _ := json.Marshal(SaleCommittedEvent{
		EventID:   "evt-1",
		EventType: EventTypeSaleCommitted,
		SaleID:    9,
		Items:     []SoldItem{{ItemID: 2, Qty: 1}},
	})
	if err := c.handleMessage(context.Background(), message(EventTypeSaleCommitted, body)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(got) != 1 || got[0].SaleID != 9 || got[0].CustomerID != nil || got[0].Items[0].ItemID != 2 {
		t.Errorf("dispatched = %+v", got)
	}

	if err := c.handleMessage(context.Background(), message("", body)); err == nil {
		t.Error("message without event_type should fail")
	}
	if err := c.handleMessage(context.Background(), message("sale.voided", body)); err == nil {
		t.Error("unregistered event type should fail")
	}
	if err := c.handleMessage(context.Background(), message(EventTypeSaleCommitted, []byte("{"))); err == nil {
		t.Error("malformed body should fail")
	}
	if len(got) != 1 {
		t.Errorf("handler called %d times, want 1", len(got))
	}
}
