package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeMessage struct {
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return "prices" }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type fakeClient struct {
	messages [][]byte
}

func (c *fakeClient) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) error {
	go func() {
		for _, p := range c.messages {
			cb(nil, fakeMessage{payload: p})
		}
	}()
	return nil
}

func (c *fakeClient) Disconnect(uint) {}

func TestMQTTSourceCollectsUntilLimit(t *testing.T) {
	src := NewMQTTSource(MQTTConfig{Source: "broker", Topic: "prices", RowLimit: 3, CollectSeconds: 5})
	src.connect = func(MQTTConfig) (mqttClient, error) {
		return &fakeClient{messages: [][]byte{
			[]byte(`{"timestamp":"2024-03-01T00:00:00Z","price":5}`),
			[]byte(`[{"timestamp":"2024-03-01T01:00:00Z","price":"7"},{"timestamp":"2024-03-01T02:00:00Z","price":9.5}]`),
			[]byte(`not json`),
		}}, nil
	}
	payload, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if payload.Source != "broker" {
		t.Fatalf("payload source lost: %+v", payload)
	}
	if len(payload.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(payload.Rows))
	}
	if payload.Rows[2].Price != "9.5" {
		t.Fatalf("row 2 mangled: %+v", payload.Rows[2])
	}
}

func TestMQTTSourceWindowCloses(t *testing.T) {
	src := NewMQTTSource(MQTTConfig{Source: "broker", Topic: "prices", CollectSeconds: 1})
	src.connect = func(MQTTConfig) (mqttClient, error) {
		return &fakeClient{messages: [][]byte{[]byte(`{"timestamp":"2024-03-01T00:00:00Z","price":5}`)}}, nil
	}
	start := time.Now()
	payload, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if time.Since(start) < time.Second {
		t.Fatalf("window closed too early")
	}
	if len(payload.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(payload.Rows))
	}
}

func TestMQTTSourceBurstLargerThanBuffer(t *testing.T) {
	// 400 single-row messages exceed the 256-slot channel; the handler must
	// backpressure, not drop.
	const rows = 400
	messages := make([][]byte, rows)
	for i := range messages {
		messages[i] = []byte(fmt.Sprintf(`{"timestamp":"2024-03-01T00:00:00Z","price":%d}`, i))
	}
	src := NewMQTTSource(MQTTConfig{Source: "broker", Topic: "prices", RowLimit: rows, CollectSeconds: 10})
	src.connect = func(MQTTConfig) (mqttClient, error) {
		return &fakeClient{messages: messages}, nil
	}
	payload, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(payload.Rows) != rows {
		t.Fatalf("burst lost rows: got %d of %d", len(payload.Rows), rows)
	}
}

func TestMQTTSourceCanceled(t *testing.T) {
	src := NewMQTTSource(MQTTConfig{Source: "broker", Topic: "prices", CollectSeconds: 30})
	src.connect = func(MQTTConfig) (mqttClient, error) {
		return &fakeClient{}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := src.Fetch(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
