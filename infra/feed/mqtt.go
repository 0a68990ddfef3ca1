package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/maelgrv/spotflex/core/ingest"
)

// MQTTConfig describes a source streaming raw rows over an MQTT topic, one
// JSON row or row array per message.
type MQTTConfig struct {
	Source   string `json:"source"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
	// RowLimit stops collection once this many rows arrived; 0 means collect
	// until the window closes.
	RowLimit int `json:"row_limit"`
	// CollectSeconds bounds how long Fetch listens for rows.
	CollectSeconds int `json:"collect_seconds"`
}

// mqttClient is the subset of the paho client used by the source; tests
// substitute a fake.
type mqttClient interface {
	Subscribe(topic string, qos byte, cb mqtt.MessageHandler) error
	Disconnect(quiesce uint)
}

// MQTTSource collects rows published on a broker topic.
type MQTTSource struct {
	cfg     MQTTConfig
	connect func(MQTTConfig) (mqttClient, error)
}

// NewMQTTSource creates the source. The broker connection is established on
// Fetch, not here.
func NewMQTTSource(cfg MQTTConfig) *MQTTSource {
	if cfg.CollectSeconds <= 0 {
		cfg.CollectSeconds = 10
	}
	return &MQTTSource{cfg: cfg, connect: connectPaho}
}

func connectPaho(cfg MQTTConfig) (mqttClient, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return pahoAdapter{client}, nil
}

type pahoAdapter struct {
	client mqtt.Client
}

func (a pahoAdapter) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) error {
	token := a.client.Subscribe(topic, qos, cb)
	token.Wait()
	return token.Error()
}

func (a pahoAdapter) Disconnect(quiesce uint) {
	if a.client.IsConnected() {
		a.client.Disconnect(quiesce)
	}
}

// Fetch subscribes to the topic and collects rows until the row limit is
// reached, the collection window elapses, or ctx is canceled. Whatever
// arrived by then is the payload.
func (s *MQTTSource) Fetch(ctx context.Context) (ingest.Payload, error) {
	client, err := s.connect(s.cfg)
	if err != nil {
		return ingest.Payload{}, fmt.Errorf("connect %s: %w", s.cfg.Broker, err)
	}
	defer client.Disconnect(250)

	// The collect context releases handlers blocked on a full buffer once
	// Fetch stops draining; a burst larger than the buffer backpressures
	// instead of silently dropping rows.
	collectCtx, stopCollect := context.WithCancel(ctx)
	defer stopCollect()

	rowsCh := make(chan ingest.RawRow, 256)
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		for _, row := range decodeRows(msg.Payload()) {
			select {
			case rowsCh <- row:
			case <-collectCtx.Done():
				return
			}
		}
	}
	if err := client.Subscribe(s.cfg.Topic, s.cfg.QoS, handler); err != nil {
		return ingest.Payload{}, fmt.Errorf("subscribe %s: %w", s.cfg.Topic, err)
	}

	deadline := time.NewTimer(time.Duration(s.cfg.CollectSeconds) * time.Second)
	defer deadline.Stop()

	payload := ingest.Payload{Source: s.cfg.Source}
	for {
		select {
		case <-ctx.Done():
			return payload, ctx.Err()
		case <-deadline.C:
			return payload, nil
		case row := <-rowsCh:
			payload.Rows = append(payload.Rows, row)
			if s.cfg.RowLimit > 0 && len(payload.Rows) >= s.cfg.RowLimit {
				return payload, nil
			}
		}
	}
}

// decodeRows accepts either a single JSON row object or an array of rows.
// Scalar values of any type are carried over as text, like the HTTP source.
func decodeRows(data []byte) []ingest.RawRow {
	toRow := func(m map[string]any) ingest.RawRow {
		return ingest.RawRow{
			Timestamp: scalarText(m["timestamp"]),
			Price:     scalarText(m["price"]),
			Carbon:    scalarText(m["carbon_intensity"]),
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var batch []map[string]any
	if err := dec.Decode(&batch); err == nil {
		rows := make([]ingest.RawRow, 0, len(batch))
		for _, m := range batch {
			rows = append(rows, toRow(m))
		}
		return rows
	}
	dec = json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var one map[string]any
	if err := dec.Decode(&one); err == nil {
		return []ingest.RawRow{toRow(one)}
	}
	return nil
}
