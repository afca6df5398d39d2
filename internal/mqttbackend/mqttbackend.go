// Package mqttbackend is a reference CEL backend: it JSON-encodes every
// emitted record.Record and publishes it to an MQTT broker under
// <prefix>/<channel-name>, mirroring the connection handling the teacher
// daemon used for its own outbound publisher.
package mqttbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/halvard/celd/internal/record"
)

// Sink is the minimal publish surface Backend depends on, so tests can
// substitute a mock rather than dialing a real broker.
type Sink interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

// Options configures a Backend backed by a real MQTT broker.
type Options struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	QoS         byte
}

// Backend JSON-encodes records and hands them to a Sink, implementing
// registry.Callback via its Publish method.
type Backend struct {
	sink   Sink
	prefix string
}

// New connects to opts.Broker and returns a ready-to-register Backend.
func New(opts Options) (*Backend, error) {
	sink, err := newMQTTSink(opts)
	if err != nil {
		return nil, err
	}
	return &Backend{sink: sink, prefix: opts.TopicPrefix}, nil
}

// NewWithSink builds a Backend around an already-constructed Sink —
// used in tests, and available to callers that want to wire their own
// MQTT client configuration.
func NewWithSink(sink Sink, topicPrefix string) *Backend {
	return &Backend{sink: sink, prefix: topicPrefix}
}

// Publish is a registry.Callback: it JSON-encodes rec.Fields() and
// publishes it under <prefix>/<channel-name>. Marshal or publish
// failures are logged, never returned — a backend callback has no error
// path back into the engine (spec.md §7, "Backend fault").
func (b *Backend) Publish(rec record.Record) {
	payload, err := json.Marshal(rec.Fields())
	if err != nil {
		log.Printf("mqttbackend: failed to encode record: %v", err)
		return
	}

	topic := b.topicFor(rec)
	if err := b.sink.Publish(context.Background(), topic, payload); err != nil {
		log.Printf("mqttbackend: failed to publish to %s: %v", topic, err)
	}
}

func (b *Backend) topicFor(rec record.Record) string {
	name := sanitizeTopicSegment(rec.ChannelName)
	if name == "" {
		name = "unknown"
	}
	return b.prefix + "/" + name
}

// sanitizeTopicSegment strips MQTT topic-level separators and wildcards
// out of a channel name before it is used as a topic segment.
func sanitizeTopicSegment(s string) string {
	replacer := strings.NewReplacer("/", "_", "+", "_", "#", "_")
	return replacer.Replace(s)
}

// Close releases the underlying sink.
func (b *Backend) Close() error {
	return b.sink.Close()
}

// mqttSink is the real Sink implementation, wrapping a connected Paho
// client.
type mqttSink struct {
	client mqtt.Client
	qos    byte
}

func newMQTTSink(opts Options) (*mqttSink, error) {
	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(60 * time.Second)

	client := mqtt.NewClient(clientOpts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", opts.Broker, err)
	}

	return &mqttSink{client: client, qos: opts.QoS}, nil
}

func (s *mqttSink) Publish(_ context.Context, topic string, payload []byte) error {
	token := s.client.Publish(topic, s.qos, false, payload)
	token.Wait()
	return token.Error()
}

func (s *mqttSink) Close() error {
	s.client.Disconnect(1000)
	return nil
}
