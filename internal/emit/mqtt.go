package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"panic-buying/internal/config"
	"panic-buying/internal/simulate"
)

// publisher is the part of mqtt.Client the sink uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTSink publishes each run as a retained series message plus one
// message per index:
//
//	<prefix>/<name>/series      SeriesPayload
//	<prefix>/<name>/step/<i>    RowPayload
type MQTTSink struct {
	client      publisher
	topicPrefix string
	timeout     time.Duration
	perStep     bool
}

// NewMQTTSink connects to the broker.
func NewMQTTSink(cfg config.MQTTConfig, perStep bool) (*MQTTSink, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return newMQTTSink(client, cfg.TopicPrefix, perStep), nil
}

func newMQTTSink(client publisher, prefix string, perStep bool) *MQTTSink {
	if prefix == "" {
		prefix = "panic_buying"
	}
	return &MQTTSink{client: client, topicPrefix: prefix, timeout: 5 * time.Second, perStep: perStep}
}

func (s *MQTTSink) Emit(ctx context.Context, name string, r *simulate.Result) error {
	base := fmt.Sprintf("%s/%s", s.topicPrefix, fileName(name))

	body, err := json.Marshal(NewSeriesPayload(name, r))
	if err != nil {
		return fmt.Errorf("encoding series payload: %w", err)
	}
	if err := s.publish(base+"/series", true, body); err != nil {
		return err
	}
	if !s.perStep {
		return nil
	}
	for _, row := range r.Rows() {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := json.Marshal(NewRowPayload(row))
		if err != nil {
			return fmt.Errorf("encoding step %d: %w", row.Index, err)
		}
		if err := s.publish(fmt.Sprintf("%s/step/%d", base, row.Index), false, body); err != nil {
			return err
		}
	}
	return nil
}

func (s *MQTTSink) publish(topic string, retained bool, body []byte) error {
	token := s.client.Publish(topic, 1, retained, body)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("publishing %s: timed out after %s", topic, s.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (s *MQTTSink) Close() {
	if c, ok := s.client.(mqtt.Client); ok && c.IsConnected() {
		c.Disconnect(250)
	}
}
