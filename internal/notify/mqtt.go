package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/bhargavsai259/collegeproject/internal/logger"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 10 * time.Second

// Publisher is the part of an MQTT client the sink needs
type Publisher interface {
	Publish(ctx context.Context, topic string, qos byte, payload []byte) error
	Close()
}

// pahoPublisher publishes through a connected paho client
type pahoPublisher struct {
	client mqtt.Client
}

// NewMQTTPublisher connects to the broker in cfg
func NewMQTTPublisher(cfg config.MQTTConfig, log *logger.Logger) (Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Info("MQTT connection established", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("MQTT connection lost", "broker", cfg.Broker, "error", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &pahoPublisher{client: client}, nil
}

func (p *pahoPublisher) Publish(ctx context.Context, topic string, qos byte, payload []byte) error {
	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	token := p.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(timeout) {
		return errors.New("publish timed out")
	}
	return token.Error()
}

func (p *pahoPublisher) Close() {
	p.client.Disconnect(250)
}

// MQTTSink publishes scene events as JSON to one topic
type MQTTSink struct {
	pub   Publisher
	topic string
	qos   byte
}

// NewMQTTSink creates a sink on a connected publisher
func NewMQTTSink(pub Publisher, topic string, qos int) *MQTTSink {
	return &MQTTSink{pub: pub, topic: topic, qos: byte(qos)}
}

func (s *MQTTSink) Name() string {
	return "mqtt"
}

func (s *MQTTSink) Send(ctx context.Context, event SceneEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.pub.Publish(ctx, s.topic, s.qos, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", s.topic, err)
	}
	return nil
}

func (s *MQTTSink) Close() error {
	s.pub.Close()
	return nil
}
