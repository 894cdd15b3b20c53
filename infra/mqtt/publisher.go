package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/aguepe1/Fleet-Simulator/core/model"
	"github.com/aguepe1/Fleet-Simulator/core/search"
	"github.com/aguepe1/Fleet-Simulator/infra/logger"
	"github.com/aguepe1/Fleet-Simulator/internal/eventbus"
)

const (
	statusOnline  = "online"
	statusOffline = "offline"
)

// ProgressPublisher publishes search progress and results as JSON.
type ProgressPublisher struct {
	cli     pahoClient
	cfg     Config
	backoff time.Duration
	log     logger.Logger
}

// NewProgressPublisher connects to the broker and announces itself online.
func NewProgressPublisher(cfg Config) (*ProgressPublisher, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	p := &ProgressPublisher{
		cfg:     cfg,
		backoff: time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:     log,
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		c.Publish(cfg.StatusTopic(), cfg.QoS, true, statusOnline)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	p.cli = c
	return p, nil
}

// PublishProgress publishes one snapshot on the progress topic.
func (p *ProgressPublisher) PublishProgress(pr search.Progress) error {
	return p.publish(p.cfg.ProgressTopic(), pr)
}

// PublishResult publishes the final result on the result topic.
func (p *ProgressPublisher) PublishResult(runID string, res model.SearchResult) error {
	return p.publish(p.cfg.ResultTopic(), struct {
		RunID string `json:"run_id,omitempty"`
		model.SearchResult
	}{runID, res})
}

// Run forwards snapshots from bus until ctx is done or the bus is closed.
// Failed publishes are logged and do not stop the loop.
func (p *ProgressPublisher) Run(ctx context.Context, bus *eventbus.Latest[search.Progress]) {
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case pr, ok := <-sub:
			if !ok {
				return
			}
			if err := p.PublishProgress(pr); err != nil {
				p.log.Errorf("publish progress: %v", err)
			}
		}
	}
}

func (p *ProgressPublisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		token := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Debugf("published %d bytes to %s", len(payload), topic)
			return nil
		}
		p.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.cfg.MaxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return publishErr
}

// Close marks the publisher offline and disconnects.
func (p *ProgressPublisher) Close() {
	if p.cli == nil || !p.cli.IsConnected() {
		return
	}
	p.cli.Publish(p.cfg.StatusTopic(), p.cfg.QoS, true, statusOffline).Wait()
	p.cli.Disconnect(250)
}
