package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/equipsense/equipsense/internal/config"
	"github.com/equipsense/equipsense/internal/predict"
	"github.com/equipsense/equipsense/internal/store"
	"github.com/equipsense/equipsense/internal/telemetry"
)

const (
	connectTimeout = 10 * time.Second
	disconnectMs   = 250
	qosAtLeastOnce = 1
)

// Assessor produces assessments from telemetry records.
type Assessor interface {
	Assess(rec *telemetry.Record) (*predict.Assessment, error)
}

// Ingestor consumes telemetry over MQTT and publishes assessment envelopes.
type Ingestor struct {
	cfg      config.MQTTConfig
	assessor Assessor
	store    *store.Store
	client   mqtt.Client
}

// New connects to the broker and subscribes to the request topic. The
// paho client auto-reconnects and re-subscribes on connection loss.
func New(cfg config.MQTTConfig, assessor Assessor, st *store.Store) (*Ingestor, error) {
	ing := &Ingestor{cfg: cfg, assessor: assessor, store: st}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(connectTimeout)
	if u := cfg.Username(); u != "" {
		opts.SetUsername(u)
	}
	if p := cfg.Password(); p != "" {
		opts.SetPassword(p)
	}
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		// Runs on initial connect and every reconnect, restoring the
		// subscription either way.
		if token := c.Subscribe(cfg.RequestTopic, qosAtLeastOnce, ing.onMessage); token.Wait() && token.Error() != nil {
			slog.Error("ingest: subscribe failed", "topic", cfg.RequestTopic, "err", token.Error())
			return
		}
		slog.Info("ingest: subscribed", "topic", cfg.RequestTopic)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		slog.Warn("ingest: connection lost", "broker", cfg.Broker, "err", err)
	})

	// Set before Connect: the on-connect subscription can deliver messages
	// that publish through ing.client right away.
	ing.client = mqtt.NewClient(opts)
	if token := ing.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("ingest: connect to broker %q: %w", cfg.Broker, token.Error())
	}
	return ing, nil
}

// Close disconnects from the broker.
func (i *Ingestor) Close() {
	if i.client != nil {
		i.client.Disconnect(disconnectMs)
	}
}

// onMessage handles one request message end to end.
func (i *Ingestor) onMessage(_ mqtt.Client, msg mqtt.Message) {
	resp := i.handle(msg.Payload())
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("ingest: marshal response", "err", err)
		return
	}
	if token := i.client.Publish(i.cfg.ResultTopic, qosAtLeastOnce, false, data); token.Wait() && token.Error() != nil {
		slog.Warn("ingest: publish result failed", "topic", i.cfg.ResultTopic, "err", token.Error())
	}
}

// handle assesses one raw payload and returns the envelope to publish.
// Factored out of onMessage so it is testable without a broker.
func (i *Ingestor) handle(payload []byte) predict.Response {
	rec, err := telemetry.DecodeBytes(payload)
	if err != nil {
		slog.Warn("ingest: malformed telemetry payload", "err", err)
		return predict.Fail(err)
	}
	a, err := i.assessor.Assess(rec)
	if err != nil {
		return predict.Fail(err)
	}
	if rec.EquipmentID != "" {
		i.store.Put(rec.EquipmentID, a)
	}
	return predict.Succeed(a)
}
