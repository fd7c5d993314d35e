// Package telemetry samples the status cells on an interval, logs a
// heartbeat line and republishes the values as retained bus messages.
package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"powermodule-go/bus"
	"powermodule-go/services/system"
	"powermodule-go/types"
	"powermodule-go/x/timex"
)

var (
	TopicConfig    = bus.Topic{"config", "telemetry"}
	TopicPower     = bus.Topic{"status", "power"}
	TopicLED       = bus.Topic{"status", "led"}
	TopicCooling   = bus.Topic{"status", "cooling"}
	TopicHeartbeat = bus.Topic{"status", "heartbeat"}
)

// Config is accepted on TopicConfig.
type Config struct {
	IntervalMs uint32 `json:"interval_ms"`
}

// Source yields a non-consuming view of the device state.
type Source interface {
	Snapshot() system.Snapshot
}

type Service struct {
	src      Source
	interval time.Duration
	started  time.Time
	seq      uint32
}

func New(src Source, interval time.Duration) *Service {
	if interval <= 0 {
		interval = time.Second
	}
	return &Service{src: src, interval: interval}
}

// Publish emits one round of status messages.
func (s *Service) Publish(conn *bus.Connection) {
	snap := s.src.Snapshot()
	ts := timex.NowNs()
	s.seq++

	conn.Publish(&bus.Message{Topic: TopicPower, Retained: true, Payload: types.PowerStatus{
		State: snap.Power.String(), MilliV: snap.MilliV, HaveVolts: snap.HaveVolts, TS: ts,
	}})
	conn.Publish(&bus.Message{Topic: TopicLED, Retained: true, Payload: types.LEDStatus{
		On: snap.LED, TS: ts,
	}})
	conn.Publish(&bus.Message{Topic: TopicCooling, Retained: true, Payload: types.CoolingStatus{
		On: snap.Cooling == types.CoolingOn, Speed: snap.Speed, TS: ts,
	}})
	conn.Publish(&bus.Message{Topic: TopicHeartbeat, Retained: true, Payload: types.Heartbeat{
		Uptime: int64(time.Since(s.started)), Seq: s.seq,
	}})
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(TopicConfig)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[telemetry] stopping")
			return
		case t := <-tick.C:
			snap := s.src.Snapshot()
			println("[telemetry]", t.Format("15:04:05"), "power", snap.Power.String(), "mV", snap.MilliV)
			s.Publish(conn)
		case msg := <-cfgSub.Channel():
			cfg, ok := decodeConfig(msg.Payload)
			if !ok || cfg.IntervalMs == 0 {
				println("[telemetry] ignoring config payload")
				continue
			}
			s.interval = time.Duration(cfg.IntervalMs) * time.Millisecond
			tick.Reset(s.interval)
			println("[telemetry] interval set to", cfg.IntervalMs, "ms")
		}
	}
}

// PublishInterval retains d as the telemetry config, replacing any
// board default already on the bus.
func PublishInterval(conn *bus.Connection, d time.Duration) {
	conn.Publish(&bus.Message{
		Topic:    TopicConfig,
		Payload:  Config{IntervalMs: uint32(d / time.Millisecond)},
		Retained: true,
	})
}

// decodeConfig accepts a typed Config or its JSON form.
func decodeConfig(payload any) (Config, bool) {
	switch v := payload.(type) {
	case Config:
		return v, true
	case json.RawMessage:
		var cfg Config
		if err := json.Unmarshal(v, &cfg); err != nil {
			return Config{}, false
		}
		return cfg, true
	}
	return Config{}, false
}

// Start publishes an initial round, then runs until ctx ends.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	s.started = time.Now()
	s.Publish(conn)
	go s.serviceLoop(ctx, conn)
	return nil
}
