// Package config publishes a board's configuration onto the bus as
// retained messages, one per top-level key.
package config

import (
	"context"
	"encoding/json"
	"os"

	"powermodule-go/bus"
	"powermodule-go/errcode"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key carrying the board name
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

type ConfigService struct {
	Name string
	Path string // optional file that replaces the embedded config
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

func (s *ConfigService) load(device string) ([]byte, error) {
	if s.Path != "" {
		return os.ReadFile(s.Path)
	}
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return nil, errcode.Wrap(errcode.InvalidParams, serviceName, "no embedded config for "+device)
	}
	return raw, nil
}

// publishConfig publishes every top-level key as a retained json.RawMessage.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" && s.Path == "" {
		return errcode.Wrap(errcode.InvalidParams, serviceName, "missing device in context")
	}
	raw, err := s.load(device)
	if err != nil {
		return err
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return errcode.Wrap(errcode.InvalidParams, serviceName, "config is not a JSON object")
	}
	for k, v := range m {
		conn.Publish(&bus.Message{
			Topic:    bus.Topic{configPrefix, k},
			Payload:  v,
			Retained: true,
		})
	}
	return nil
}

// Start publishes the configuration once.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) error {
	return s.publishConfig(ctx, conn)
}
