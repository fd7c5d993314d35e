package config

// Per-board configuration, keyed by board name. Each top-level key is
// published as config/<key>.

const cfgHost = `{
  "telemetry": {
    "interval_ms": 1000
  }
}`

var embeddedConfigs = map[string][]byte{
	"host": []byte(cfgHost),
}
