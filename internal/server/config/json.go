package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/lanternhq/lanternhack/internal/flagx"
	"github.com/lanternhq/lanternhack/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "60s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP  string `json:"endpoint_addr_http"`
	DatabaseDSN       string `json:"database_dsn"`
	RedisAddr         string `json:"redis_addr"`
	RedisPassword     string `json:"redis_password"`
	SecretKey         string `json:"secret_key"`
	TelemetryEndpoint string `json:"telemetry_endpoint"`

	SignalBaseline    int64          `json:"signal_baseline"`
	SignalThreshold   int64          `json:"signal_threshold"`
	ChangePercentage  float64        `json:"change_percentage"`
	MaxStepChange     int64          `json:"max_step_change"`
	DecayTickInterval timex.Duration `json:"decay_tick_interval"`
	TriesBudget       int            `json:"tries_budget"`
	DecoyDisplaySize  int            `json:"decoy_display_size"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.SecretKey = c.SecretKey
	config.TelemetryEndpoint = c.TelemetryEndpoint

	config.SignalBaseline = c.SignalBaseline
	config.SignalThreshold = c.SignalThreshold
	config.ChangePercentage = c.ChangePercentage
	config.MaxStepChange = c.MaxStepChange
	config.DecayTickInterval = time.Duration(c.DecayTickInterval.Duration)
	config.TriesBudget = c.TriesBudget
	config.DecoyDisplaySize = c.DecoyDisplaySize

	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
