package config

import (
	"encoding/json"
	"os"

	"github.com/titansafe/timetable/internal/flagx"
	"github.com/titansafe/timetable/internal/timex"
)

// JsonConfig is the shape of the JSON configuration file. Durations accept
// "30s"-style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      string         `json:"database_dsn"`
	Timezone         string         `json:"timezone"`
	CompileTimeout   timex.Duration `json:"compile_timeout"`
	Schedule         string         `json:"schedule"`
	ScheduledKeys    []string       `json:"scheduled_keys"`
	ArchiveEnabled   *bool          `json:"archive_enabled"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	KafkaBrokers     []string       `json:"kafka_brokers"`
	KafkaTopic       string         `json:"kafka_topic"`
	LogLevel         string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config. Fields absent from the
// file keep their current value. An unreadable or invalid file panics.
func parseJson(config *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.Timezone, c.Timezone)
	if c.CompileTimeout.Duration > 0 {
		config.CompileTimeout = c.CompileTimeout.Duration
	}
	setString(&config.Schedule, c.Schedule)
	if c.ScheduledKeys != nil {
		config.ScheduledKeys = c.ScheduledKeys
	}
	if c.ArchiveEnabled != nil {
		config.ArchiveEnabled = *c.ArchiveEnabled
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.KafkaBrokers != nil {
		config.KafkaBrokers = c.KafkaBrokers
	}
	setString(&config.KafkaTopic, c.KafkaTopic)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
