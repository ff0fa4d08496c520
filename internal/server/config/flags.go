package config

import (
	"flag"
	"os"
	"strings"

	"github.com/titansafe/timetable/internal/flagx"
)

// parseFlags overlays the server flags found in os.Args.
//
// Supported flags (short forms):
//
//	-a string     gRPC bind address (e.g. ":50051")
//	-d string     PostgreSQL DSN
//	-z string     timezone of offset-less times (e.g. "Europe/Paris")
//	-t duration   compile timeout (e.g. "30s")
//	-s string     cron schedule of recompiles (e.g. "*/15 * * * *")
//	-k string     comma-separated "event/year" keys recompiled on schedule
//	-x bool       enable the S3 snapshot archive
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-g string     S3 region
//	-e string     S3 base endpoint
//	-q string     comma-separated Kafka brokers
//	-n string     Kafka topic
//	-l string     log level (debug, info, warn, error)
//
// Invalid values panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-z", "-t", "-s", "-k", "-x", "-u", "-p", "-b", "-g", "-e", "-q", "-n", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Timezone, "z", config.Timezone, "timezone of offset-less times")
	fs.DurationVar(&config.CompileTimeout, "t", config.CompileTimeout, "compile timeout")
	fs.StringVar(&config.Schedule, "s", config.Schedule, "cron schedule of recompiles")
	keys := fs.String("k", strings.Join(config.ScheduledKeys, ","), "event/year keys recompiled on schedule")
	fs.BoolVar(&config.ArchiveEnabled, "x", config.ArchiveEnabled, "enable S3 snapshot archive")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	brokers := fs.String("q", strings.Join(config.KafkaBrokers, ","), "Kafka brokers")
	fs.StringVar(&config.KafkaTopic, "n", config.KafkaTopic, "Kafka topic")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ScheduledKeys = flagx.SplitList(*keys)
	config.KafkaBrokers = flagx.SplitList(*brokers)
}
