package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/titansafe/timetable/internal/timex"
)

// Config holds the settings of one offline compile run.
//
// Fields:
//   - Event, Year: edition key; taken from the configuration file when empty.
//   - ConfigPath: configuration document (YAML or JSON).
//   - TimetablePath: existing timetable to merge into; may not exist yet.
//   - TodoPath: todo catalog (list of {type, todos}).
//   - OutPath: merged timetable output; defaults to TimetablePath, and to
//     stdout when both are empty.
//   - ICSPath: optional iCalendar export.
//   - Strict: fail the run when any error diagnostic was emitted.
type Config struct {
	Event         string
	Year          string
	ConfigPath    string
	TimetablePath string
	TodoPath      string
	OutPath       string
	ICSPath       string
	Timezone      string
	LogLevel      string
	Strict        bool
}

func (c *Config) LoadDefaults() {
	c.Timezone = timex.DefaultTimezone
	c.LogLevel = "warn"
}

// ParseArgs builds a Config from defaults and args (without the program
// name). Usage goes to errOut.
func ParseArgs(args []string, errOut io.Writer) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&cfg.Event, "event", cfg.Event, "event name")
	fs.StringVar(&cfg.Year, "year", cfg.Year, "edition year")
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "configuration document (YAML or JSON)")
	fs.StringVar(&cfg.TimetablePath, "timetable", cfg.TimetablePath, "existing timetable (JSON)")
	fs.StringVar(&cfg.TodoPath, "todos", cfg.TodoPath, "todo catalog (YAML or JSON)")
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "merged timetable output")
	fs.StringVar(&cfg.ICSPath, "ics", cfg.ICSPath, "iCalendar export output")
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "timezone of offset-less times")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "fail on error diagnostics")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ConfigPath == "" {
		return nil, fmt.Errorf("-config is required")
	}
	if cfg.OutPath == "" {
		cfg.OutPath = cfg.TimetablePath
	}
	return cfg, nil
}
