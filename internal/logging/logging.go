package logging

import (
	"io"
	"os"

	"atc-planner/internal/config"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const header = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}","file":"${short_file}","line":"${line}"}`

// Output is the destination shared by every logger of a process. The
// rotating log file must have exactly one owner, so loggers are derived from
// a single Output rather than each opening the file.
type Output struct {
	w     io.Writer
	file  *lumberjack.Logger
	level log.Lvl
}

// NewOutput writes to stdout and, if cfg.File is set, to a rotating log file
// as well.
func NewOutput(cfg config.LogConfig) *Output {
	o := &Output{w: os.Stdout, level: ParseLevel(cfg.Level)}
	if cfg.File != "" {
		o.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		o.w = io.MultiWriter(os.Stdout, o.file)
	}
	return o
}

// Logger returns a logger with the given prefix writing to o.
func (o *Output) Logger(prefix string) *log.Logger {
	l := log.New(prefix)
	l.SetHeader(header)
	l.SetLevel(o.level)
	l.SetOutput(o.w)
	return l
}

// Close closes the log file, if any.
func (o *Output) Close() error {
	if o.file == nil {
		return nil
	}
	return o.file.Close()
}

// Discard is a logger for callers that didn't supply one.
func Discard(prefix string) *log.Logger {
	l := log.New(prefix)
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}

func ParseLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// OrDiscard returns l, or a discarding logger if l is nil.
func OrDiscard(l *log.Logger, prefix string) *log.Logger {
	if l == nil {
		return Discard(prefix)
	}
	return l
}
