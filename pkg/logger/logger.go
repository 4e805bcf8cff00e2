package logx

import (
	"io"
	"os"

	"github.com/autoemporium/showroom-assistant/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

type LoggerOpts struct {
	Environment core.Environment
	// FilePath enables a rotated log file next to the console output.
	FilePath string
	// MaxSizeMB caps a single log file before rotation (default 10).
	MaxSizeMB int
}

func safe(otps ...LoggerOpts) *LoggerOpts {
	if len(otps) == 0 {
		return DefaultLoggerOpts
	}
	return &otps[0]
}

func Init(otps ...LoggerOpts) {
	opts := safe(otps...)

	var console io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if !opts.Environment.IsProduction() {
		console = zerolog.NewConsoleWriter()
		level = zerolog.DebugLevel
	}

	out := console
	if opts.FilePath != "" {
		out = zerolog.MultiLevelWriter(console, newRotator(opts))
	}

	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger().Level(level)
}

func newRotator(opts *LoggerOpts) *lumberjack.Logger {
	size := opts.MaxSizeMB
	if size <= 0 {
		size = 10
	}
	return &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    size, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Panic() *zerolog.Event {
	return log.Panic()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
