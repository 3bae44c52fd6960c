package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment names recognized by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config holds logger settings loaded from the environment.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Level   string `env:"LOG_LEVEL"`
	Service string `env:"SERVICE_NAME" envDefault:"planbridge"`
}

// Format represents logger output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Option configures logger creation.
type Option func(*options)

type options struct {
	level      slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// WithLevel sets the minimum level.
func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// WithLevelName sets the minimum level from its name (debug, info, warn, error).
// Empty or unknown names leave the level unchanged.
func WithLevelName(name string) Option {
	return func(o *options) {
		if l, ok := ParseLevel(name); ok {
			o.level = l
		}
	}
}

// WithFormat sets the output format. It panics on an unknown format so a
// misconfigured binary fails at startup.
func WithFormat(f Format) Option {
	return func(o *options) {
		switch f {
		case FormatJSON, FormatText:
			o.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets the destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// WithContextExtractors registers extractors that add request-scoped
// attributes, such as the request id, to every record.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// WithEnvironment applies the defaults of an environment and tags records
// with service and env. Production and staging log JSON at info level;
// anything else is treated as development: text at debug level.
func WithEnvironment(env, service string) Option {
	return func(o *options) {
		switch strings.ToLower(env) {
		case EnvProduction, "prod":
			env, o.level, o.format = EnvProduction, slog.LevelInfo, FormatJSON
		case EnvStaging, "stage":
			env, o.level, o.format = EnvStaging, slog.LevelInfo, FormatJSON
		default:
			env, o.level, o.format = EnvDevelopment, slog.LevelDebug, FormatText
		}
		if service != "" {
			o.attrs = append(o.attrs, slog.String("service", service))
		}
		o.attrs = append(o.attrs, slog.String("env", env))
	}
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// New creates a logger. Without options it writes JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}
	var handler slog.Handler
	if o.format == FormatText {
		handler = slog.NewTextHandler(o.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	}
	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}

	return slog.New(NewContextHandler(handler, o.extractors...))
}

// NewFromConfig creates a logger for cfg.Env, applying cfg.Level after the
// environment defaults. Extra options are applied last.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	all := make([]Option, 0, len(opts)+2)
	all = append(all, WithEnvironment(cfg.Env, cfg.Service), WithLevelName(cfg.Level))
	all = append(all, opts...)
	return New(all...)
}

// SetAsDefault installs l as the slog default logger.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}
