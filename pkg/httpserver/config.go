package httpserver

import "time"

// Config is the env-driven server configuration.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"` // covers provider round-trips during session creation
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// NewFromConfig creates a Server from cfg. Zero fields keep the built-in
// defaults; opts are applied after the config.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	var configOpts []Option
	if cfg.Addr != "" {
		configOpts = append(configOpts, WithAddr(cfg.Addr))
	}
	for _, d := range []struct {
		value time.Duration
		apply func(time.Duration) Option
	}{
		{cfg.ReadTimeout, WithReadTimeout},
		{cfg.WriteTimeout, WithWriteTimeout},
		{cfg.IdleTimeout, WithIdleTimeout},
		{cfg.ShutdownTimeout, WithShutdownTimeout},
	} {
		if d.value > 0 {
			configOpts = append(configOpts, d.apply(d.value))
		}
	}
	return New(append(configOpts, opts...)...)
}
