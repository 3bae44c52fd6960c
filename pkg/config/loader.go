package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// configCache stores one parsed value per configuration type.
type configCache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	globalCache = &configCache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v based on its env tags.
// The .env file in the working directory is loaded once, if present.
// Each configuration type is parsed once; later calls get the cached copy.
//
//	type StripeConfig struct {
//		SecretKey     string `env:"STRIPE_SECRET_KEY"`
//		WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
//	}
//
//	var cfg StripeConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// Missing .env is fine; real deployments set variables directly.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	typeName := getTypeName[T]()

	globalCache.mu.RLock()
	if cached, ok := globalCache.values[typeName]; ok {
		*v = cached.(T)
		globalCache.mu.RUnlock()
		return nil
	}
	globalCache.mu.RUnlock()

	globalCache.mu.Lock()
	once, exists := globalCache.onces[typeName]
	if !exists {
		once = new(sync.Once)
		globalCache.onces[typeName] = once
	}
	globalCache.mu.Unlock()

	var err error
	once.Do(func() {
		if parseErr := env.Parse(v); parseErr != nil {
			err = errors.Join(ErrParsingConfig, parseErr)
			return
		}

		globalCache.mu.Lock()
		globalCache.values[typeName] = *v
		globalCache.mu.Unlock()
	})
	if err != nil {
		// Allow a retry once the environment is fixed.
		globalCache.mu.Lock()
		delete(globalCache.onces, typeName)
		globalCache.mu.Unlock()
		return err
	}

	globalCache.mu.RLock()
	defer globalCache.mu.RUnlock()
	if cached, ok := globalCache.values[typeName]; ok {
		*v = cached.(T)
		return nil
	}

	return ErrConfigNotLoaded
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// Parse reads T from the given variables instead of the process environment.
// Nothing is cached. Useful for tests and for configs assembled at runtime.
func Parse[T any](environ map[string]string) (T, error) {
	var v T
	if err := env.ParseWithOptions(&v, env.Options{Environment: environ}); err != nil {
		return v, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}

func getTypeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.PkgPath() + "." + t.String()
}
