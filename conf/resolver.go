package conf

import (
	"os"
	"strconv"
	"strings"

	"github.com/yinyihanbing/gutils/logs"
)

// Resolver supplies integer settings by key.
type Resolver interface {
	// GetInt returns the value stored under key, or def when there is none.
	GetInt(key string, def int) int
}

// Source is a raw key/value lookup a Config reads from.
type Source interface {
	Lookup(key string) (string, bool)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(key string) (string, bool)

// Lookup calls f(key).
func (f SourceFunc) Lookup(key string) (string, bool) {
	return f(key)
}

// Values is an in-memory Source.
type Values map[string]string

// Lookup returns the stored value for key.
func (v Values) Lookup(key string) (string, bool) {
	s, ok := v[key]
	return s, ok
}

// Env returns a Source reading environment variables. The key is upper-cased,
// dots become underscores and prefix is joined with an underscore:
// Env("SESSEVENT") maps "event.thread_pool_size" to SESSEVENT_EVENT_THREAD_POOL_SIZE.
func Env(prefix string) Source {
	return SourceFunc(func(key string) (string, bool) {
		name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if prefix != "" {
			name = prefix + "_" + name
		}
		return os.LookupEnv(name)
	})
}

// Vars returns a Source backed by the package-level configuration vars.
func Vars() Source {
	return SourceFunc(func(key string) (string, bool) {
		switch key {
		case KeyEventThreadPoolSize:
			if EventThreadPoolSize > 0 {
				return strconv.Itoa(EventThreadPoolSize), true
			}
		}
		return "", false
	})
}

// Config resolves settings from an ordered list of sources.
// The first source holding a parseable value wins.
type Config []Source

// New creates a Config reading from the given sources in order.
func New(sources ...Source) Config {
	c := make(Config, 0, len(sources))
	for _, s := range sources {
		if s != nil {
			c = append(c, s)
		}
	}
	return c
}

// Default returns the resolver used when none is injected:
// package vars first, then SESSEVENT_* environment variables.
func Default() Config {
	return New(Vars(), Env("SESSEVENT"))
}

// GetInt implements Resolver.
func (c Config) GetInt(key string, def int) int {
	for _, s := range c {
		raw, ok := s.Lookup(key)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			logs.Error("invalid int value for %v: %q", key, raw)
			continue
		}
		return v
	}
	return def
}
