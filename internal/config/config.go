package config

import (
	"net/url"
	"strings"
	"sync"
)

// DefaultBaseURL is the backend root used when no override is given.
const DefaultBaseURL = "https://server.cieloblu.co.kr"

// IsValidBaseURL checks that a base-URL override is an absolute http(s) URL.
func IsValidBaseURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Config holds process-wide runtime state. It is populated from CLI flags
// and environment at startup and read by the clients afterwards.
type Config struct {
	mu       sync.RWMutex
	baseURL  string
	warnings []string
}

var (
	global   *Config
	initOnce sync.Once
)

// Global returns the global config instance.
func Global() *Config {
	initOnce.Do(func() {
		global = &Config{}
	})
	return global
}

func (c *Config) BaseURL() string {
	return withRLock(&c.mu, func() string {
		if c.baseURL == "" {
			return DefaultBaseURL
		}
		return c.baseURL
	})
}

func (c *Config) SetBaseURL(u string) {
	doWithLock(&c.mu, func() { c.baseURL = strings.TrimRight(strings.TrimSpace(u), "/") })
}

func (c *Config) Warnings() []string {
	return withRLock(&c.mu, func() []string { return c.warnings })
}

func (c *Config) AddWarning(msg string) {
	doWithLock(&c.mu, func() { c.warnings = append(c.warnings, msg) })
}
