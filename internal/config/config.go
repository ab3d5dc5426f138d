// Package config loads the core's recognized options from the
// environment, using plain os.Getenv reads rather than a config library —
// cmd/server/main.go never reached for one either.
package config

import (
	"os"
	"strconv"
)

// Config holds every option the core recognizes, plus the demo
// server's own listen port.
type Config struct {
	MaxCards                  int
	MaxTags                   int
	MaxTagsPerZone            int
	MaxOpsPerPlan             int
	CacheCapacity             int
	StartWithAllCards         bool
	CancellationCheckInterval int
	Port                      string
}

// Load reads Config from the environment, falling back to documented
// defaults for anything unset or unparseable.
func Load() Config {
	return Config{
		MaxCards:                  envInt("MAX_CARDS", 10_000_000),
		MaxTags:                   envInt("MAX_TAGS", 10_000),
		MaxTagsPerZone:            envInt("MAX_TAGS_PER_ZONE", 100),
		MaxOpsPerPlan:             envInt("MAX_OPS_PER_PLAN", 32),
		CacheCapacity:             envInt("CACHE_CAPACITY", 1024),
		StartWithAllCards:         envBool("START_WITH_ALL_CARDS", true),
		CancellationCheckInterval: envInt("CANCELLATION_CHECK_INTERVAL", 1),
		Port:                      envString("PORT", "8080"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
