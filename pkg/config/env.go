// Package config reads process configuration from environment variables.
// Malformed values never fail startup: they are logged and replaced by the default.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv returns parse(value of key), or def when key is unset or parse fails.
func parseEnv[T any](key string, def T, kind string, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("invalid "+kind+" value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Any("default", def),
			slog.String("error", err.Error()))
		return def
	}
	return v
}

// GetEnvString returns the variable or def when it is unset or empty.
func GetEnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvInt parses a base-10 integer.
func GetEnvInt(key string, def int) int {
	return parseEnv(key, def, "integer", strconv.Atoi)
}

// GetEnvBool accepts the forms of strconv.ParseBool ("1", "t", "true", "FALSE", ...).
func GetEnvBool(key string, def bool) bool {
	return parseEnv(key, def, "boolean", strconv.ParseBool)
}

// GetEnvFloat parses a float64, e.g. COMPLETION_RPS=0.5.
func GetEnvFloat(key string, def float64) float64 {
	return parseEnv(key, def, "float", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvDuration parses a time.ParseDuration string such as "90s" or "1h30m".
func GetEnvDuration(key string, def time.Duration) time.Duration {
	return parseEnv(key, def, "duration", time.ParseDuration)
}

// GetEnvStringList splits a comma list, trimming items and dropping empty ones.
//
//	FRONTEND_ORIGIN="https://a.example, https://b.example"  ->  [https://a.example https://b.example]
func GetEnvStringList(key string, def []string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
