package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// loader reads typed values from the environment and remembers every value
// that failed to parse, so a typo in one variable is reported instead of
// silently replaced by its default.
type loader struct {
	errs []error
}

func (l *loader) str(key, defaultVal string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultVal
}

func (l *loader) int(key string, defaultVal int) int {
	return lookup(l, key, defaultVal, strconv.Atoi)
}

func (l *loader) bool(key string, defaultVal bool) bool {
	return lookup(l, key, defaultVal, strconv.ParseBool)
}

func (l *loader) duration(key string, defaultVal time.Duration) time.Duration {
	return lookup(l, key, defaultVal, time.ParseDuration)
}

// list splits a comma-separated value, dropping blank entries.
func (l *loader) list(key string, defaults []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaults
	}
	parts := strings.Split(value, ",")
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return defaults
	}
	return filtered
}

func (l *loader) err() error {
	return errors.Join(l.errs...)
}

func lookup[T any](l *loader, key string, defaultVal T, parse func(string) (T, error)) T {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return defaultVal
	}
	v, err := parse(value)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
		return defaultVal
	}
	return v
}
