// Package env reads environment variables the way the option engine needs
// them: keys compared case-insensitively, values trimmed, and an empty value
// treated the same as an unset one.
package env

import (
	"os"
	"strconv"
	"strings"
)

// Lookup finds an environment variable by key. An exact match is preferred;
// failing that, keys are compared case-insensitively. The value is trimmed
// of surrounding whitespace, and a value that trims to nothing reports as
// unset.
func Lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		if t := strings.TrimSpace(v); t != "" {
			return t, true
		}
		return "", false
	}
	for _, kv := range os.Environ() {
		k, v, found := strings.Cut(kv, "=")
		if !found || !strings.EqualFold(k, key) {
			continue
		}
		if t := strings.TrimSpace(v); t != "" {
			return t, true
		}
	}
	return "", false
}

// Val returns the environment variable value for key, or defaultVal when the
// variable is unset or empty.
func Val(key, defaultVal string) string {
	if v, ok := Lookup(key); ok {
		return v
	}
	return defaultVal
}

// Int interprets an environment variable as an integer, returning defaultVal
// when the variable is unset, empty, or not a valid integer.
func Int(key string, defaultVal int) int {
	v, ok := Lookup(key)
	if !ok {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
