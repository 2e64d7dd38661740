package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"webservers/service"
)

// String returns the trimmed value of env variable name, or def when unset or blank.
func String(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

// Int parses env variable name, returning def when unset.
func Int(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, service.NewConfigError(fmt.Sprintf("invalid %s", name), err)
	}
	return n, nil
}

// PositiveInt parses env variable name, which must be > 0 when set.
func PositiveInt(name string, def int) (int, error) {
	n, err := Int(name, def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, service.NewConfigError(fmt.Sprintf("%s must be positive", name), nil)
	}
	return n, nil
}

// Seconds parses env variable name as a positive whole number of seconds.
func Seconds(name string, def time.Duration) (time.Duration, error) {
	n, err := PositiveInt(name, int(def/time.Second))
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}

// Minutes parses env variable name as a positive whole number of minutes.
func Minutes(name string, def time.Duration) (time.Duration, error) {
	n, err := PositiveInt(name, int(def/time.Minute))
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Minute, nil
}

// Bool parses env variable name with strconv.ParseBool, returning def when unset.
func Bool(name string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, service.NewConfigError(fmt.Sprintf("invalid %s", name), err)
	}
	return b, nil
}

// Port parses env variable name as a TCP port. Unset yields def; def 0 means the listener is off.
func Port(name string, def int) (int, error) {
	p, err := Int(name, def)
	if err != nil {
		return 0, err
	}
	if p < 0 || p > 65535 || (p == 0 && def != 0) {
		return 0, service.NewConfigError(fmt.Sprintf("%s must be in 1..65535", name), nil)
	}
	return p, nil
}

// RequiredPort parses env variable name as a TCP port that must be set.
func RequiredPort(name string) (int, error) {
	if strings.TrimSpace(os.Getenv(name)) == "" {
		return 0, service.NewConfigError(fmt.Sprintf("%s is required", name), nil)
	}
	p, err := Int(name, 0)
	if err != nil {
		return 0, err
	}
	if p < 1 || p > 65535 {
		return 0, service.NewConfigError(fmt.Sprintf("%s must be in 1..65535", name), nil)
	}
	return p, nil
}
