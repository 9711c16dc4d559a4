package env

import (
	"fmt"
	"net"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	maxKeyLength   = 256
	maxValueLength = 64 << 10
)

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateFilePath rejects paths that climb out of the working directory.
func validateFilePath(path string) error {
	if path == "" || strings.Contains(path, "..") {
		return ErrInvalidPath
	}
	if cleanPath := filepath.Clean(path); !filepath.IsAbs(cleanPath) && strings.HasPrefix(cleanPath, "..") {
		return ErrInvalidPath
	}
	return nil
}

func validateKeyValue(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return validateValue(value)
}

func validateKey(key string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case len(key) > maxKeyLength:
		return fmt.Errorf("%w: maximum length is %d", ErrInvalidKey, maxKeyLength)
	case !keyPattern.MatchString(key):
		return fmt.Errorf("%w: %q must be letters, digits and underscores, not starting with a digit", ErrInvalidKey, key)
	}
	return nil
}

func validateValue(value string) error {
	if len(value) > maxValueLength {
		return fmt.Errorf("%w: maximum length is %d", ErrInvalidValue, maxValueLength)
	}
	if strings.ContainsRune(value, 0) {
		return fmt.Errorf("%w: contains a NUL byte", ErrInvalidValue)
	}
	return nil
}

// validateListenAddr accepts host:port or :port with a numeric port.
func validateListenAddr(key, addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidValue, key, addr, err)
	}
	return validatePort(key, port)
}

func validatePort(key, port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%w: %s=%q is not a port", ErrInvalidValue, key, port)
	}
	return nil
}

// validate checks the loaded values that would otherwise fail late, at listen or dial time.
func (c EtaEnvConfig) validate() error {
	if err := validateListenAddr("API_ADDR", c.APIAddr); err != nil {
		return err
	}
	if err := validateListenAddr("CONFIG_API_ADDR", c.ConfigAddr); err != nil {
		return err
	}
	if c.RedisHost != "" {
		if err := validatePort("REDIS_PORT", c.RedisPort); err != nil {
			return err
		}
	}
	if c.RedisPrtl != 2 && c.RedisPrtl != 3 {
		return fmt.Errorf("%w: REDIS_PROTOCOL=%d, expected 2 or 3", ErrInvalidValue, c.RedisPrtl)
	}
	return nil
}
