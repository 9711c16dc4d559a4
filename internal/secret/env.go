package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultConfigPath = "config.yaml"
	defaultLogLevel   = "info"
	defaultAPIAddr    = ":8001"
	defaultConfigAddr = ":8004"
	defaultRedisPort  = "6379"
)

// Manager provides thread-safe access to environment variables and configuration settings
type Manager struct {
	envVars map[string]string
	mutex   sync.RWMutex
	EtaEnvConfig
}

type EtaEnvConfig struct {
	ConfigPath  string
	LogLevel    string
	APIAddr     string
	ConfigAddr  string
	RendererCmd []string
	RedisHost   string
	RedisPort   string
	RedisDb     int
	RedisPrtl   int
	RedisUser   string
	RedisPw     string
}

// NewManager loads envFile when it exists; process environment variables win over the file.
func NewManager(envFile string) (*Manager, error) {
	manager := &Manager{envVars: make(map[string]string)}
	if envFile != "" {
		if err := manager.LoadEnvFile(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}
	if err := manager.LoadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return manager, nil
}

// LoadConfig populates the embedded EtaEnvConfig
func (m *Manager) LoadConfig() error {
	redisDB, err := m.intOr("REDIS_DB", 0)
	if err != nil {
		return err
	}
	redisPrtl, err := m.intOr("REDIS_PROTOCOL", 3)
	if err != nil {
		return err
	}
	m.EtaEnvConfig = EtaEnvConfig{
		ConfigPath:  m.GetOr("CONFIG_PATH", defaultConfigPath),
		LogLevel:    m.GetOr("LOG_LEVEL", defaultLogLevel),
		APIAddr:     m.GetOr("API_ADDR", defaultAPIAddr),
		ConfigAddr:  m.GetOr("CONFIG_API_ADDR", defaultConfigAddr),
		RendererCmd: strings.Fields(m.GetOr("RENDERER_CMD", "")),
		RedisHost:   m.GetOr("REDIS_HOST", ""),
		RedisPort:   m.GetOr("REDIS_PORT", defaultRedisPort),
		RedisDb:     redisDB,
		RedisPrtl:   redisPrtl,
		RedisUser:   m.GetOr("REDIS_USER", ""),
		RedisPw:     m.GetOr("REDIS_PW", ""),
	}
	return m.EtaEnvConfig.validate()
}

// LoadEnvFile loads environment variables from a file
func (m *Manager) LoadEnvFile(filePath string) error {
	if err := validateFilePath(filePath); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}
	values, err := godotenv.Read(filePath)
	if err != nil {
		return fmt.Errorf("could not read .env file: %w", err)
	}
	for key, value := range values {
		if err := validateKeyValue(key, value); err != nil {
			return fmt.Errorf("invalid key-value pair: %w", err)
		}
	}

	m.mutex.Lock()
	m.envVars = values
	m.mutex.Unlock()
	return nil
}

// Get retrieves a value from the process environment, then from the loaded file
func (m *Manager) Get(key string) (string, bool) {
	if value, ok := os.LookupEnv(key); ok {
		return value, true
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	value, exists := m.envVars[key]
	return value, exists
}

func (m *Manager) GetOr(key, fallback string) string {
	if value, ok := m.Get(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func (m *Manager) intOr(key string, fallback int) (int, error) {
	raw := m.GetOr(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidValue, key, raw)
	}
	return n, nil
}

// CacheEnabled reports whether a Redis host is configured.
func (m *Manager) CacheEnabled() bool {
	return m.RedisHost != ""
}
