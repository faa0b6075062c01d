package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server  ServerConfig
	MQTT    MQTTConfig
	PLC     PLCConfig
	Worker  WorkerConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type MQTTConfig struct {
	BrokerURL         string
	ClientID          string
	Username          string
	Password          string
	QoS               int
	DataTopic         string // gateway fault batches
	StatusTopicPrefix string // per-code status topics: <prefix><code>
}

type PLCConfig struct {
	MaxErrorCode   int // known fault codes are [1, MaxErrorCode]
	UTCOffsetHours int // gateway timestamps are in this local zone
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type DatabaseConfig struct {
	Path        string
	CatalogPath string // JSON catalog seed, optional
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		MQTT: MQTTConfig{
			BrokerURL:         getEnv("MQTT_BROKER_URL", "tcp://localhost:1883"),
			ClientID:          getEnv("MQTT_CLIENT_ID", "plc-alerts"),
			Username:          getEnv("MQTT_USERNAME", ""),
			Password:          getEnv("MQTT_PASSWORD", ""),
			QoS:               getEnvInt("MQTT_QOS", 0),
			DataTopic:         getEnv("MQTT_DATA_TOPIC", "plc/data"),
			StatusTopicPrefix: getEnv("MQTT_STATUS_TOPIC_PREFIX", "plc/error/"),
		},
		PLC: PLCConfig{
			MaxErrorCode:   getEnvInt("PLC_MAX_ERROR_CODE", 90),
			UTCOffsetHours: getEnvInt("PLC_UTC_OFFSET_HOURS", 9),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 100),
		},
		DB: DatabaseConfig{
			Path:        getEnv("DB_PATH", "./data/plc-alerts.db"),
			CatalogPath: getEnv("CATALOG_PATH", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("invalid MQTT QoS: %d", c.MQTT.QoS)
	}
	if c.MQTT.StatusTopicPrefix == "" {
		return fmt.Errorf("status topic prefix must not be empty")
	}

	if c.PLC.MaxErrorCode < 1 {
		return fmt.Errorf("max error code must be at least 1, got %d", c.PLC.MaxErrorCode)
	}
	if c.PLC.UTCOffsetHours < -12 || c.PLC.UTCOffsetHours > 14 {
		return fmt.Errorf("invalid PLC UTC offset: %d", c.PLC.UTCOffsetHours)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", c.Worker.Count)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
