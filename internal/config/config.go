package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	Redis      RedisConfig      `yaml:"redis"`
	Engine     EngineConfig     `yaml:"engine"`
	Archive    BatchConfig      `yaml:"archive"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type ServerConfig struct {
	HTTPPort int `yaml:"http_port"`
}

// EngineConfig tunes the metrics engine.
type EngineConfig struct {
	Source            string `yaml:"source"`
	IdleThresholdMs   int64  `yaml:"idle_threshold_ms"`
	ActionLogCapacity int    `yaml:"action_log_capacity"`
	LabelMaxLen       int    `yaml:"label_max_len"`
}

// BatchConfig controls archive batching.
type BatchConfig struct {
	Size          int           `yaml:"size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	ConsumerGroup string        `yaml:"consumer_group"`
}

type KafkaConfig struct {
	Brokers       []string          `yaml:"brokers"`
	Topics        map[string]string `yaml:"topics"`
	ConsumerGroup string            `yaml:"consumer_group"`
}

type ClickHouseConfig struct {
	Addr         string `yaml:"addr"`
	Database     string `yaml:"database"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type RedisConfig struct {
	Addr         string `yaml:"addr"`
	Password     string `yaml:"password"`
	DB           int    `yaml:"db"`
	Prefix       string `yaml:"prefix"`
	HistoryLimit int64  `yaml:"history_limit"`
}

// Topic returns the configured topic for name, falling back to uxbench.<name>.
func (k KafkaConfig) Topic(name string) string {
	if t := k.Topics[name]; t != "" {
		return t
	}
	return "uxbench." + name
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied and no
// external services configured.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	// Unset ${VAR} brokers expand to empty entries
	brokers := cfg.Kafka.Brokers[:0]
	for _, b := range cfg.Kafka.Brokers {
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	cfg.Kafka.Brokers = brokers

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8090
	}
	if cfg.Kafka.ConsumerGroup == "" {
		cfg.Kafka.ConsumerGroup = "uxbench-recorder"
	}
	if cfg.ClickHouse.MaxOpenConns == 0 {
		cfg.ClickHouse.MaxOpenConns = 10
	}
	if cfg.ClickHouse.MaxIdleConns == 0 {
		cfg.ClickHouse.MaxIdleConns = 5
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "uxbench"
	}
	if cfg.Redis.HistoryLimit == 0 {
		cfg.Redis.HistoryLimit = 50
	}

	if cfg.Archive.Size == 0 {
		cfg.Archive.Size = 20
	}
	if cfg.Archive.FlushInterval == 0 {
		cfg.Archive.FlushInterval = 5 * time.Second
	}
	if cfg.Archive.ConsumerGroup == "" {
		cfg.Archive.ConsumerGroup = "uxbench-archiver"
	}

	cfg.Engine = cfg.Engine.WithDefaults()
}

// WithDefaults fills zero values with the engine defaults.
func (e EngineConfig) WithDefaults() EngineConfig {
	if e.Source == "" {
		e.Source = "uxbench-recorder"
	}
	if e.IdleThresholdMs == 0 {
		e.IdleThresholdMs = 3000
	}
	if e.ActionLogCapacity == 0 {
		e.ActionLogCapacity = 500
	}
	if e.LabelMaxLen == 0 {
		e.LabelMaxLen = 40
	}
	return e
}
