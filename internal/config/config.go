package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`

	AI struct {
		Provider string `yaml:"provider"` // openai | mock
		APIKey   string `yaml:"apiKey"`
		Model    string `yaml:"model"`
		BaseURL  string `yaml:"baseURL"`
	} `yaml:"ai"`

	Session struct {
		SoftLimit  int `yaml:"softLimit"`
		HardLimit  int `yaml:"hardLimit"`
		TTLMinutes int `yaml:"ttlMinutes"`
	} `yaml:"session"`

	Storage struct {
		Backend string `yaml:"backend"` // redis | mysql | postgres | memory
	} `yaml:"storage"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Auth struct {
		ClearHistoryOnLogout bool `yaml:"clearHistoryOnLogout"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// Load reads the yaml config, applying defaults for anything the file omits
// and letting the environment override the AI credential.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.AI.Provider = "openai"
	cfg.Session.SoftLimit = 25
	cfg.Session.HardLimit = 35
	cfg.Session.TTLMinutes = 30
	cfg.Storage.Backend = "memory"
	cfg.Redis.Prefix = "insights"
	cfg.Auth.ClearHistoryOnLogout = true
	cfg.RateLimit.Capacity = 30
	cfg.RateLimit.RefillRate = 1
	return cfg
}

// MySQLDSN builds the DSN for the mysql backend.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the DSN for the postgres backend.
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		ssl,
	)
}
