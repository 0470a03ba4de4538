// Package config loads the agent server configuration.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Agent  AgentConfig  `yaml:"agent"`
	Token  TokenConfig  `yaml:"token"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type AgentConfig struct {
	Name           string        `yaml:"name"`
	ScriptInterval time.Duration `yaml:"script_interval"`
}

type TokenConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "127.0.0.1",
		},
		Agent: AgentConfig{
			Name:           "example",
			ScriptInterval: 4 * time.Second,
		},
		Token: TokenConfig{
			TTL: 24 * time.Hour,
		},
	}
}

// Load reads a config file, applying defaults for unspecified fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads a config file if it exists, else returns defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	return cfg, err
}

// Address returns the call address clients dial to reach the agent.
func (c *Config) Address() string {
	return "/public/" + c.Agent.Name
}

// GenerateToken returns a random guest token.
func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
