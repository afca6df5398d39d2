// Package daemonconf loads cmd/celd's own connection settings: where to
// reach the Asterisk Manager Interface, and where to publish to MQTT.
// This is separate from internal/celconf, which reads the CEL engine's
// own enable/tracked-events configuration in Asterisk's cel.conf format;
// daemonconf covers the ambient process wiring around it.
package daemonconf

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is cmd/celd's top-level YAML connection file.
type Config struct {
	AMI  AMIConfig  `yaml:"ami"`
	MQTT MQTTConfig `yaml:"mqtt"`

	// CELConfPath points at the cel.conf-format file internal/celconf
	// reads for the engine's own configuration.
	CELConfPath string `yaml:"cel_conf_path"`
}

// AMIConfig is the manager-interface connection the daemon's
// amisource feed reads from.
type AMIConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Secret   string `yaml:"secret"`
}

// MQTTConfig is the broker the daemon's mqttbackend publishes records to.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// Addr returns the AMI host:port pair for net.Dial.
func (c *AMIConfig) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

// Load reads and validates the daemon connection file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading daemon config: %w", err)
	}

	cfg := &Config{
		AMI: AMIConfig{
			Host: "127.0.0.1",
			Port: 5038,
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			ClientID:    "celd",
			TopicPrefix: "cel",
		},
		CELConfPath: "/etc/asterisk/cel.conf",
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing daemon config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.AMI.Host == "" {
		return fmt.Errorf("ami.host is required")
	}
	if c.AMI.Port < 1 || c.AMI.Port > 65535 {
		return fmt.Errorf("ami.port must be between 1 and 65535, got %d", c.AMI.Port)
	}
	if c.AMI.Username == "" {
		return fmt.Errorf("ami.username is required")
	}
	if c.AMI.Secret == "" {
		return fmt.Errorf("ami.secret is required")
	}
	if c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required")
	}
	if c.MQTT.ClientID == "" {
		return fmt.Errorf("mqtt.client_id is required")
	}
	if c.MQTT.TopicPrefix == "" {
		return fmt.Errorf("mqtt.topic_prefix is required")
	}
	if c.CELConfPath == "" {
		return fmt.Errorf("cel_conf_path is required")
	}
	return nil
}
