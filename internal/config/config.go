package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	API        *APIConfig        `mapstructure:"api"`
	Gin        *GinConfig        `mapstructure:"gin"`
	Postgres   *PostgresConfig   `mapstructure:"postgres"`
	SMTP       *SMTPConfig       `mapstructure:"smtp"`
	Attendance *AttendanceConfig `mapstructure:"attendance"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// AttendanceConfig holds the leniency slack applied to the overall scan
// window for ongoing events. The defaults absorb timezone skew between the
// server clock and event-local time.
type AttendanceConfig struct {
	SlackBeforeHours int `mapstructure:"slack_before_hours"`
	SlackAfterHours  int `mapstructure:"slack_after_hours"`
}

func Load(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if conf.Attendance == nil {
		conf.Attendance = &AttendanceConfig{SlackBeforeHours: 12, SlackAfterHours: 24}
	}

	return conf, nil
}
