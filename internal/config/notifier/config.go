package notifier_config

import (
	"time"

	kafkax "github.com/ari4325/real-time-notification-system/internal/repository/kafka"
	pginfra "github.com/ari4325/real-time-notification-system/internal/repository/postgres"
)

type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

func (k Kafka) AsConsumerConfig() *kafkax.ConsumerConfig {
	return &kafkax.ConsumerConfig{Brokers: k.Brokers, Topic: k.Topic, GroupID: k.GroupID}
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SendBuffer      int           `mapstructure:"send_buffer"`
}

type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type Config struct {
	DB        pginfra.Config `mapstructure:"db"`
	Kafka     Kafka          `mapstructure:"kafka"`
	Server    Server         `mapstructure:"server"`
	Auth      Auth           `mapstructure:"auth"`
	LogLevel  string         `mapstructure:"log_level"`
	LogPretty bool           `mapstructure:"log_pretty"`
}
