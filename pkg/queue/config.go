package queue

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const redactedPassword = "xxxxx"

// Config is used to establish a connection with a RabbitMQ server.
// URL takes precedence over the individual parts when set.
type Config struct {
	URL      string
	Scheme   string
	Username string
	Password string
	Host     string
	Port     int
	Vhost    string
}

func getURL(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	uri := amqp.URI{
		Scheme:   cfg.Scheme,
		Username: cfg.Username,
		Password: cfg.Password,
		Host:     cfg.Host,
		Port:     cfg.Port,
		Vhost:    cfg.Vhost,
	}

	return uri.String()
}

// SanitizeURL removes the password from an AMQP URL so it can be logged.
func SanitizeURL(raw string) string {
	uri, err := amqp.ParseURI(raw)
	if err != nil {
		return "invalid-amqp-url"
	}

	if uri.Password != "" {
		uri.Password = redactedPassword
	}

	return uri.String()
}
