package database

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// ConnectNATS dials the configured NATS server. Returns nil when no URL is
// configured so notification fan-out degrades to database-only delivery.
func ConnectNATS(url, clientName string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := nats.Connect(url, nats.Name(clientName))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return conn, nil
}
