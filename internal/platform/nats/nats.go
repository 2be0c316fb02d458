package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/open-builders/giveaway-bot/internal/common/logger"
)

// Open connects to NATS and keeps reconnecting in the background for the
// lifetime of the process.
func Open(url, name string) (*nats.Conn, error) {
	if url == "" {
		return nil, fmt.Errorf("empty nats url")
	}
	log := logger.With("nats")

	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	log.Info().Str("url", url).Msg("NATS connection initialized")
	return nc, nil
}
