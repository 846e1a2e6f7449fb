package relay

import (
	"context"
	"encoding/json"

	"github.com/Nyaguthii-C/LetsChat/internal/logger"
	"github.com/Nyaguthii-C/LetsChat/pkg/apperrors"

	"github.com/nats-io/nats.go"
)

// NATSProvider publishes message events onto a NATS subject.
type NATSProvider struct {
	conn    *nats.Conn
	subject string
}

func NewNATSProvider(url, subject string) (*NATSProvider, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, apperrors.ExternalServiceError(err, "relay", "failed to connect to nats")
	}
	return &NATSProvider{conn: conn, subject: subject}, nil
}

func (p *NATSProvider) PublishMessage(ctx context.Context, event MessageEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return apperrors.ExternalServiceError(err, "relay", "failed to publish message event")
	}
	return nil
}

func (p *NATSProvider) Close() error {
	return p.conn.Drain()
}
