package app

import (
	"context"
	"sync"

	"github.com/Nyaguthii-C/LetsChat/internal/relay"
)

// NoopRelayProvider satisfies relay.Provider without an external bus.
// Used when no relay is configured and as the default in tests.
type NoopRelayProvider struct {
	mu     sync.Mutex
	events []relay.MessageEvent
}

func NewNoopRelayProvider() *NoopRelayProvider {
	return &NoopRelayProvider{}
}

func (p *NoopRelayProvider) PublishMessage(_ context.Context, event relay.MessageEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *NoopRelayProvider) Close() error {
	return nil
}

// Events returns a copy of everything published so far.
func (p *NoopRelayProvider) Events() []relay.MessageEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]relay.MessageEvent, len(p.events))
	copy(out, p.events)
	return out
}
