package ws

import (
	"encoding/json"
	"sync"

	"github.com/Nyaguthii-C/LetsChat/internal/logger"
	"github.com/Nyaguthii-C/LetsChat/internal/services/dto"
)

// group holds the live connections of a single user. Its mutex guards
// membership only, never a network write.
type group struct {
	mu      sync.Mutex
	members map[*Client]struct{}
}

func (g *group) add(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.members[c] = struct{}{}
}

// remove reports whether the group is empty afterwards.
func (g *group) remove(c *Client) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.members, c)
	return len(g.members) == 0
}

func (g *group) snapshot() []*Client {
	g.mu.Lock()
	defer g.mu.Unlock()
	members := make([]*Client, 0, len(g.members))
	for c := range g.members {
		members = append(members, c)
	}
	return members
}

// Manager routes envelopes to a user's live connections. The outer lock
// covers only the group index; deliveries run against a membership
// snapshot so one user's slow socket never blocks another user's fanout.
type Manager struct {
	mu     sync.RWMutex
	groups map[string]*group
}

func NewManager() *Manager {
	return &Manager{groups: make(map[string]*group)}
}

// Join registers a connection under its user's group, creating the group
// on first join. Joining twice is a no-op. The add happens while the
// directory lock is held (lock order: directory, then group, same as the
// empty-group re-check in Leave) so a concurrent Leave of the last member
// can never delete the group between lookup and add.
func (m *Manager) Join(userID string, c *Client) {
	m.mu.Lock()
	g, ok := m.groups[userID]
	if !ok {
		g = &group{members: make(map[*Client]struct{})}
		m.groups[userID] = g
	}
	g.add(c)
	m.mu.Unlock()

	logger.Debug("connection joined", "user_id", userID)
}

// Leave removes a connection and drops the group once it is empty.
// Leaving twice, or without joining, is a no-op.
func (m *Manager) Leave(userID string, c *Client) {
	m.mu.Lock()
	g, ok := m.groups[userID]
	m.mu.Unlock()
	if !ok {
		return
	}

	if g.remove(c) {
		m.mu.Lock()
		// Re-check under the write lock: a concurrent Join may have
		// repopulated the group since remove reported empty.
		g.mu.Lock()
		if len(g.members) == 0 && m.groups[userID] == g {
			delete(m.groups, userID)
		}
		g.mu.Unlock()
		m.mu.Unlock()
	}
	logger.Debug("connection left", "user_id", userID)
}

// Publish fans an envelope out to every live connection of the user.
// Publishing to a user with no connections is a no-op. A connection
// whose send buffer is full is closed rather than waited on.
func (m *Manager) Publish(userID string, envelope dto.Envelope) {
	m.mu.RLock()
	g, ok := m.groups[userID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	frame, err := json.Marshal(envelope)
	if err != nil {
		logger.Error("failed to encode envelope", "kind", envelope.Kind, "error", err)
		return
	}

	for _, c := range g.snapshot() {
		c.enqueue(frame)
	}
}

// ConnectionCount reports the number of live connections for a user.
func (m *Manager) ConnectionCount(userID string) int {
	m.mu.RLock()
	g, ok := m.groups[userID]
	m.mu.RUnlock()
	if !ok {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members)
}
