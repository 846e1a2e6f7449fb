package ws

import (
	"sync"
	"testing"

	"github.com/Nyaguthii-C/LetsChat/internal/services/dto"

	"github.com/stretchr/testify/assert"
)

func testClient() *Client {
	return &Client{send: make(chan []byte, sendBufferSize)}
}

func TestManagerJoinLeave(t *testing.T) {
	m := NewManager()
	c1 := testClient()
	c2 := testClient()

	m.Join("alice", c1)
	m.Join("alice", c2)
	assert.Equal(t, 2, m.ConnectionCount("alice"))

	// Joining the same connection twice changes nothing.
	m.Join("alice", c1)
	assert.Equal(t, 2, m.ConnectionCount("alice"))

	m.Leave("alice", c1)
	assert.Equal(t, 1, m.ConnectionCount("alice"))

	// Leaving twice, or a user that never joined, is a no-op.
	m.Leave("alice", c1)
	m.Leave("ghost", c1)
	assert.Equal(t, 1, m.ConnectionCount("alice"))

	m.Leave("alice", c2)
	assert.Equal(t, 0, m.ConnectionCount("alice"))
}

func TestPublishReachesAllConnectionsOfUserOnly(t *testing.T) {
	m := NewManager()
	alice1 := testClient()
	alice2 := testClient()
	bob := testClient()

	m.Join("alice", alice1)
	m.Join("alice", alice2)
	m.Join("bob", bob)

	m.Publish("alice", dto.Envelope{Kind: dto.KindNewMessage, Payload: map[string]any{"content": "hi"}})

	assert.Len(t, alice1.send, 1)
	assert.Len(t, alice2.send, 1)
	assert.Len(t, bob.send, 0)

	frame := <-alice1.send
	assert.Contains(t, string(frame), `"type":"new_message"`)
	assert.Contains(t, string(frame), `"content":"hi"`)

	// A departed connection receives nothing further.
	m.Leave("alice", alice1)
	m.Publish("alice", dto.Envelope{Kind: dto.KindNewMessage, Payload: map[string]any{"content": "again"}})
	assert.Len(t, alice1.send, 0)
	assert.Len(t, alice2.send, 2)
}

func TestPublishToAbsentUserIsNoop(t *testing.T) {
	m := NewManager()
	m.Publish("nobody", dto.Envelope{Kind: dto.KindNewMessage, Payload: map[string]any{}})
	assert.Equal(t, 0, m.ConnectionCount("nobody"))
}

func TestJoinDuringLastLeaveKeepsConnectionRegistered(t *testing.T) {
	m := NewManager()

	// A Join racing the Leave of a group's last member must leave the
	// joining connection registered and reachable, never stranded in a
	// group the directory has dropped.
	for i := 0; i < 10000; i++ {
		leaving := testClient()
		joining := testClient()
		m.Join("alice", leaving)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Leave("alice", leaving)
		}()
		go func() {
			defer wg.Done()
			m.Join("alice", joining)
		}()
		wg.Wait()

		if got := m.ConnectionCount("alice"); got != 1 {
			t.Fatalf("iteration %d: connection count = %d after Join returned", i, got)
		}
		m.Publish("alice", dto.Envelope{Kind: dto.KindNewMessage, Payload: map[string]any{"n": i}})
		if len(joining.send) != 1 {
			t.Fatalf("iteration %d: joined connection missed publish", i)
		}
		<-joining.send
		m.Leave("alice", joining)
	}
}

func TestManagerConcurrentChurn(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c := testClient()
				m.Join("alice", c)
				m.Publish("alice", dto.Envelope{Kind: dto.KindNewMessage, Payload: map[string]any{"n": j}})
				m.Leave("alice", c)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, m.ConnectionCount("alice"))
}
