package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlehub/circlehub-backend/pkg/logger"
)

func init() {
	logger.Init("test")
}

type presenceCall struct {
	userID string
	online bool
}

type fakePresence struct {
	mu    sync.Mutex
	calls []presenceCall
}

func (f *fakePresence) SetPresence(id string, online bool, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, presenceCall{userID: id, online: online})
	return nil
}

func (f *fakePresence) last() (presenceCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return presenceCall{}, false
	}
	return f.calls[len(f.calls)-1], true
}

func newTestHub(t *testing.T, presence PresenceStore) *Hub {
	t.Helper()
	hub := NewHub(presence, nil)
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func newTestClient(userID string) *Client {
	return &Client{
		send:        make(chan []byte, 16),
		done:        make(chan struct{}),
		userID:      userID,
		displayName: userID,
	}
}

func recvEvent(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var evt Event
		require.NoError(t, json.Unmarshal(data, &evt))
		return &evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func waitRegistered(t *testing.T, hub *Hub, c *Client) {
	t.Helper()
	require.Eventually(t, func() bool {
		got, ok := hub.Lookup(c.userID)
		return ok && got == c
	}, time.Second, 5*time.Millisecond)
}

func TestHub_RegisterMakesClientReachable(t *testing.T) {
	presence := &fakePresence{}
	hub := newTestHub(t, presence)

	client := newTestClient("u1")
	hub.Register(client)
	waitRegistered(t, hub, client)

	call, ok := presence.last()
	require.True(t, ok)
	assert.Equal(t, "u1", call.userID)
	assert.True(t, call.online)
}

func TestHub_RegisterReplacesPriorConnection(t *testing.T) {
	hub := newTestHub(t, nil)

	first := newTestClient("u1")
	hub.Register(first)
	waitRegistered(t, hub, first)

	second := newTestClient("u1")
	hub.Register(second)
	waitRegistered(t, hub, second)

	// The replaced connection is signalled to shut down so its write pump
	// exits.
	select {
	case <-first.done:
	case <-time.After(time.Second):
		t.Fatal("prior connection was not shut down")
	}
}

func TestHub_StaleSendAfterReplacement(t *testing.T) {
	hub := newTestHub(t, nil)

	first := newTestClient("u1")
	hub.Register(first)
	waitRegistered(t, hub, first)

	second := newTestClient("u1")
	hub.Register(second)
	waitRegistered(t, hub, second)

	select {
	case <-first.done:
	case <-time.After(time.Second):
		t.Fatal("prior connection was not shut down")
	}

	// The replaced connection's read loop may still be mid-handler and
	// reply after the hub swapped it out. That reply must be a no-op.
	assert.NotPanics(t, func() {
		first.Send(EvGroupHistory, map[string]interface{}{"group_id": "g1"})
	})

	hub.SendToUser("u1", EvPrivateMessage, nil)
	assert.Equal(t, EvPrivateMessage, recvEvent(t, second).Type)
}

func TestHub_LateUnregisterOfReplacedClientIgnored(t *testing.T) {
	presence := &fakePresence{}
	hub := newTestHub(t, presence)

	first := newTestClient("u1")
	hub.Register(first)
	waitRegistered(t, hub, first)

	second := newTestClient("u1")
	hub.Register(second)
	waitRegistered(t, hub, second)

	// The first connection disconnects after being replaced. The second
	// one stays on record and the user never goes offline.
	hub.Unregister(first)

	hub.SendToUser("u1", "ping", nil)
	evt := recvEvent(t, second)
	assert.Equal(t, "ping", evt.Type)

	got, ok := hub.Lookup("u1")
	require.True(t, ok)
	assert.Equal(t, second, got)

	call, _ := presence.last()
	assert.True(t, call.online)
}

func TestHub_UnregisterRemovesClient(t *testing.T) {
	presence := &fakePresence{}
	hub := newTestHub(t, presence)

	client := newTestClient("u1")
	hub.Register(client)
	waitRegistered(t, hub, client)

	hub.Unregister(client)
	require.Eventually(t, func() bool {
		_, ok := hub.Lookup("u1")
		return !ok
	}, time.Second, 5*time.Millisecond)

	call, ok := presence.last()
	require.True(t, ok)
	assert.False(t, call.online)
}

func TestHub_SendToUserReachesOnlyTarget(t *testing.T) {
	hub := newTestHub(t, nil)

	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	waitRegistered(t, hub, alice)
	hub.Register(bob)
	waitRegistered(t, hub, bob)

	// Alice sees Bob come online before anything else.
	require.Equal(t, EvUserStatus, recvEvent(t, alice).Type)

	hub.SendToUser("bob", EvPrivateMessage, map[string]string{"body": "hi"})

	evt := recvEvent(t, bob)
	assert.Equal(t, EvPrivateMessage, evt.Type)
	payload, ok := evt.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hi", payload["body"])

	select {
	case <-alice.send:
		t.Fatal("event leaked to a non-target connection")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SendToUsersSkipsOffline(t *testing.T) {
	hub := newTestHub(t, nil)

	alice := newTestClient("alice")
	hub.Register(alice)
	waitRegistered(t, hub, alice)

	// "ghost" has no live connection; the miss is silent.
	hub.SendToUsers([]string{"alice", "ghost"}, EvGroupJoined, nil)

	evt := recvEvent(t, alice)
	assert.Equal(t, EvGroupJoined, evt.Type)
}

func TestHub_BroadcastReachesEveryone(t *testing.T) {
	hub := newTestHub(t, nil)

	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	waitRegistered(t, hub, alice)
	hub.Register(bob)
	waitRegistered(t, hub, bob)

	// Alice sees Bob come online before anything else.
	require.Equal(t, EvUserStatus, recvEvent(t, alice).Type)

	hub.Broadcast(EvUserStatus, PresencePayload{UserID: "carol", Online: true})

	for _, c := range []*Client{alice, bob} {
		evt := recvEvent(t, c)
		assert.Equal(t, EvUserStatus, evt.Type)
	}
}

func TestHub_PresenceAnnouncedToOthersOnly(t *testing.T) {
	hub := newTestHub(t, nil)

	alice := newTestClient("alice")
	hub.Register(alice)
	waitRegistered(t, hub, alice)

	bob := newTestClient("bob")
	hub.Register(bob)
	waitRegistered(t, hub, bob)

	evt := recvEvent(t, alice)
	assert.Equal(t, EvUserStatus, evt.Type)
	payload, ok := evt.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "bob", payload["user_id"])
	assert.Equal(t, true, payload["online"])

	select {
	case <-bob.send:
		t.Fatal("user received their own presence announcement")
	case <-time.After(50 * time.Millisecond):
	}
}
