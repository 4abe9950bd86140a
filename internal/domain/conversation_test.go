package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationID_OrderIndependent(t *testing.T) {
	assert.Equal(t, ConversationID("alice", "bob"), ConversationID("bob", "alice"))
	assert.Equal(t, "alice:bob", ConversationID("bob", "alice"))
}

func TestConversation_Other(t *testing.T) {
	c := &Conversation{UserA: "alice", UserB: "bob"}
	assert.Equal(t, "bob", c.Other("alice"))
	assert.Equal(t, "alice", c.Other("bob"))
}

func TestSortedPair(t *testing.T) {
	a, b := SortedPair("zoe", "amy")
	assert.Equal(t, "amy", a)
	assert.Equal(t, "zoe", b)

	a, b = SortedPair("amy", "zoe")
	assert.Equal(t, "amy", a)
	assert.Equal(t, "zoe", b)
}
