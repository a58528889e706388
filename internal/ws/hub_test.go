package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipfinity/internal/models"
)

func TestHubBroadcastTip(t *testing.T) {
	hub := NewHub()

	alice := &Client{CreatorID: 1, Send: make(chan []byte, 1)}
	aliceToo := &Client{CreatorID: 1, Send: make(chan []byte, 1)}
	bob := &Client{CreatorID: 2, Send: make(chan []byte, 1)}
	hub.Register(alice)
	hub.Register(aliceToo)
	hub.Register(bob)

	assert.Equal(t, 2, hub.ClientCount(1))
	assert.Equal(t, 1, hub.ClientCount(2))

	hub.BroadcastTip(&models.Tip{ID: 7, CreatorID: 1, SenderWallet: "W1", Amount: 3.5, Signature: "sig-1"})

	for _, c := range []*Client{alice, aliceToo} {
		select {
		case raw := <-c.Send:
			var msg struct {
				Type string     `json:"type"`
				Tip  models.Tip `json:"tip"`
			}
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, "tip", msg.Type)
			assert.EqualValues(t, 7, msg.Tip.ID)
		default:
			t.Fatal("expected a broadcast message")
		}
	}

	select {
	case <-bob.Send:
		t.Fatal("bob must not receive alice's tips")
	default:
	}
}

func TestHubSkipsSlowClients(t *testing.T) {
	hub := NewHub()
	slow := &Client{CreatorID: 1, Send: make(chan []byte, 1)}
	hub.Register(slow)

	tip := &models.Tip{ID: 1, CreatorID: 1, Signature: "sig-1"}
	hub.BroadcastTip(tip) // fills the buffer
	hub.BroadcastTip(tip) // must not block
	assert.Len(t, slow.Send, 1)
}

func TestHubUnregisterOnClose(t *testing.T) {
	hub := NewHub()
	c := &Client{CreatorID: 1, Send: make(chan []byte, 1)}
	hub.Register(c)
	require.Equal(t, 1, hub.ClientCount(1))

	c.Close()
	assert.Equal(t, 0, hub.ClientCount(1))

	// closing twice is harmless
	c.Close()
	hub.BroadcastTip(&models.Tip{ID: 2, CreatorID: 1, Signature: "sig-2"})
}

// A broadcast racing a disconnect must never panic on the closed Send channel.
func TestHubBroadcastDuringDisconnect(t *testing.T) {
	hub := NewHub()
	tip := &models.Tip{ID: 3, CreatorID: 1, Signature: "sig-3"}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					hub.BroadcastTip(tip)
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		c := &Client{CreatorID: 1, Send: make(chan []byte, 1)}
		hub.Register(c)
		c.Close()
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount(1))
}
