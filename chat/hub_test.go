package chat

import (
	"encoding/json"
	"testing"
	"time"

	"worknest/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send: make(chan []byte, 10),
		Room: "room1",
	}

	// register client
	hub.register <- client

	// broadcast a test message
	msg := outboundPayload{Action: "chat", Content: "hello test"}
	data, _ := json.Marshal(msg)
	hub.broadcast <- broadcastMsg{Room: "room1", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	// unregister client
	hub.unregister <- client
}

func TestHubBroadcastIsRoomScoped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	inRoom := &Client{Send: make(chan []byte, 10), Room: "room1"}
	elsewhere := &Client{Send: make(chan []byte, 10), Room: "room2"}
	hub.register <- inRoom
	hub.register <- elsewhere

	hub.broadcast <- broadcastMsg{Room: "room1", Data: []byte("hi")}

	select {
	case <-inRoom.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message in room1")
	}

	select {
	case got := <-elsewhere.Send:
		t.Fatalf("room2 client should not receive room1 traffic, got %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}

// A slow client is dropped (and its Send closed) by the broadcast
// overflow path; its readPump still fires an unregister afterwards. The
// hub must tolerate that second removal instead of closing Send twice
// and panicking.
func TestHubUnregisterAfterOverflowDrop(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	slow := &Client{Send: make(chan []byte), Room: "room1"} // unbuffered, never read
	hub.register <- slow

	// overflow path closes slow.Send and drops the client
	hub.broadcast <- broadcastMsg{Room: "room1", Data: []byte("one")}

	// the disconnect path still reports the client
	hub.unregister <- slow

	// hub loop must still be alive and serving other clients
	alive := &Client{Send: make(chan []byte, 10), Room: "room1"}
	hub.register <- alive
	hub.broadcast <- broadcastMsg{Room: "room1", Data: []byte("two")}

	select {
	case got := <-alive.Send:
		if string(got) != "two" {
			t.Fatalf("expected %q, got %q", "two", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("hub loop stopped responding after duplicate removal")
	}
}

// History replay buffers into Send before the client is registered, so a
// disconnect racing the replay can only close Send afterwards. Verify the
// buffered frames survive registration and an immediate unregister, and
// that replay frames come out oldest first.
func TestHistoryReplayBuffersBeforeRegistration(t *testing.T) {
	history := []models.Message{
		{MessageID: "m3", Room: "room1", SenderID: "u1", Content: "third", Timestamp: 3},
		{MessageID: "m2", Room: "room1", SenderID: "u2", Content: "second", Timestamp: 2},
		{MessageID: "m1", Room: "room1", SenderID: "u1", Content: "first", Timestamp: 1},
	}

	payloads := historyPayloads(history)
	if len(payloads) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(payloads))
	}

	client := &Client{Send: make(chan []byte, 256), Room: "room1"}
	for _, data := range payloads {
		client.Send <- data
	}

	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	hub.register <- client
	hub.unregister <- client // peer dropped right after the replay

	var first outboundPayload
	if err := json.Unmarshal(<-client.Send, &first); err != nil {
		t.Fatalf("bad frame: %v", err)
	}
	if first.ID != "m1" || first.Content != "first" {
		t.Fatalf("replay must be oldest first, got %+v", first)
	}

	// closed by unregister once drained
	<-client.Send
	<-client.Send
	if _, ok := <-client.Send; ok {
		t.Fatal("Send should be closed after unregister")
	}
}

func TestRoomIDIsOrderIndependent(t *testing.T) {
	if roomID("u1", "u2") != roomID("u2", "u1") {
		t.Fatal("room id must not depend on participant order")
	}
}
