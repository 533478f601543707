package assistantws

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case payload, ok := <-client.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var message Message
		if err := json.Unmarshal(payload, &message); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		return message
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestPublishReachesEveryConnectionOfTheSameAccount(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	phone := NewClient(hub, nil, "postgres:u-1")
	laptop := NewClient(hub, nil, "postgres:u-1")
	other := NewClient(hub, nil, "mongo:u-1")
	hub.Register(phone)
	hub.Register(laptop)
	hub.Register(other)

	hub.Publish("postgres:u-1", Message{Type: "reply", Content: "Hi Sara!"})

	if got := receive(t, phone); got.Content != "Hi Sara!" {
		t.Fatalf("unexpected phone message: %+v", got)
	}
	if got := receive(t, laptop); got.Type != "reply" {
		t.Fatalf("unexpected laptop message: %+v", got)
	}

	select {
	case payload := <-other.send:
		t.Fatalf("other account received %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	client := NewClient(hub, nil, "mongo:u-2")
	hub.Register(client)
	hub.Unregister(client)

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestWriteErrorGoesOnlyToOneClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	first := NewClient(hub, nil, "postgres:u-3")
	second := NewClient(hub, nil, "postgres:u-3")
	hub.Register(first)
	hub.Register(second)

	first.writeError("unsupported message type")
	if got := receive(t, first); got.Type != "error" || got.Content != "unsupported message type" {
		t.Fatalf("unexpected error message: %+v", got)
	}
	select {
	case payload := <-second.send:
		t.Fatalf("second client received %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStopReleasesClientsAndIsIdempotent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()

	client := NewClient(hub, nil, "postgres:u-4")
	hub.Register(client)
	hub.Stop()
	hub.Stop()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
	if _, ok := <-client.send; ok {
		t.Fatal("expected send channel to be closed")
	}

	// Calls after Stop must not block.
	hub.Publish("postgres:u-4", Message{Type: "reply"})
	hub.Unregister(client)
	late := NewClient(hub, nil, "postgres:u-5")
	hub.Register(late)
	if _, ok := <-late.send; ok {
		t.Fatal("late client should be closed immediately")
	}
}

func done(t *testing.T, client *Client) {
	t.Helper()
	select {
	case <-client.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("client context was not cancelled")
	}
}

func TestLeavingClientCancelsItsContext(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	leaving := NewClient(hub, nil, "postgres:u-6")
	staying := NewClient(hub, nil, "postgres:u-6")
	hub.Register(leaving)
	hub.Register(staying)
	hub.Unregister(leaving)

	done(t, leaving)
	if staying.ctx.Err() != nil {
		t.Fatal("remaining client should keep its context")
	}

	hub.Stop()
	done(t, staying)
}
