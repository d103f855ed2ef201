package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestHubSendToUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	alice := NewClient(uuid.New())
	bob := NewClient(uuid.New())
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	hub.SendToUser(alice.UserID, map[string]string{"type": "tutor_status_changed"})

	select {
	case msg := <-alice.Send:
		if string(msg) != `{"type":"tutor_status_changed"}` {
			t.Fatalf("payload = %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("alice got nothing")
	}

	select {
	case msg := <-bob.Send:
		t.Fatalf("bob must not receive %s", msg)
	default:
	}

	hub.UnregisterClient(alice)
	if _, ok := <-alice.Send; ok {
		t.Fatal("send channel must be closed after unregister")
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("clients = %d, want 1", hub.ClientCount())
	}
}

func TestUserFromChannel(t *testing.T) {
	id := uuid.New()
	if got, ok := userFromChannel(Channel(id)); !ok || got != id {
		t.Fatalf("userFromChannel(%q) = %v, %v", Channel(id), got, ok)
	}
	for _, ch := range []string{"notifications:nope", "chat:" + id.String(), ""} {
		if _, ok := userFromChannel(ch); ok {
			t.Errorf("userFromChannel(%q) should fail", ch)
		}
	}
}

func TestHubStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zap.NewNop())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient(uuid.New())
	if !hub.RegisterClient(c) {
		t.Fatal("register on a running hub failed")
	}
	cancel()
	<-stopped

	if _, ok := <-c.Send; ok {
		t.Fatal("send channel must be closed on shutdown")
	}
	if hub.RegisterClient(NewClient(uuid.New())) {
		t.Fatal("register after shutdown must report false")
	}
	hub.UnregisterClient(c)
}
