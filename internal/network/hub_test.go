package network

import (
	"testing"

	"scene-server/pkg/api"
)

func TestBroadcaster_RegisterAndSend(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("1")

	if !b.HasSubscriber("1") || b.SubscriberCount() != 1 {
		t.Fatal("subscriber must be registered")
	}
	if !b.SendTo("1", api.ServerMessage{Type: api.MsgWelcome}) {
		t.Fatal("SendTo must deliver to a registered subscriber")
	}
	if msg := <-ch; msg.Type != api.MsgWelcome {
		t.Errorf("unexpected message %+v", msg)
	}
	if b.SendTo("2", api.ServerMessage{}) {
		t.Error("SendTo to unknown key must report false")
	}
}

func TestBroadcaster_ReRegisterClosesOld(t *testing.T) {
	b := NewBroadcaster()
	old := b.Register("1")
	b.Register("1")

	if _, ok := <-old; ok {
		t.Error("old channel must be closed")
	}
	if b.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", b.SubscriberCount())
	}

	b.Unregister("1")
	b.Unregister("1")
	if b.HasSubscriber("1") {
		t.Error("subscriber must be removed")
	}
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("slow")
	b.Register("fast")

	for i := 0; i < cap(ch)+5; i++ {
		b.Broadcast(api.ServerMessage{Type: api.MsgEvent})
	}
	if len(ch) != cap(ch) {
		t.Errorf("channel must be full, len=%d", len(ch))
	}
	// 5 лишних на каждого из двух подписчиков
	if b.Dropped() != 10 {
		t.Errorf("expected 10 dropped, got %d", b.Dropped())
	}
}
