package feed

import (
	"testing"
	"time"
)

func TestPublishDeliversToMatchingSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("user-1")
	defer sub.Close()

	hub.Publish(Event{UserID: "user-1", Kind: KindTransaction, Action: ActionCreated, ID: "tx-1"})

	select {
	case evt := <-sub.C:
		if evt.ID != "tx-1" || evt.Kind != KindTransaction {
			t.Errorf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishSkipsOtherUsers(t *testing.T) {
	hub := NewHub()
	mine := hub.Subscribe("user-1")
	defer mine.Close()
	theirs := hub.Subscribe("user-2")
	defer theirs.Close()

	hub.Publish(Event{UserID: "user-1", Kind: KindAccount, Action: ActionCreated, ID: "acct-1"})

	select {
	case <-theirs.C:
		t.Fatal("subscriber for another user received the event")
	default:
	}

	select {
	case <-mine.C:
	default:
		t.Fatal("matching subscriber did not receive the event")
	}
}

func TestPublishNeverBlocksOnFullBuffer(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("user-1")
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(Event{UserID: "user-1", Kind: KindTransaction, Action: ActionCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestCloseUnregisters(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("user-1")
	sub.Close()
	sub.Close() // double close is safe

	hub.Publish(Event{UserID: "user-1", Kind: KindAccount, Action: ActionUpdated})

	if _, ok := <-sub.C; ok {
		t.Error("expected closed channel after Close")
	}
}
