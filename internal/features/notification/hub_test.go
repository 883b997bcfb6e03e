package notification

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// overlapConn fails the test if two writes ever run at the same time.
type overlapConn struct {
	writing int32
	writes  int32
	overlap int32
}

func (c *overlapConn) WriteMessage(messageType int, data []byte) error {
	if atomic.AddInt32(&c.writing, 1) > 1 {
		atomic.StoreInt32(&c.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.writing, -1)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func TestPublishSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub()
	userID := primitive.NewObjectID()
	conn := &overlapConn{}
	hub.Register(userID.Hex(), conn)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish(&Notification{UserID: userID, Title: "ping"})
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&conn.overlap) != 0 {
		t.Fatal("concurrent WriteMessage calls on the same connection")
	}
	if got := atomic.LoadInt32(&conn.writes); got != 16 {
		t.Errorf("writes = %d, want 16", got)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	userID := primitive.NewObjectID()
	first := &overlapConn{}
	second := &overlapConn{}
	hub.Register(userID.Hex(), first)
	hub.Register(userID.Hex(), second)

	hub.Unregister(userID.Hex(), first)
	hub.Publish(&Notification{UserID: userID, Title: "ping"})

	if got := atomic.LoadInt32(&first.writes); got != 0 {
		t.Errorf("unregistered connection received %d writes", got)
	}
	if got := atomic.LoadInt32(&second.writes); got != 1 {
		t.Errorf("remaining connection writes = %d, want 1", got)
	}
}

func TestPublishToUnknownUserIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Publish(&Notification{UserID: primitive.NewObjectID(), Title: "ping"})
}
