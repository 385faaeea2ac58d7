package consultation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStorePutGetDelete(t *testing.T) {
	st := NewStore(time.Hour)
	s := newTestSession(&fakeAssist{})

	st.Put(s)
	if st.Len() != 1 {
		t.Fatalf("Expected 1 session, got %d", st.Len())
	}

	got, err := st.Get(s.ID())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	if _, err := st.Get(uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	st.Delete(s.ID())
	if st.Len() != 0 {
		t.Error("Expected empty store after delete")
	}
}

func TestStoreSweepRemovesIdleSessions(t *testing.T) {
	st := NewStore(30 * time.Minute)

	now := time.Now()
	st.clock = func() time.Time { return now }

	idle := newTestSession(&fakeAssist{})
	active := newTestSession(&fakeAssist{})
	st.Put(idle)
	st.Put(active)

	// Only the active session gets touched past the idle point
	now = now.Add(20 * time.Minute)
	if _, err := st.Get(active.ID()); err != nil {
		t.Fatal(err)
	}

	now = now.Add(15 * time.Minute)
	removed := st.Sweep()

	if removed != 1 {
		t.Fatalf("Expected 1 session swept, got %d", removed)
	}
	if _, err := st.Get(idle.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected idle session gone")
	}
	if _, err := st.Get(active.ID()); err != nil {
		t.Error("Expected recently touched session kept")
	}
}

func TestStoreGetRefreshesIdleTimer(t *testing.T) {
	st := NewStore(10 * time.Minute)

	now := time.Now()
	st.clock = func() time.Time { return now }

	s := newTestSession(&fakeAssist{})
	st.Put(s)

	for i := 0; i < 3; i++ {
		now = now.Add(8 * time.Minute)
		if _, err := st.Get(s.ID()); err != nil {
			t.Fatalf("Get after touch %d failed: %v", i, err)
		}
		if removed := st.Sweep(); removed != 0 {
			t.Fatalf("Sweep removed a session that was just touched")
		}
	}
}
