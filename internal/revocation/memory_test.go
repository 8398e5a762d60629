package revocation

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_AddAndCheck(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(nil)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "h1")
	if err != nil || revoked {
		t.Fatalf("fresh store: revoked=%v err=%v", revoked, err)
	}

	if err := s.Add(ctx, "h1", time.Hour); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	revoked, err = s.IsRevoked(ctx, "h1")
	if err != nil || !revoked {
		t.Fatalf("after Add: revoked=%v err=%v", revoked, err)
	}

	// Other hashes are unaffected.
	revoked, err = s.IsRevoked(ctx, "h2")
	if err != nil || revoked {
		t.Fatalf("other hash: revoked=%v err=%v", revoked, err)
	}
}

func TestMemoryStore_RecordExpires(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000000)
	clock := func() time.Time { return now }
	s := NewMemoryStore(clock)
	ctx := context.Background()

	if err := s.Add(ctx, "h1", time.Minute); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	now = now.Add(59 * time.Second)
	if revoked, _ := s.IsRevoked(ctx, "h1"); !revoked {
		t.Fatal("record should still be live before its ttl")
	}

	now = now.Add(time.Second)
	if revoked, _ := s.IsRevoked(ctx, "h1"); revoked {
		t.Fatal("record should have expired with its token")
	}
}

func TestMemoryStore_NonPositiveTTLIsNoop(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore(nil)
	ctx := context.Background()

	if err := s.Add(ctx, "h1", 0); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := s.Add(ctx, "h2", -time.Minute); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	for _, h := range []string{"h1", "h2"} {
		if revoked, _ := s.IsRevoked(ctx, h); revoked {
			t.Fatalf("hash %q: expired token must not leave a record", h)
		}
	}
}
