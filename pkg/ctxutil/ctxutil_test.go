package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestUserID_RoundTrip(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctx := WithUserID(context.Background(), id)

	got, ok := UserIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected user ID to be present")
	}
	if got != id {
		t.Errorf("got %s, want %s", got, id)
	}
}

func TestUserID_Missing(t *testing.T) {
	t.Parallel()

	if _, ok := UserIDFromCtx(context.Background()); ok {
		t.Error("empty context should report missing user ID")
	}
}

func TestUserID_NilUUID(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), uuid.Nil)
	if _, ok := UserIDFromCtx(ctx); ok {
		t.Error("nil UUID should report missing user ID")
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Errorf("got %q, want %q", got, "req-123")
	}
	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Errorf("missing request ID should be empty, got %q", got)
	}
}

func TestSource_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithSource(context.Background(), "mobile")
	if got := SourceFromCtx(ctx); got != "mobile" {
		t.Errorf("got %q, want %q", got, "mobile")
	}
	if got := SourceFromCtx(context.Background()); got != "" {
		t.Errorf("missing source should be empty, got %q", got)
	}
}

func TestClientInfo_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithClientInfo(context.Background(), "192.0.2.1", "Mozilla/5.0")
	ip, ua := ClientInfoFromCtx(ctx)
	if ip != "192.0.2.1" {
		t.Errorf("ip: got %q, want %q", ip, "192.0.2.1")
	}
	if ua != "Mozilla/5.0" {
		t.Errorf("user agent: got %q, want %q", ua, "Mozilla/5.0")
	}

	ip, ua = ClientInfoFromCtx(context.Background())
	if ip != "" || ua != "" {
		t.Errorf("missing client info should be empty, got %q/%q", ip, ua)
	}
}
