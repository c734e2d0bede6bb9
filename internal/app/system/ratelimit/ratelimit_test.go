package ratelimit_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/coachhub/internal/app/system/ratelimit"
)

func TestAllowWithinLimit(t *testing.T) {
	l := ratelimit.New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("request %d blocked inside the limit", i+1)
		}
	}
	if l.Allow("key") {
		t.Fatal("request over the limit was allowed")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := ratelimit.New(1, time.Minute)

	if !l.Allow("a") {
		t.Fatal("first event for key a blocked")
	}
	if !l.Allow("b") {
		t.Fatal("key b affected by key a's window")
	}
	if l.Allow("a") {
		t.Fatal("second event for key a allowed")
	}
}

func TestWindowExpiry(t *testing.T) {
	l := ratelimit.New(1, 30*time.Millisecond)

	if !l.Allow("key") {
		t.Fatal("first event blocked")
	}
	if l.Allow("key") {
		t.Fatal("second event allowed inside the window")
	}

	time.Sleep(50 * time.Millisecond)
	if !l.Allow("key") {
		t.Fatal("event blocked after the window expired")
	}
}

func TestRemainingAndReset(t *testing.T) {
	l := ratelimit.New(5, time.Minute)

	if got := l.Remaining("key"); got != 5 {
		t.Fatalf("Remaining before any events = %d, want 5", got)
	}
	l.Allow("key")
	l.Allow("key")
	if got := l.Remaining("key"); got != 3 {
		t.Fatalf("Remaining after two events = %d, want 3", got)
	}

	l.Reset("key")
	if got := l.Remaining("key"); got != 5 {
		t.Fatalf("Remaining after reset = %d, want 5", got)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:52000"
	if got := ratelimit.ClientIP(r); got != "10.0.0.1" {
		t.Errorf("RemoteAddr: got %q, want 10.0.0.1", got)
	}

	r.Header.Set("X-Real-IP", "203.0.113.9")
	if got := ratelimit.ClientIP(r); got != "203.0.113.9" {
		t.Errorf("X-Real-IP: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	if got := ratelimit.ClientIP(r); got != "198.51.100.7" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}
