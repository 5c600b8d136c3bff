package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Window(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("request %d blocked inside budget", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("request over budget allowed")
	}
	// Other keys are independent.
	if !l.Allow("other") {
		t.Error("unrelated key blocked")
	}

	l.Reset("k")
	if !l.Allow("k") {
		t.Error("blocked after reset")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/login/request", nil)
	r.RemoteAddr = "10.0.0.9:4312"
	if got := ClientIP(r); got != "10.0.0.9" {
		t.Errorf("ClientIP = %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Errorf("ClientIP with XFF = %q", got)
	}
}

func TestSignInLimiter_FoldsEmail(t *testing.T) {
	sl := &SignInLimiter{
		ip:    New(100, time.Minute),
		email: New(2, time.Minute),
	}
	r := httptest.NewRequest("POST", "/login/request", nil)

	for i := 0; i < 2; i++ {
		if ok, _ := sl.Check(r, "Casey@Example.com"); !ok {
			t.Fatalf("request %d blocked inside budget", i+1)
		}
	}
	// Same address modulo case shares the window.
	ok, reason := sl.Check(r, "casey@example.com")
	if ok || reason == "" {
		t.Errorf("Check = (%v, %q), want blocked with reason", ok, reason)
	}

	sl.ResetEmail("CASEY@example.com")
	if ok, _ := sl.Check(r, "casey@example.com"); !ok {
		t.Error("blocked after ResetEmail")
	}
}
