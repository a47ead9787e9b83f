package security

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", time.Minute)
	token, err := issuer.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if err := issuer.Verify(token); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", time.Minute)
	valid, _ := issuer.Token()

	expired := NewTokenIssuer("s3cret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _ := expired.Token()

	other, _ := NewTokenIssuer("different", time.Minute).Token()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "wrong secret", token: other},
		{name: "expired", token: old},
		{name: "tampered", token: valid[:len(valid)-2] + "xx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := issuer.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, false)
	defer rl.Stop()

	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request within the window should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other clients have their own bucket")
	}

	current = current.Add(30 * time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Error("one token should refill after half the window")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("only one token refills after half the window")
	}

	current = current.Add(time.Minute)
	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Error("bucket should refill after the window")
	}

	current = current.Add(3 * time.Minute)
	rl.prune()
	if len(rl.visitors) != 0 {
		t.Errorf("expected stale visitors to be pruned, got %d", len(rl.visitors))
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remote     string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "forwarded chain behind proxy", headers: map[string]string{"X-Forwarded-For": "1.1.1.1, 10.0.0.2"}, remote: "10.0.0.1:5555", trustProxy: true, want: "1.1.1.1"},
		{name: "real ip behind proxy", headers: map[string]string{"X-Real-IP": "2.2.2.2"}, remote: "10.0.0.1:5555", trustProxy: true, want: "2.2.2.2"},
		{name: "empty forwarded falls back to real ip", headers: map[string]string{"X-Forwarded-For": " ", "X-Real-IP": "2.2.2.2"}, remote: "10.0.0.1:5555", trustProxy: true, want: "2.2.2.2"},
		{name: "spoofed forwarded ignored", headers: map[string]string{"X-Forwarded-For": "1.1.1.1"}, remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "spoofed real ip ignored", headers: map[string]string{"X-Real-IP": "2.2.2.2"}, remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "no port", remote: "pipe", want: "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", strings.NewReader(""))
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "1.1.1.1")

	direct := NewRateLimiter(1, time.Minute, false)
	defer direct.Stop()
	if got := direct.ClientIP(r); got != "10.0.0.1" {
		t.Errorf("ClientIP() = %q, want 10.0.0.1", got)
	}

	proxied := NewRateLimiter(1, time.Minute, true)
	defer proxied.Stop()
	if got := proxied.ClientIP(r); got != "1.1.1.1" {
		t.Errorf("ClientIP() = %q, want 1.1.1.1", got)
	}
}
