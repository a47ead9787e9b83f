package progress

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fixedToken string

func (f fixedToken) Token() (string, error) { return string(f), nil }

func TestRemoteClient(t *testing.T) {
	var stored []byte
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/data" {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		switch r.Method {
		case http.MethodGet:
			if stored == nil {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			w.Write(stored)
		case http.MethodPost:
			if r.Header.Get("Content-Type") != "text/csv" {
				http.Error(w, "bad type", http.StatusUnsupportedMediaType)
				return
			}
			stored, _ = io.ReadAll(r.Body)
			w.Write([]byte(`{"success":true}`))
		}
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL+"/", time.Second, fixedToken("abc"))
	ctx := context.Background()

	if _, err := c.Fetch(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Fetch() before push error = %v, want ErrNotFound", err)
	}
	if auth != "Bearer abc" {
		t.Errorf("Authorization = %q", auth)
	}

	if err := c.Push(ctx, []byte("a,b\n")); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	got, err := c.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got) != "a,b\n" {
		t.Errorf("Fetch() = %q", got)
	}
}

func TestRemoteClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewRemoteClient(srv.URL, time.Second, nil)
	if _, err := c.Fetch(context.Background()); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch() error = %v, want server error", err)
	}
	if err := c.Push(context.Background(), nil); err == nil {
		t.Error("Push() expected error")
	}

	unreachable := NewRemoteClient("http://127.0.0.1:1", 200*time.Millisecond, nil)
	if err := unreachable.Push(context.Background(), nil); err == nil {
		t.Error("Push() to closed port expected error")
	}
}
