package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"testing"
	"time"
)

// TestClient_ConnectionReuse verifies that sequential probes against the same
// host reuse the pooled connection.
func TestClient_ConnectionReuse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Concurrency: 1})
	defer client.Close()

	var reusedCount int
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Reused {
				reusedCount++
			}
		},
	}

	const numRequests = 5

	for i := 0; i < numRequests; i++ {
		ctx := httptrace.WithClientTrace(context.Background(), trace)
		resp := client.Fetch(ctx, server.URL)
		if resp.Error != nil {
			t.Fatalf("request %d failed: %v", i, resp.Error)
		}
	}

	expectedMinReuse := numRequests - 2 // allow some tolerance
	if reusedCount < expectedMinReuse {
		t.Errorf("expected at least %d reused connections, got %d out of %d requests",
			expectedMinReuse, reusedCount, numRequests)
	}
}

func TestClient_Fetch_StatusCodes(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantSuccess bool
	}{
		{name: "200 ok", status: http.StatusOK, wantSuccess: true},
		{name: "204 no content", status: http.StatusNoContent, wantSuccess: true},
		{name: "301 redirect without location", status: http.StatusMovedPermanently, wantSuccess: false},
		{name: "404 not found", status: http.StatusNotFound, wantSuccess: false},
		{name: "500 server error", status: http.StatusInternalServerError, wantSuccess: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(ClientConfig{Concurrency: 1})
			defer client.Close()

			resp := client.Fetch(context.Background(), server.URL)
			if resp.Error != nil {
				t.Fatalf("Fetch() Error = %v, want nil", resp.Error)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := Classify(resp); got != tt.wantSuccess {
				t.Errorf("Classify() = %v, want %v", got, tt.wantSuccess)
			}
		})
	}
}

func TestClient_Fetch_ConnectionRefused(t *testing.T) {
	// grab a free port and close it so nothing is listening
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	client := NewClient(ClientConfig{Concurrency: 1, Timeout: 2 * time.Second})
	defer client.Close()

	resp := client.Fetch(context.Background(), "http://"+addr)
	if resp.Error == nil {
		t.Fatal("Fetch() Error = nil, want connection error")
	}
	if resp.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", resp.StatusCode)
	}
	if Classify(resp) {
		t.Error("Classify() = true, want false for connection failure")
	}
}

func TestClient_Fetch_InvalidURL(t *testing.T) {
	client := NewClient(ClientConfig{})

	resp := client.Fetch(context.Background(), "://missing-scheme")
	if resp.Error == nil {
		t.Fatal("Fetch() Error = nil, want request creation error")
	}
	if Classify(resp) {
		t.Error("Classify() = true, want false")
	}
}

func TestClient_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(ClientConfig{Concurrency: 1, Timeout: 50 * time.Millisecond})
	defer client.Close()

	start := time.Now()
	resp := client.Fetch(context.Background(), server.URL)
	if resp.Error == nil {
		t.Fatal("Fetch() Error = nil, want timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Fetch() took %v, want it bounded by the 50ms timeout", elapsed)
	}
}

func TestClient_Fetch_SendsHeaders(t *testing.T) {
	got := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("X-Load-Test")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	headers := map[string]string{"X-Load-Test": "httpload"}
	client := NewClient(ClientConfig{Headers: headers})
	defer client.Close()

	// mutating the caller's map must not affect the client
	headers["X-Load-Test"] = "changed"

	resp := client.Fetch(context.Background(), server.URL)
	if resp.Error != nil {
		t.Fatalf("Fetch() Error = %v", resp.Error)
	}
	if h := <-got; h != "httpload" {
		t.Errorf("X-Load-Test = %q, want %q", h, "httpload")
	}
}

// TestClient_Close verifies that Close() is safe to call and idempotent.
func TestClient_Close(t *testing.T) {
	client := NewClient(ClientConfig{})

	client.Close()
	client.Close()
}

// TestClient_Close_NilClient verifies that Close() handles nil receiver safely.
func TestClient_Close_NilClient(t *testing.T) {
	var client *Client

	client.Close()
}
