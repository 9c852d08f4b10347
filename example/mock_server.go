package main

import (
	"log/slog"
	"math/rand"
	"net/http"
	"time"
)

// StartMockTargetServer runs a mock target with a few behaviours to load test:
//
//	/ok       200 after 10-60ms
//	/slow     200 after 200-500ms
//	/flaky    500 one time in five, otherwise 200
//	/missing  404
//
// Call this in a goroutine before running the load test.
func StartMockTargetServer(addr string) {
	mux := http.NewServeMux()

	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(10+rand.Intn(50)) * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(200+rand.Intn(300)) * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(20+rand.Intn(80)) * time.Millisecond)
		if rand.Intn(5) == 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
