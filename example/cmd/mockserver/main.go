// Standalone mock target server for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/httpload --plan example/plan.yaml
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"
)

func main() {
	fmt.Println("Mock target server starting on :9999")
	fmt.Println("Paths: /ok /slow /flaky /missing")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	http.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(10+rand.Intn(50)) * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	http.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(200+rand.Intn(300)) * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	http.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(20+rand.Intn(80)) * time.Millisecond)
		if rand.Intn(5) == 0 {
			slog.Info("injecting failure", "path", r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	http.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	if err := http.ListenAndServe(":9999", nil); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
