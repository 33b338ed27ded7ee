// cmd/curvelab-server/main.go — Standalone HTTP front end for curvelab
//
// Exposes the draw pipeline for chart front ends and scripts.
//
// Usage:
//   go run cmd/curvelab-server/main.go -port 8080
//
// Draw endpoint:   POST /draw  — analysis summary as JSON
// Chart endpoint:  POST /chart — rendered figure as PNG
// Health endpoint: GET  /health
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	curvelab "github.com/curvelab/curvelab"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func decodeRequest(w http.ResponseWriter, r *http.Request) (curvelab.DrawRequest, bool) {
	var req curvelab.DrawRequest

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return req, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return req, false
	}
	// Ensure there's no trailing junk.
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func recoverPanic(endpoint string, w http.ResponseWriter) {
	if rec := recover(); rec != nil {
		log.Printf("panic in %s: %v\n%s", endpoint, rec, string(debug.Stack()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	flag.Parse()

	mux := http.NewServeMux()

	// POST /draw — run the pipeline, answer with the analysis summary
	mux.HandleFunc("/draw", func(w http.ResponseWriter, r *http.Request) {
		defer recoverPanic("/draw", w)

		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		resp := curvelab.HandleDraw(req)
		status := http.StatusOK
		if resp.Error != "" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, resp)
	})

	// POST /chart — run the pipeline, answer with the PNG figure
	mux.HandleFunc("/chart", func(w http.ResponseWriter, r *http.Request) {
		defer recoverPanic("/chart", w)

		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		// Render to a buffer first so a failed request sends a clean
		// JSON error instead of a truncated image.
		var buf bytes.Buffer
		resp := curvelab.RenderDraw(req, &buf)
		if resp.Error != "" {
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Status-Line", resp.Status)
		_, _ = w.Write(buf.Bytes())
	})

	// GET /health — liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("curvelab server listening on %s", addr)
	log.Printf("  POST /draw   — analysis summary as JSON")
	log.Printf("  POST /chart  — rendered figure as PNG")
	log.Printf("  GET  /health — health check")

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
