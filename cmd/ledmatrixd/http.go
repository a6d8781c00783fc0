package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/fkcurrie/smartled-matrix/internal/display"
)

type status struct {
	Connected   bool   `json:"connected"`
	Frames      int    `json:"frames"`
	Dropped     int    `json:"dropped"`
	Flushes     int    `json:"flushes"`
	FlushErrors int    `json:"flush_errors"`
	LastError   string `json:"last_error,omitempty"`
}

type feedState interface {
	Connected() bool
}

// newMux serves the health check, renderer status and a plain HTTP way to
// push frames. client may be nil when no feed is configured.
func newMux(r *display.Renderer, client feedState, width, height int) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, req *http.Request) {
		st := r.Stats()
		out := status{
			Frames:      st.Frames,
			Dropped:     st.Dropped,
			Flushes:     st.Flushes,
			FlushErrors: st.FlushErrors,
		}
		if client != nil {
			out.Connected = client.Connected()
		}
		if st.LastError != nil {
			out.LastError = st.LastError.Error()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	})

	mux.HandleFunc("POST /frame", func(w http.ResponseWriter, req *http.Request) {
		data, err := io.ReadAll(io.LimitReader(req.Body, int64(width*height*3)+1))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f, err := display.FrameFromRGB(width, height, data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		r.Submit(f)
		w.WriteHeader(http.StatusAccepted)
	})

	mux.HandleFunc("POST /brightness", func(w http.ResponseWriter, req *http.Request) {
		n, err := strconv.ParseUint(req.FormValue("value"), 10, 8)
		if err != nil {
			http.Error(w, "value must be 0-255", http.StatusBadRequest)
			return
		}
		r.SetBrightness(uint8(n))
		w.WriteHeader(http.StatusAccepted)
	})

	return mux
}
