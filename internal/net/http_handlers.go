package net

import (
	"encoding/base64"
	"encoding/json"
	nethttp "net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	server "crowdcast/server"
	"crowdcast/server/internal/net/ws"
	"crowdcast/server/internal/telemetry"
	"crowdcast/server/logging"
)

type HTTPHandlerConfig struct {
	// ClientDir holds the static dashboard/participate pages.
	ClientDir string
	// PublicURL overrides the QR-code target base; empty derives it from
	// the request (honoring X-Forwarded-Proto/Host).
	PublicURL string
	Logger    telemetry.Logger
	// RouterStats surfaces logging pipeline counters on /diagnostics.
	RouterStats func() logging.RouterStats
}

// NewHTTPHandler builds the read-only query surface plus the websocket
// route. Nothing here mutates hub state directly; every handler works off
// snapshots.
func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(func(string, ...any) {})
	}

	router := mux.NewRouter()

	router.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}).Methods(nethttp.MethodGet)

	router.HandleFunc("/stats", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, hub.Stats())
	}).Methods(nethttp.MethodGet)

	router.HandleFunc("/messages", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, hub.Recent(server.HTTPRecentLimit))
	}).Methods(nethttp.MethodGet)

	router.HandleFunc("/leaderboard", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, hub.Leaderboard())
	}).Methods(nethttp.MethodGet)

	router.HandleFunc("/world", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		writeJSON(w, hub.World())
	}).Methods(nethttp.MethodGet)

	router.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status       string                          `json:"status"`
			ServerTime   int64                           `json:"serverTime"`
			Participants []server.DiagnosticsParticipant `json:"participants"`
			Personality  server.Personality              `json:"personality"`
			CleanupMs    int64                           `json:"cleanupMillis"`
			Logging      any                             `json:"logging,omitempty"`
		}{
			Status:       "ok",
			ServerTime:   time.Now().UnixMilli(),
			Participants: hub.DiagnosticsSnapshot(),
			Personality:  hub.ResponderPersonality(),
			CleanupMs:    hub.CleanupInterval().Milliseconds(),
		}
		if cfg.RouterStats != nil {
			payload.Logging = cfg.RouterStats()
		}
		writeJSON(w, payload)
	}).Methods(nethttp.MethodGet)

	router.HandleFunc("/qr-code", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		base := cfg.PublicURL
		if base == "" {
			base = requestBaseURL(r)
		}
		png, err := qrcode.Encode(base+"/participate", qrcode.Medium, 256)
		if err != nil {
			logger.Printf("failed to encode qr code: %v", err)
			httpError(w, "failed to generate qr code", nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, struct {
			QRCode string `json:"qrCode"`
		}{QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)})
	}).Methods(nethttp.MethodGet)

	wsHandler := ws.NewHandler(hub, ws.HandlerConfig{Logger: logger})
	router.HandleFunc("/ws", wsHandler.Handle)

	if cfg.ClientDir != "" {
		dir := filepath.Clean(cfg.ClientDir)
		router.HandleFunc("/dashboard", servePage(dir, "dashboard.html"))
		router.HandleFunc("/participate", servePage(dir, "participate.html"))
		router.PathPrefix("/").Handler(nethttp.FileServer(nethttp.Dir(dir)))
	}

	return router
}

func servePage(dir, page string) nethttp.HandlerFunc {
	path := filepath.Join(dir, page)
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.ServeFile(w, r, path)
	}
}

// requestBaseURL reconstructs the externally visible base URL, trusting
// forwarding headers the way the upstream proxy sets them.
func requestBaseURL(r *nethttp.Request) string {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	return scheme + "://" + host
}

func writeJSON(w nethttp.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: message})
}
