package transport

import (
	"log"
	"net"
	"net/http"

	"drawstream/internal/color"
	"drawstream/internal/config"
	"drawstream/internal/draw"
	"drawstream/internal/handlers"
	"drawstream/internal/middleware"

	"github.com/gorilla/websocket"
)

// SinkFactory: builds the stroke sink for a newly opened stream
type SinkFactory func(streamID string) handlers.StrokeSink

// Handler upgrades HTTP requests to draw streams
type Handler struct {
	config    *config.Config
	ipLimiter *middleware.IPRateLimit
	codec     *draw.Codec
	colors    *color.Generator
	newSink   SinkFactory
	upgrader  websocket.Upgrader
}

func NewHandler(cfg *config.Config, ipLimiter *middleware.IPRateLimit, codec *draw.Codec, colors *color.Generator, newSink SinkFactory) *Handler {
	if newSink == nil {
		newSink = func(streamID string) handlers.StrokeSink {
			return handlers.LogSink{StreamID: streamID}
		}
	}

	h := &Handler{
		config:    cfg,
		ipLimiter: ipLimiter,
		codec:     codec,
		colors:    colors,
		newSink:   newSink,
	}
	h.upgrader = websocket.Upgrader{
		// CORS
		CheckOrigin: func(r *http.Request) bool {
			return cfg.AllowOrigin(r.Header.Get("Origin"))
		},
	}
	return h
}

// GetClientIP: extracts the client IP from the request
func GetClientIP(r *http.Request) string {
	// Use RemoteAddr only - cannot be spoofed by client
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ServeHTTP: upgrades the connection and consumes draw messages until it closes
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientIP := GetClientIP(r)
	if !h.ipLimiter.Allow(clientIP) {
		log.Printf("Rate limit exceeded for IP: %s", clientIP)
		http.Error(w, "Too many connections", http.StatusTooManyRequests)
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error: Failed to upgrade connection - %v", err)
		return
	}
	defer conn.Close()

	stream := NewStream(conn, h.codec, h.config.Limits)
	strokes := handlers.NewStrokeHandler(h.config.Limits, h.newSink(stream.ID), h.colors.Next())
	router := handlers.NewMessageRouter(h.codec, strokes)

	log.Printf("Stream %s opened from %s", stream.ID, clientIP)

	if err := stream.Serve(r.Context(), router); err != nil {
		log.Printf("Error: Stream %s - %v", stream.ID, err)
	}

	if n := strokes.Abort(); n > 0 {
		log.Printf("Stream %s closed mid-stroke, dropped %d points", stream.ID, n)
	}
	log.Printf("Stream %s closed", stream.ID)
}
