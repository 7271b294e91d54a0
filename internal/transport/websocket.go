package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"drawstream/internal/draw"
	"drawstream/internal/middleware"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // Send pings at 90% of pong deadline
	writeWait  = 10 * time.Second

	// frames past this many times MaxMessageSize close the connection
	readLimitFactor = 4
)

// Router consumes raw frames read from a stream
type Router interface {
	Route(ctx context.Context, msg []byte) error
}

// Stream carries draw messages over one websocket connection, in either direction.
type Stream struct {
	ID      string
	conn    *websocket.Conn
	codec   *draw.Codec
	config  *middleware.RateLimit
	limiter *rate.Limiter
	writeMu sync.Mutex
}

func NewStream(conn *websocket.Conn, codec *draw.Codec, config *middleware.RateLimit) *Stream {
	if codec == nil {
		codec = draw.NewCodec(nil)
	}
	return &Stream{
		ID:      uuid.NewString(),
		conn:    conn,
		codec:   codec,
		config:  config,
		limiter: config.NewLimiter(),
	}
}

// Send: encodes one draw message and writes it as a text frame
func (s *Stream) Send(msg draw.Message) error {
	data, err := s.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode draw message: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write draw message: %w", err)
	}
	return nil
}

// Serve: reads frames until the peer goes away or ctx is done.
// Oversized, rate limited and unroutable frames are logged and skipped.
func (s *Stream) Serve(ctx context.Context, router Router) error {
	if s.config.MaxMessageSize > 0 {
		s.conn.SetReadLimit(readLimitFactor * int64(s.config.MaxMessageSize))
	}

	// Set up pong handler to extend deadline when pong received
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	// Channel to signal when read loop exits
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-pingTicker.C:
				deadline := time.Now().Add(writeWait)
				if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return // Connection dead, ping goroutine exits
				}
			case <-ctx.Done():
				// unblock the read loop
				s.conn.Close()
				return
			case <-done:
				return
			}
		}
	}()

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read draw message: %w", err)
		}

		if !s.config.ValidateMessageSize(len(msg)) {
			log.Printf("Message too large on stream %s: %d bytes", s.ID, len(msg))
			continue // Drop oversized message
		}

		// END always passes so a dropped frame cannot merge two strokes
		if !isEnd(msg) && !s.limiter.Allow() {
			log.Printf("Rate limit exceeded on stream %s", s.ID)
			continue // Drop message
		}

		if err := router.Route(ctx, msg); err != nil {
			log.Printf("Error handling message on stream %s: %v", s.ID, err)
			continue // Skip message
		}
	}
}

// isEnd: reports whether a raw frame is tagged END
func isEnd(msg []byte) bool {
	var env struct {
		Type draw.MessageType `json:"type"`
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		return false
	}
	return env.Type == draw.TypeEnd
}

// Close: sends a normal close frame and closes the connection
func (s *Stream) Close() error {
	s.writeMu.Lock()
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := s.conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
	s.writeMu.Unlock()

	if cerr := s.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
