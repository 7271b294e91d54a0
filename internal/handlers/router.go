package handlers

import (
	"context"
	"fmt"

	"drawstream/internal/draw"
)

// MessageRouter routes incoming frames to a draw handler
type MessageRouter struct {
	codec   *draw.Codec
	handler draw.Handler
}

func NewMessageRouter(codec *draw.Codec, handler draw.Handler) *MessageRouter {
	if codec == nil {
		codec = draw.NewCodec(nil)
	}
	return &MessageRouter{
		codec:   codec,
		handler: handler,
	}
}

// Route: decode a frame and dispatch it by message type
func (mr *MessageRouter) Route(ctx context.Context, msg []byte) error {
	m, err := mr.codec.Decode(msg)
	if err != nil {
		return fmt.Errorf("decode draw message: %w", err)
	}

	return draw.Dispatch(ctx, mr.handler, m)
}
