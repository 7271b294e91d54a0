package draw

import (
	"context"
	"fmt"
)

// Handler consumes draw messages after they have been decoded.
type Handler interface {
	HandleMoving(ctx context.Context, params OrderedParamsMoving) error
	HandleEnd(ctx context.Context) error
}

// Dispatch: calls the handler method matching the message type
func Dispatch(ctx context.Context, h Handler, msg Message) error {
	switch m := msg.(type) {
	case Moving:
		return h.HandleMoving(ctx, m.Params)
	case *Moving:
		if m == nil {
			return fmt.Errorf("%w: nil MOVING message", ErrInvalidParams)
		}
		return h.HandleMoving(ctx, m.Params)
	case End, *End:
		return h.HandleEnd(ctx)
	case nil:
		return ErrMissingType
	default:
		return fmt.Errorf("%w: %T", ErrUnknownType, msg)
	}
}
