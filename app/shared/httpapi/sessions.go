package httpapi

import (
	"context"

	"github.com/Black-And-White-Club/outing-bot/app/session"
)

// Sessions is the slice of the session manager the handlers use.
type Sessions interface {
	Get(id string) (session.State, error)
	Dispatch(ctx context.Context, id string, cmd session.Command) (session.State, error)
}

// CurrentState loads the snapshot of the request's session.
func CurrentState(ctx context.Context, sessions Sessions) (session.State, error) {
	return sessions.Get(SessionID(ctx))
}
