package agent

import "context"

type correlationKey struct{}

// WithCorrelationID attaches a transport level correlation id. The router
// falls back to it when a turn arrives without a session id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok && id != ""
}
