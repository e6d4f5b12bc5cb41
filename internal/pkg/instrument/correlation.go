package instrument

import "context"

type correlationIDKey struct{}

// SetCorrelationID returns a copy of ctx carrying the correlation ID.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cID)
}

// GetCorrelationID returns the correlation ID stored in ctx, or an empty
// string when none was set.
func GetCorrelationID(ctx context.Context) string {
	cID, _ := ctx.Value(correlationIDKey{}).(string)
	return cID
}
