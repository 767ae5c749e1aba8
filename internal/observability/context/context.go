package context

import "context"

type requestIDKey struct{}
type transactionIDKey struct{}

// WithRequestID stores the correlation id for the current request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the correlation id, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDKey{}).(string); ok {
		return value
	}
	return ""
}

// WithTransactionID tags log lines emitted after an inventory claim with the
// generated transaction id.
func WithTransactionID(ctx context.Context, txnID string) context.Context {
	return context.WithValue(ctx, transactionIDKey{}, txnID)
}

// TransactionIDFromContext returns the transaction id, or "".
func TransactionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(transactionIDKey{}).(string); ok {
		return value
	}
	return ""
}
