package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor writing one line per
// call: procedure, caller identity, duration, and the Connect code when the
// call fails. It reads the identity RequireAuth/OptionalAuth attach, so it
// must sit inside the auth interceptor to see it.
//
// Client mistakes (bad input, missing membership) log at warn; only
// CodeInternal and unclassified errors log at error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if userID := GetUserID(ctx); userID != "" {
				attrs = append(attrs, "user_id", userID, "email", GetEmail(ctx))
			}

			if err == nil {
				slog.Info("Call completed", attrs...)
				return resp, nil
			}

			var connectErr *connect.Error
			switch {
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal:
				attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
				slog.Warn("Call rejected", attrs...)
			case connectErr != nil:
				attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
				slog.Error("Call failed", attrs...)
			default:
				attrs = append(attrs, "error", err)
				slog.Error("Call failed", attrs...)
			}
			return resp, err
		}
	}
}
