package middleware

import (
	"context"
	"net/http"
	"time"

	"mfportal/src/utils"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

type requestInfoKey struct{}

// requestInfo is filled by inner middlewares so the access log line can name
// the caller.
type requestInfo struct {
	userID uint
}

// RequestLogger gives every request a request id and a logger carrying it,
// and writes one access log line when the request completes.
func RequestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			info := &requestInfo{}
			entry := logger.WithField("request_id", requestID)
			ctx := context.WithValue(r.Context(), requestInfoKey{}, info)
			ctx = utils.WithLogger(ctx, entry)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if info.userID != 0 {
				fields["user_id"] = info.userID
			}
			entry = entry.WithFields(fields)
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				entry.Error("request completed")
			case ww.Status() >= http.StatusBadRequest:
				entry.Warn("request completed")
			default:
				entry.Info("request completed")
			}
		})
	}
}

func setCaller(ctx context.Context, userID uint) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.userID = userID
	}
}
