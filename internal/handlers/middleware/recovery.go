package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/vnitin08/youtube-backend/internal/handlers/render"
)

// Remembers whether response is started already
type recoveryWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *recoveryWriter) WriteHeader(statusCode int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *recoveryWriter) Write(p []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(p)
}

// Convert panic in downstream handler to 500 response
// If handler has started the response, it is left as is: status can't be changed anymore
func Recovery(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &recoveryWriter{ResponseWriter: w}

			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				// Let server abort the connection as it does by default
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				l.Error("panic recovered",
					"error", fmt.Sprintf("%v", recovered),
					"request_id", RequestID(r.Context()),
					"response_started", rw.wroteHeader,
					"stack", string(debug.Stack()),
				)
				if !rw.wroteHeader {
					render.Error(rw, fmt.Errorf("panic: %v", recovered))
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
