package httpserver

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// requestIDHeader carries the correlation identifier across the request and
// response; a caller-supplied value is kept, otherwise one is generated.
const requestIDHeader = "X-Request-ID"

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects requests whose client has exhausted its admissions for
// the trailing window. Rejections never reach the pipeline and never
// touch conversation state.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientAddr(r)
		if !s.opts.Limiter.Allow(client) {
			s.opts.Metrics.RecordRateLimitRejection()
			s.opts.Logger.Warn("rate limit exceeded", "client", client)
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientAddr identifies the caller: the first X-Forwarded-For hop when
// present, else the connection's source address without the port.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
