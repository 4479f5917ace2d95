package midware

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/codegangsta/negroni"
	"github.com/gorilla/handlers"
	"github.com/kiteco/dnamutation/kite-golib/rollbar"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the id the Logger assigns to each request.
const RequestIDHeader = "X-Request-ID"

// Wrap wraps handler with the default set of middleware.
func Wrap(handler http.Handler, logger *zap.SugaredLogger) http.Handler {
	return negroni.New(
		NewRecovery(logger),
		NewLogger(logger),
		NewNoCache(),
		negroni.Wrap(NewCORS()(handler)),
	)
}

// NewCORS allows cross origin requests from any origin, which is what the browser
// frontend relies on.
func NewCORS() func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedHeaders([]string{"content-type", "pragma", "cache-control"}),
		handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "OPTIONS"}),
	)
}

// Logger is a HTTP request logger for use as negroni middleware.
type Logger struct {
	logger *zap.SugaredLogger
}

// NewLogger returns a Logger negroni.Handler that will log requests
// to the provided logger.
func NewLogger(logger *zap.SugaredLogger) *Logger {
	return &Logger{
		logger: logger,
	}
}

// ServeHTTP implements negroni.Handler
func (l *Logger) ServeHTTP(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()

	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		if u, err := uuid.NewV4(); err == nil {
			id = u.String()
		}
	}
	w.Header().Set(RequestIDHeader, id)

	next(w, r)

	fields := []interface{}{
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", id,
		"duration", time.Since(start),
	}
	if rw, ok := w.(negroni.ResponseWriter); ok {
		fields = append(fields, "status", rw.Status(), "size", rw.Size())
	}
	l.logger.Infow("request", fields...)
}

// --

// Recovery is a panic recovery middleware handler for negroni.
type Recovery struct {
	logger    *zap.SugaredLogger
	StackAll  bool
	StackSize int
}

// NewRecovery returns a new Recovery negroni.Handler
func NewRecovery(logger *zap.SugaredLogger) *Recovery {
	return &Recovery{
		logger:    logger,
		StackAll:  false,
		StackSize: 1024 * 8,
	}
}

// ServeHTTP implements negroni.Handler
func (rec *Recovery) ServeHTTP(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	defer func(req *http.Request) {
		if err := recover(); err != nil {
			w.WriteHeader(http.StatusInternalServerError)

			stack := make([]byte, rec.StackSize)
			stack = stack[:runtime.Stack(stack, rec.StackAll)]
			rec.logger.Errorw("[recovery!]",
				"method", req.Method,
				"path", req.URL.Path,
				"panic", fmt.Sprint(err),
				"stack", string(stack),
			)

			rollbar.RecoveryError(err, req)
		}
	}(r)

	next(w, r)
}

// --

// NoCache is a middleware handler for setting no-cache headers.
type NoCache struct{}

// NewNoCache returns a NoCache negroni.Handler that sets the no-cache headers.
func NewNoCache() *NoCache {
	return &NoCache{}
}

// ServeHTTP implements negroni.Handler
func (nc *NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	newRw := negroni.NewResponseWriter(w)

	// must be set before the response has been written
	newRw.Before(func(rw negroni.ResponseWriter) {
		h := rw.Header()
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
	})

	next(newRw, r)
}
