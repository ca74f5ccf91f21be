package main

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ctxKeyLog struct{}

// logger returns the request-scoped log entry installed by logHandler.
func logger(r *http.Request) *logrus.Entry {
	if entry, ok := r.Context().Value(ctxKeyLog{}).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rr *responseRecorder) WriteHeader(status int) {
	rr.status = status
	rr.ResponseWriter.WriteHeader(status)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if rr.status == 0 {
		rr.status = http.StatusOK
	}
	n, err := rr.ResponseWriter.Write(b)
	rr.bytes += n
	return n, err
}

// logHandler tags every request with a request id, installs a request-scoped
// log entry, and logs the outcome.
type logHandler struct {
	log  *logrus.Logger
	next http.Handler
}

func (lh *logHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	start := time.Now()

	entry := lh.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"http.method": r.Method,
		"http.path":   r.URL.Path,
	})
	r = r.WithContext(context.WithValue(r.Context(), ctxKeyLog{}, entry))

	rr := &responseRecorder{ResponseWriter: w}
	lh.next.ServeHTTP(rr, r)

	entry.WithFields(logrus.Fields{
		"http.status":  rr.status,
		"http.bytes":   rr.bytes,
		"http.elapsed": time.Since(start).String(),
	}).Debug("request complete")
}
