package middleware

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
)

// Timeout bounds each request with a deadline. Handlers observe it through
// c.Request.Context(). The rest of the chain writes into a buffer; if it has
// not started a response when the deadline passes, the client gets a 408 at
// once and whatever the handler writes afterwards is discarded.
//
// A response the handler has started before the deadline is never replaced.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		orig := c.Writer
		tw := newTimeoutWriter(orig)
		c.Writer = tw
		c.Request = c.Request.WithContext(ctx)

		done := make(chan struct{})
		var panicked any
		go func() {
			defer close(done)
			defer func() { panicked = recover() }()
			c.Next()
		}()

		select {
		case <-done:
		case <-ctx.Done():
			if tw.expire() {
				writeTimeout(orig, d)
			}
			// c goes back to gin's pool once this returns.
			<-done
		}

		c.Writer = orig
		if panicked != nil {
			panic(panicked)
		}
		if tw.timedOut {
			c.Abort()
			return
		}
		tw.flushTo(orig)
	}
}

func writeTimeout(w gin.ResponseWriter, d time.Duration) {
	body, _ := json.Marshal(gin.H{
		"error":   "request_timeout",
		"message": "request exceeded " + d.String(),
	})
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusRequestTimeout)
	_, _ = w.Write(body)
	w.Flush()
}

// timeoutWriter buffers a response until the chain returns.
type timeoutWriter struct {
	gin.ResponseWriter

	h    http.Header
	body bytes.Buffer

	mu          sync.Mutex
	code        int
	wroteHeader bool
	timedOut    bool
}

func newTimeoutWriter(w gin.ResponseWriter) *timeoutWriter {
	return &timeoutWriter{ResponseWriter: w, h: w.Header().Clone(), code: http.StatusOK}
}

// expire marks the request as timed out unless a response was already
// started. It reports whether the caller should send the 408.
func (w *timeoutWriter) expire() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.wroteHeader {
		return false
	}
	w.timedOut = true
	return true
}

func (w *timeoutWriter) Header() http.Header { return w.h }

func (w *timeoutWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut || code <= 0 {
		return
	}
	w.code = code
	w.wroteHeader = true
}

func (w *timeoutWriter) WriteHeaderNow() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.timedOut {
		w.wroteHeader = true
	}
}

func (w *timeoutWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return len(b), nil
	}
	w.wroteHeader = true
	return w.body.Write(b)
}

func (w *timeoutWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *timeoutWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.code
}

func (w *timeoutWriter) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.wroteHeader {
		return -1
	}
	return w.body.Len()
}

func (w *timeoutWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wroteHeader
}

// Flush is a no-op; the buffer is written out when the chain returns.
func (w *timeoutWriter) Flush() {}

// flushTo copies the buffered response to dst. Called after the chain has
// returned, so no locking is needed.
func (w *timeoutWriter) flushTo(dst gin.ResponseWriter) {
	dh := dst.Header()
	for k := range dh {
		if _, ok := w.h[k]; !ok {
			delete(dh, k)
		}
	}
	for k, vv := range w.h {
		dh[k] = vv
	}
	if !w.wroteHeader {
		return
	}
	dst.WriteHeader(w.code)
	if w.body.Len() > 0 {
		_, _ = dst.Write(w.body.Bytes())
		return
	}
	dst.WriteHeaderNow()
}
