package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/ebook2pdf"
	"github.com/fwojciec/ebook2pdf/progress"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/semaphore"
)

// Path is where the handler is mounted.
const Path = "/websocket"

// Handler upgrades requests to WebSocket connections and runs one job per
// request message received, one after another.
type Handler struct {
	runner       ebook2pdf.JobRunner
	logger       *slog.Logger
	jobs         *semaphore.Weighted
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
	wg           sync.WaitGroup
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the operator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMaxJobs bounds the number of jobs running at once across all
// connections. Zero means unbounded.
func WithMaxJobs(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.jobs = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithWriteTimeout bounds each write to the client.
func WithWriteTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.writeTimeout = d
	}
}

// NewHandler creates a Handler that runs jobs with runner.
func NewHandler(runner ebook2pdf.JobRunner, opts ...Option) *Handler {
	h := &Handler{
		runner:       runner,
		logger:       slog.New(slog.DiscardHandler),
		writeTimeout: DefaultWriteTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP serves one connection until the client leaves or the request
// context is cancelled. Cancellation closes the connection, which unblocks
// the pending read.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.wg.Add(1)
	defer h.wg.Done()

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer ws.Close()
	stop := context.AfterFunc(r.Context(), func() { _ = ws.Close() })
	defer stop()

	conn := NewConn(ws, h.writeTimeout)
	h.logger.Debug("websocket client connected", "remote", r.RemoteAddr)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "err", err)
			}
			h.logger.Debug("websocket client disconnected", "remote", r.RemoteAddr)
			return
		}

		var req ebook2pdf.JobRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.logger.Info("malformed job request", "err", err)
			if err := conn.SendError(progress.GenericErrorMessage); err != nil {
				return
			}
			continue
		}

		if !h.run(r, &req, conn) {
			return
		}
	}
}

// run executes one job and reports whether the connection is still usable.
func (h *Handler) run(r *http.Request, req *ebook2pdf.JobRequest, conn *Conn) bool {
	ctx := r.Context()
	if h.jobs != nil {
		if err := h.jobs.Acquire(ctx, 1); err != nil {
			return false
		}
		defer h.jobs.Release(1)
	}

	res := h.runner.Run(ctx, req, conn)
	h.logger.Info("job done", "job_id", res.JobID, "state", res.State, "code", ebook2pdf.ErrorCode(res.Err))
	return ctx.Err() == nil
}

// Wait blocks until every connection served so far has been released or ctx
// is done. http.Server.Shutdown does not track hijacked connections, so
// call Wait after it.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
