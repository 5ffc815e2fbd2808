//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a Handle.
type State int32

const (
	// StatePending means the request has not received a response yet.
	StatePending State = iota
	// StateReceiving means the response headers arrived and the body is
	// being read.
	StateReceiving
	// StateCompleted is terminal: the whole body is in the result.
	StateCompleted
	// StateFailed is terminal: the transfer failed, see Status.Err.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReceiving:
		return "receiving"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Terminal reports whether the state will never change again.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Status is a point-in-time snapshot of a Handle.
type Status struct {
	State      State
	Downloaded int64
	// Total is -1 until the size of the body is known.
	Total int64
	// Err is set when State is StateFailed.
	Err error
}

// Handle tracks one asynchronous fetch. It is created by Fetch and owned
// by the caller, while a single worker goroutine writes into it until the
// transfer reaches a terminal state.
type Handle struct {
	ID  uuid.UUID
	URL string

	// state only tracks StatePending and StateReceiving, terminal
	// states are derived from done and err.
	state      atomic.Int32
	downloaded atomic.Int64
	total      atomic.Int64
	statusCode atomic.Int32

	// done is closed by the worker after result and err are stored.
	// result and err must not be read before done is closed.
	done   chan struct{}
	result *Buffer
	err    error

	disposeLock sync.Mutex
	disposed    bool
}

// Fetch starts downloading the specified url in background using the
// default configuration and returns immediately.
func Fetch(reqURL string) (*Handle, error) {
	return FetchWithConfig(reqURL, GetDefaultConfig())
}

// FetchWithConfig starts downloading the specified url in background with
// the given configuration and returns immediately. An error is returned
// only if the request cannot be built; transport failures are reported
// through the returned Handle.
func FetchWithConfig(reqURL string, config Config) (*Handle, error) {
	if strings.TrimSpace(reqURL) == "" {
		return nil, ErrEmptyURL
	}
	if _, err := url.Parse(reqURL); err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	h := &Handle{
		ID:   uuid.New(),
		URL:  strings.Clone(reqURL),
		done: make(chan struct{}),
	}
	h.total.Store(-1)

	ctx, wd := newWatchdog(context.Background(), config.InactivityTimeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		wd.Stop()
		return nil, fmt.Errorf("setting up HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", config.userAgent())

	w := &worker{
		handle:   h,
		req:      req,
		client:   config.httpClient(),
		ownsConn: config.HttpClient == nil,
		accept:   config.AcceptFunc,
		buf:      newBuffer(config.MaxBufferSize),
		wd:       wd,
		log:      config.logger().With().Str("id", h.ID.String()).Str("url", h.URL).Logger(),
	}
	go w.run()
	return h, nil
}

// Get downloads the specified url and returns the body. It blocks until
// the transfer is complete.
func Get(reqURL string, config Config) ([]byte, error) {
	h, err := FetchWithConfig(reqURL, config)
	if err != nil {
		return nil, err
	}
	data, err := h.Wait(context.Background())
	if disposeErr := h.Dispose(); err == nil {
		err = disposeErr
	}
	return data.Bytes(), err
}

// Complete reports whether the fetch reached a terminal state. It never
// blocks.
func (h *Handle) Complete() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the fetch reaches a terminal
// state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Downloaded returns the bytes received so far.
func (h *Handle) Downloaded() int64 {
	return h.downloaded.Load()
}

// Total returns the size of the body, or -1 if not known yet.
func (h *Handle) Total() int64 {
	return h.total.Load()
}

// Progress returns the completed fraction in the range [0, 1], or 0 if
// the total size is unknown.
func (h *Handle) Progress() float64 {
	total := h.Total()
	if total <= 0 {
		return 0
	}
	return float64(h.Downloaded()) / float64(total)
}

// StatusCode returns the HTTP status code of the response, or 0 if no
// response was received (yet).
func (h *Handle) StatusCode() int {
	return int(h.statusCode.Load())
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	if h.Complete() {
		if h.err != nil {
			return StateFailed
		}
		return StateCompleted
	}
	return State(h.state.Load())
}

// Status returns a snapshot of the Handle.
func (h *Handle) Status() Status {
	s := Status{
		State:      h.State(),
		Downloaded: h.Downloaded(),
		Total:      h.Total(),
	}
	if s.State == StateFailed {
		s.Err = h.err
	}
	return s
}

// Wait blocks until the fetch reaches a terminal state and returns its
// result, or until ctx is done. Giving up the wait does not stop the
// transfer.
func (h *Handle) Wait(ctx context.Context) (*Buffer, error) {
	select {
	case <-h.done:
		return h.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Poll calls poll every interval with the current progress, and once more
// when the fetch reaches a terminal state. It returns the fetch error, if
// any.
func (h *Handle) Poll(poll func(downloaded, total int64), interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			poll(h.Downloaded(), h.Total())
		case <-h.done:
			poll(h.Downloaded(), h.Total())
			_, err := h.Result()
			return err
		}
	}
}

// Result returns the downloaded body. If the fetch failed the partial
// body received so far is returned together with the error.
func (h *Handle) Result() (*Buffer, error) {
	h.disposeLock.Lock()
	defer h.disposeLock.Unlock()
	if h.disposed {
		return nil, ErrDisposed
	}
	if !h.Complete() {
		return nil, ErrNotComplete
	}
	return h.result, h.err
}

// Dispose waits for the worker to terminate and releases the Handle. The
// result is no longer reachable through the Handle afterwards, but a
// Buffer obtained earlier from Result stays valid.
func (h *Handle) Dispose() error {
	h.disposeLock.Lock()
	defer h.disposeLock.Unlock()
	if h.disposed {
		return ErrDisposed
	}
	<-h.done
	h.disposed = true
	h.result = nil
	return nil
}
