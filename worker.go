//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

const readChunkSize = 32 * 1024

// worker owns the transfer of a single Handle. Everything but handle is
// private to the worker goroutine.
type worker struct {
	handle   *Handle
	req      *http.Request
	client   *http.Client
	ownsConn bool
	accept   func(resp *http.Response) error
	buf      *Buffer
	wd       *watchdog
	log      zerolog.Logger
}

// run performs the transfer and publishes the outcome on the handle.
// Closing handle.done is the last write the worker does.
func (w *worker) run() {
	h := w.handle
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch: worker panic: %v", r)
		}
		w.release()
		if err != nil {
			w.log.Error().Err(err).Int64("downloaded", h.Downloaded()).Msg("Download failed")
		} else {
			w.log.Debug().Int64("size", int64(w.buf.Len())).Int("status", h.StatusCode()).Msg("Download complete")
		}
		h.result = w.buf
		h.err = err
		close(h.done)
	}()

	w.log.Debug().Msg("Starting download")
	err = w.transfer()
}

func (w *worker) transfer() error {
	h := w.handle
	resp, err := w.client.Do(w.req)
	if err != nil {
		return w.transportError(err)
	}
	defer resp.Body.Close()

	h.statusCode.Store(int32(resp.StatusCode))
	h.state.Store(int32(StateReceiving))
	if w.accept != nil {
		if err := w.accept(resp); err != nil {
			return fmt.Errorf("%w: %w", ErrRejected, err)
		}
	}
	if resp.ContentLength >= 0 {
		h.total.Store(resp.ContentLength)
	}
	w.wd.Kick()

	chunk := make([]byte, readChunkSize)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			w.wd.Kick()
			if err := w.onData(chunk[:n]); err != nil {
				return err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return w.transportError(err)
		}
	}

	// The size is known now even if the server did not announce it.
	if h.Total() < 0 {
		h.total.Store(h.Downloaded())
	}
	return nil
}

// onData appends chunk to the result buffer and updates the progress.
func (w *worker) onData(chunk []byte) error {
	if err := w.buf.append(chunk); err != nil {
		return fmt.Errorf("%w: %d bytes requested", err, w.buf.Len()+len(chunk))
	}
	w.onProgress(int64(w.buf.Len()))
	return nil
}

// onProgress publishes the byte counters. downloaded never decreases and
// a known total is raised if the server sends more than it announced.
func (w *worker) onProgress(downloaded int64) {
	h := w.handle
	if total := h.Total(); total >= 0 && downloaded > total {
		h.total.Store(downloaded)
	}
	h.downloaded.Store(downloaded)
}

func (w *worker) transportError(err error) error {
	if cause := context.Cause(w.req.Context()); cause != nil && !errors.Is(err, cause) {
		err = fmt.Errorf("%w: %w", cause, err)
	}
	return &TransportError{URL: w.handle.URL, Err: err}
}

func (w *worker) release() {
	w.wd.Stop()
	if w.ownsConn {
		w.client.CloseIdleConnections()
	}
	w.req = nil
	w.client = nil
}
