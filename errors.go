//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is returned when the result buffer cannot grow to hold
	// the received data.
	ErrOutOfMemory = errors.New("fetch: out of memory growing result buffer")

	// ErrRejected is returned when Config.AcceptFunc refuses the response.
	ErrRejected = errors.New("fetch: response rejected")

	// ErrNotComplete is returned by Result while the transfer is running.
	ErrNotComplete = errors.New("fetch: download not complete")

	// ErrDisposed is returned when a Handle is used after Dispose.
	ErrDisposed = errors.New("fetch: handle already disposed")

	// ErrEmptyURL is returned by Fetch when called with an empty URL.
	ErrEmptyURL = errors.New("fetch: empty URL")
)

// TransportError reports a network level failure: DNS resolution,
// connection, TLS handshake, a broken response body or an inactivity
// timeout. HTTP error status codes never produce a TransportError.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
