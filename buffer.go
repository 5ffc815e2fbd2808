//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package fetch

import "math"

// Buffer is a growable, contiguous in-memory byte buffer. A zero byte is
// kept right after the last valid byte so that the content can be handed
// to consumers expecting a terminated string; it is never counted by Len.
//
// A nil *Buffer means nothing was ever allocated, which is distinct from
// an allocated Buffer of length zero.
type Buffer struct {
	data  []byte
	limit int64
}

func newBuffer(limit int64) *Buffer {
	if limit <= 0 {
		limit = math.MaxInt - 1
	}
	return &Buffer{
		data:  make([]byte, 0, 1),
		limit: limit,
	}
}

// Len returns the number of valid bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Bytes returns the valid bytes. The slice aliases the buffer storage.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

func (b *Buffer) String() string {
	return string(b.Bytes())
}

// append grows the buffer by exactly len(chunk) bytes. The buffer is left
// untouched when the growth fails.
func (b *Buffer) append(chunk []byte) (err error) {
	n := len(b.data) + len(chunk)
	if int64(n) > b.limit || n < len(b.data) {
		return ErrOutOfMemory
	}
	if n+1 > cap(b.data) {
		// The runtime panics on allocations it cannot satisfy
		// (e.g. "makeslice: len out of range").
		defer func() {
			if r := recover(); r != nil {
				err = ErrOutOfMemory
			}
		}()
		grown := make([]byte, len(b.data), growCap(cap(b.data), n+1))
		copy(grown, b.data)
		b.data = grown
	}
	b.data = append(b.data, chunk...)
	b.data[:n+1][n] = 0
	return nil
}

// growCap doubles the capacity until it can hold need bytes.
func growCap(current, need int) int {
	c := max(current, 1)
	for c < need {
		if c > math.MaxInt/2 {
			return need
		}
		c *= 2
	}
	return c
}
