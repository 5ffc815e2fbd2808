//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package fetch

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferNilAndEmpty(t *testing.T) {
	var nilBuf *Buffer
	require.Equal(t, 0, nilBuf.Len())
	require.Nil(t, nilBuf.Bytes())
	require.Equal(t, "", nilBuf.String())

	empty := newBuffer(0)
	require.Equal(t, 0, empty.Len())
	require.NotNil(t, empty.Bytes())
	require.Empty(t, empty.Bytes())
}

func TestBufferAppend(t *testing.T) {
	b := newBuffer(0)
	var expected []byte
	for i := 1; i <= 20; i++ {
		chunk := bytes.Repeat([]byte{byte('a' + i)}, i*7)
		require.NoError(t, b.append(chunk))
		expected = append(expected, chunk...)

		require.Equal(t, len(expected), b.Len())
		require.Equal(t, expected, b.Bytes())
		require.Greater(t, cap(b.data), b.Len())
		require.Equal(t, byte(0), b.data[:b.Len()+1][b.Len()])
	}
	require.Equal(t, string(expected), b.String())
}

func TestBufferEmptyChunk(t *testing.T) {
	b := newBuffer(0)
	require.NoError(t, b.append([]byte("abc")))
	require.NoError(t, b.append(nil))
	require.Equal(t, "abc", b.String())
	require.Equal(t, byte(0), b.data[:4][3])
}

func TestBufferLimit(t *testing.T) {
	b := newBuffer(10)
	require.NoError(t, b.append([]byte("0123456789")))
	require.ErrorIs(t, b.append([]byte("x")), ErrOutOfMemory)
	// A failed growth leaves the content untouched.
	require.Equal(t, "0123456789", b.String())
}

func TestGrowCap(t *testing.T) {
	require.Equal(t, 1, growCap(0, 1))
	require.Equal(t, 8, growCap(1, 5))
	require.Equal(t, 64, growCap(64, 64))
	require.Equal(t, 128, growCap(64, 65))
}
