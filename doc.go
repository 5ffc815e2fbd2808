//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

// Package fetch downloads a single HTTP resource into memory in the
// background.
//
// Fetch returns a Handle immediately; a dedicated goroutine performs the
// GET and accumulates the body in a Buffer. The caller may peek at the
// Handle (Complete, Status, Downloaded, Total, Progress) from any goroutine
// without blocking, block on Wait, or drive a periodic callback with Poll.
// Once the Handle reaches a terminal state the body is available from
// Result, and Dispose releases the Handle.
//
// HTTP error status codes are not failures: the body of a 404 page is
// delivered like any other body. Only transport errors, buffer allocation
// failures and rejections by Config.AcceptFunc put a Handle in StateFailed.
package fetch
