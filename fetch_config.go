//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package fetch

import (
	"crypto/tls"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "go.bug.st-fetch/1.0"

// Config contains the configuration for a fetch
type Config struct {
	// HttpClient to use to perform HTTP requests. If nil a client is
	// built from the other fields. Redirects are followed according to
	// the client's CheckRedirect policy.
	HttpClient *http.Client
	// UserAgent sent with the request, DefaultUserAgent if empty.
	UserAgent string
	// InsecureSkipVerify disables TLS certificate and host name
	// verification. Ignored when HttpClient is set.
	InsecureSkipVerify bool
	// AcceptFunc is an optional function called once the response headers
	// are received, before reading the body. If it returns an error the
	// fetch fails with ErrRejected.
	AcceptFunc func(resp *http.Response) error
	// MaxBufferSize caps the size of the in-memory result. Exceeding it
	// fails the fetch with ErrOutOfMemory. If set to 0, no cap is applied.
	MaxBufferSize int64
	// InactivityTimeout is the duration after which, if no data is received,
	// the fetch is aborted. If set to 0, no timeout is applied.
	InactivityTimeout time.Duration
	// Logger receives the worker's log events. If nil the global zerolog
	// logger is used.
	Logger *zerolog.Logger
}

var defaultConfig Config = Config{}
var defaultConfigLock sync.Mutex

// SetDefaultConfig sets the configuration that will be used by the Fetch
// and Get functions.
func SetDefaultConfig(newConfig Config) {
	defaultConfigLock.Lock()
	defer defaultConfigLock.Unlock()
	defaultConfig = newConfig
}

// GetDefaultConfig returns a copy of the default configuration. The default
// configuration can be changed using the SetDefaultConfig function.
func GetDefaultConfig() Config {
	defaultConfigLock.Lock()
	defer defaultConfigLock.Unlock()
	return defaultConfig
}

func (c *Config) httpClient() *http.Client {
	if c.HttpClient != nil {
		return c.HttpClient
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if c.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{Transport: transport}
}

func (c *Config) userAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}

func (c *Config) logger() zerolog.Logger {
	if c.Logger != nil {
		return c.Logger.With().Str("component", "fetch").Logger()
	}
	return log.With().Str("component", "fetch").Logger()
}
