//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))   // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))   // red
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))  // blue
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")) // light grey
)

func initLogger(debug bool) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// printer serializes status lines coming from several downloads.
type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printer) progress(url string, downloaded, total int64) {
	line := fmt.Sprintf("%s %s", pendingStyle.Render("↓"), url)
	if total >= 0 {
		line += detailStyle.Render(fmt.Sprintf(" %s / %s (%.1f%%)", formatBytes(downloaded), formatBytes(total), percent(downloaded, total)))
	} else {
		line += detailStyle.Render(" " + formatBytes(downloaded))
	}
	p.println(line)
}

func (p *printer) success(url string, size int, status int) {
	p.println(fmt.Sprintf("%s %s %s", successStyle.Render("✓"), url, detailStyle.Render(fmt.Sprintf("%s (HTTP %d)", formatBytes(int64(size)), status))))
}

func (p *printer) failure(url string, err error) {
	p.println(fmt.Sprintf("%s %s %s", errorStyle.Render("✗"), url, errorStyle.Render(err.Error())))
}

func (p *printer) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, line)
}

func percent(downloaded, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(downloaded) * 100 / float64(total)
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
