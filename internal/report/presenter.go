// Package report renders clock analyses as text and delivers them to an output sink.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Presenter delivers a rendered report without coupling rendering to the sink.
type Presenter struct {
	write func(path string, body []byte) error
}

// NewPresenter returns a Presenter writing through fn; nil selects WriteFile.
func NewPresenter(fn func(path string, body []byte) error) *Presenter {
	if fn == nil {
		fn = WriteFile
	}
	return &Presenter{write: fn}
}

// Deliver writes report to path.
func (p *Presenter) Deliver(path, report string) error {
	if p == nil {
		return nil
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty output path")
	}
	return p.write(path, []byte(report))
}

// WriteFile writes body to path, creating the parent directory when missing.
func WriteFile(path string, body []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
