package analysis

import (
	"context"
	"errors"
	"sync"

	"github.com/ironsheep/room-analyzer-mcp/internal/detection"
)

// ErrNoReport is returned when the session holds no completed analysis.
var ErrNoReport = errors.New("no room analysis available")

// Session owns the single live analysis. A new analysis replaces the old
// one outright; nothing is cached or kept across analyses.
//
// Session is safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	current *Report
}

// Current returns the live report or ErrNoReport.
func (s *Session) Current() (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoReport
	}
	return s.current, nil
}

// Replace installs r as the live report.
func (s *Session) Replace(r *Report) {
	s.mu.Lock()
	s.current = r
	s.mu.Unlock()
}

// Clear drops the live report.
func (s *Session) Clear() {
	s.Replace(nil)
}

// Run clears the session, analyses frame and installs the result. When the
// analysis fails the session stays empty.
func (s *Session) Run(ctx context.Context, a *Analyzer, frame detection.Frame) (*Report, error) {
	s.Clear()
	report, err := a.Analyze(ctx, frame)
	if err != nil {
		return nil, err
	}
	s.Replace(report)
	return report, nil
}
