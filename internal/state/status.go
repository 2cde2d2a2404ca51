package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/Paintersrp/zortex/internal/index"
)

// StatusLine summarizes index and history state for display.
func (s *State) StatusLine() string {
	if s == nil || s.Index == nil {
		return ""
	}

	entries := 0
	if s.History != nil {
		entries = s.History.Len()
	}
	return formatStatus(s.Index.Stats(), entries)
}

func formatStatus(stats index.Stats, history int) string {
	parts := []string{
		fmt.Sprintf("Idx: %d docs", stats.Documents),
		fmt.Sprintf("pending %d", stats.Pending),
	}
	if stats.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("skipped %d", stats.Skipped))
	}
	if !stats.LastRefresh.IsZero() {
		parts = append(parts, fmt.Sprintf("refreshed %s", formatRefreshTime(stats.LastRefresh)))
	}
	parts = append(parts, fmt.Sprintf("history %d", history))

	return strings.Join(parts, " · ")
}

func formatRefreshTime(t time.Time) string {
	return t.Format("15:04")
}
