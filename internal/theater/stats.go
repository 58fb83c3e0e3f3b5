package theater

import (
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/theaterparty/server/internal/domain"
)

// ConnectionStatus is the diagnostic snapshot of one connection, served
// by the stats endpoint. None of it feeds reconciliation.
type ConnectionStatus struct {
	MemberID            string                `json:"member_id"`
	ChatName            string                `json:"chat_name"`
	UptimeMs            int64                 `json:"uptime_ms"`
	LatestPingMs        int64                 `json:"latest_ping_ms"`
	AvgPingMs           int64                 `json:"avg_ping_ms"`
	PingHistogram       []int                 `json:"ping_histogram"`
	PingHistogramLabels []string              `json:"ping_histogram_labels"`
	LastReport          *domain.PlaybackState `json:"last_report,omitempty"`
	LastReportAt        string                `json:"last_report_at,omitempty"`
}

// ConnectionInfo snapshots every member's diagnostics.
func (t *Theater) ConnectionInfo() []ConnectionStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	statuses := make([]ConnectionStatus, 0, len(t.members))
	for _, m := range t.members {
		counts, labels := m.latencies.histogram()
		status := ConnectionStatus{
			MemberID:            m.id,
			UptimeMs:            now.Sub(m.connectedAt).Milliseconds(),
			LatestPingMs:        m.latencies.last().Milliseconds(),
			AvgPingMs:           m.latencies.mean().Milliseconds(),
			PingHistogram:       counts,
			PingHistogramLabels: labels,
		}
		if m.identity != nil {
			status.ChatName = m.identity.Name
		}
		if m.lastReport != nil {
			state := m.lastReport.state
			status.LastReport = &state
			status.LastReportAt = m.lastReport.receivedAt.Format(time.RFC3339)
		}
		statuses = append(statuses, status)
	}
	slices.SortFunc(statuses, func(a, b ConnectionStatus) int {
		return strings.Compare(a.MemberID, b.MemberID)
	})

	return statuses
}
