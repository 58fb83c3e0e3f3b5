package theater

import (
	"fmt"
	"time"

	"github.com/theaterparty/server/internal/domain"
)

// audienceMember proxies one connection inside the engine: its latency
// samples, self-reported chat identity and last playback report. It is
// created on admission, destroyed on removal, and never referenced
// across that boundary by any other component.
type audienceMember struct {
	id          string
	connectedAt time.Time

	identity *domain.ChatUserInfo

	latencies latencyWindow

	lastReport      *memberReport
	autoplayStrikes int
}

type memberReport struct {
	state      domain.PlaybackState
	receivedAt time.Time
}

// latencyWindow is a bounded ring of round-trip samples; pushing beyond
// capacity overwrites the oldest sample.
type latencyWindow struct {
	samples []time.Duration
	start   int
	cap     int
}

func newLatencyWindow(cap int) latencyWindow {
	return latencyWindow{cap: cap}
}

func (w *latencyWindow) push(d time.Duration) {
	if len(w.samples) < w.cap {
		w.samples = append(w.samples, d)
		return
	}
	w.samples[w.start] = d
	w.start = (w.start + 1) % w.cap
}

func (w *latencyWindow) last() time.Duration {
	if len(w.samples) == 0 {
		return 0
	}
	if len(w.samples) < w.cap {
		return w.samples[len(w.samples)-1]
	}
	return w.samples[(w.start+w.cap-1)%w.cap]
}

func (w *latencyWindow) mean() time.Duration {
	if len(w.samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, s := range w.samples {
		sum += s
	}
	return sum / time.Duration(len(w.samples))
}

const histogramBuckets = 8

// histogram buckets the current samples into eight fixed intervals
// spanning [min, max]. Purely diagnostic; reconciliation never reads it.
func (w *latencyWindow) histogram() (counts []int, labels []string) {
	if len(w.samples) < 2 {
		return nil, nil
	}

	min, max := w.samples[0], w.samples[0]
	for _, s := range w.samples[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	intervalMs := (max.Milliseconds() - min.Milliseconds() + 1) / histogramBuckets
	if intervalMs < 1 {
		intervalMs = 1
	}

	counts = make([]int, histogramBuckets)
	labels = make([]string, histogramBuckets)
	for i := range labels {
		labels[i] = fmt.Sprintf("%dms", min.Milliseconds()+int64(i)*intervalMs)
	}
	for _, s := range w.samples {
		bucket := (s.Milliseconds() - min.Milliseconds()) / intervalMs
		if bucket >= histogramBuckets {
			bucket = histogramBuckets - 1
		}
		counts[bucket]++
	}

	return counts, labels
}
