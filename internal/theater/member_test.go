package theater

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theaterparty/server/internal/domain"
)

func TestLatencyWindowRing(t *testing.T) {
	w := newLatencyWindow(3)

	assert.Equal(t, time.Duration(0), w.last())
	assert.Equal(t, time.Duration(0), w.mean())

	w.push(10 * time.Millisecond)
	w.push(20 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, w.last())
	assert.Equal(t, 15*time.Millisecond, w.mean())

	w.push(30 * time.Millisecond)
	w.push(40 * time.Millisecond) // evicts the 10ms sample
	assert.Equal(t, 40*time.Millisecond, w.last())
	assert.Equal(t, 30*time.Millisecond, w.mean())
}

func TestLatencyHistogram(t *testing.T) {
	w := newLatencyWindow(100)

	counts, labels := w.histogram()
	assert.Nil(t, counts, "fewer than two samples is not a distribution")
	assert.Nil(t, labels)

	for _, ms := range []int64{10, 10, 50, 90} {
		w.push(time.Duration(ms) * time.Millisecond)
	}
	counts, labels = w.histogram()
	require.Len(t, counts, histogramBuckets)
	require.Len(t, labels, histogramBuckets)

	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 4, total, "every sample lands in a bucket")
	assert.Equal(t, 2, counts[0], "both 10ms samples share the first bucket")
	assert.Equal(t, "10ms", labels[0])
}

func TestConnectionInfo(t *testing.T) {
	theater, clk := newTestTheater(t)
	ctx := context.Background()

	videoID := addTestVideo(t, theater, "first")
	_, err := theater.AdmitMember(ctx, "m2")
	require.NoError(t, err)
	_, err = theater.AdmitMember(ctx, "m1")
	require.NoError(t, err)

	_, err = theater.SetMemberInfo(ctx, "m1", domain.ChatUserInfo{
		Name:      "alice",
		AvatarURL: "/images/avatars/avatar1.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, theater.RecordLatency("m1", 25*time.Millisecond))
	require.NoError(t, theater.RecordLatency("m1", 35*time.Millisecond))
	assert.ErrorIs(t, theater.RecordLatency("ghost", time.Millisecond), ErrMemberNotFound)

	clk.advance(90 * time.Second)
	_, err = theater.ReportState(ctx, "m1", domain.PlaybackState{CurrentVideoID: videoID, CurrentTimeMs: 100})
	require.NoError(t, err)

	statuses := theater.ConnectionInfo()
	require.Len(t, statuses, 2)
	assert.Equal(t, "m1", statuses[0].MemberID, "statuses are sorted by member id")
	assert.Equal(t, "m2", statuses[1].MemberID)

	m1 := statuses[0]
	assert.Equal(t, "alice", m1.ChatName)
	assert.Equal(t, int64(90_000), m1.UptimeMs)
	assert.Equal(t, int64(35), m1.LatestPingMs)
	assert.Equal(t, int64(30), m1.AvgPingMs)
	require.NotNil(t, m1.LastReport)
	assert.Equal(t, int64(100), m1.LastReport.CurrentTimeMs)
	assert.NotEmpty(t, m1.LastReportAt)

	m2 := statuses[1]
	assert.Empty(t, m2.ChatName)
	assert.Nil(t, m2.LastReport)
}
