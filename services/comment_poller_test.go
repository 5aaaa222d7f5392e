package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher returns one prepared batch per call, then empty slices
type scriptedFetcher struct {
	mu      sync.Mutex
	batches [][]models.Comment
	calls   int
	since   []time.Time
}

func (f *scriptedFetcher) fetch(since time.Time) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.since = append(f.since, since)
	f.calls++
	if len(f.batches) == 0 {
		return nil, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

func testComment(id uint, userID uint, createdAt time.Time) models.Comment {
	return models.Comment{
		ID:         id,
		ProposalID: 1,
		UserID:     userID,
		UserName:   "Ben",
		Content:    "hello",
		CreatedAt:  createdAt,
	}
}

func TestCommentPoller_DedupAndWatermark(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	t3 := t2.Add(time.Minute)

	// The second batch overlaps the first at the watermark boundary
	fetcher := &scriptedFetcher{batches: [][]models.Comment{
		{testComment(1, 2, t1), testComment(2, 2, t2)},
		{testComment(2, 2, t2), testComment(3, 2, t3)},
	}}

	poller := NewCommentPoller(fetcher.fetch, time.Minute, 1, nil, nil)

	require.NoError(t, poller.PollOnce())
	require.NoError(t, poller.PollOnce())

	comments := poller.Comments()
	require.Len(t, comments, 3)
	assert.Equal(t, uint(1), comments[0].ID)
	assert.Equal(t, uint(2), comments[1].ID)
	assert.Equal(t, uint(3), comments[2].ID)

	assert.Equal(t, t3, poller.Watermark())

	// The second fetch used the first batch's watermark
	require.Len(t, fetcher.since, 2)
	assert.Equal(t, t2, fetcher.since[1])
}

func TestCommentPoller_SeededFromInitialList(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	fetcher := &scriptedFetcher{batches: [][]models.Comment{
		{testComment(1, 2, t1), testComment(2, 2, t2)},
	}}

	initial := []models.Comment{testComment(1, 2, t1)}
	poller := NewCommentPoller(fetcher.fetch, time.Minute, 1, nil, initial)
	assert.Equal(t, t1, poller.Watermark())

	require.NoError(t, poller.PollOnce())

	// The seeded comment was not duplicated
	comments := poller.Comments()
	require.Len(t, comments, 2)
	assert.Equal(t, t2, poller.Watermark())
}

func TestCommentPoller_NotifiesForForeignCommentsOnly(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	fetcher := &scriptedFetcher{batches: [][]models.Comment{
		{
			testComment(1, 1, t1),                  // authored by the local user
			testComment(2, 2, t1.Add(time.Minute)), // authored by someone else
		},
	}}

	notifier := NewMockNotifier()
	poller := NewCommentPoller(fetcher.fetch, time.Minute, 1, notifier, nil)

	require.NoError(t, poller.PollOnce())

	events := notifier.Recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "comment.new", events[0].Type)
	assert.Equal(t, uint(1), events[0].UserID)
	require.NotNil(t, events[0].TargetEntityID)
	assert.Equal(t, uint(2), *events[0].TargetEntityID)
}

func TestCommentPoller_PauseSuppressesPolling(t *testing.T) {
	fetcher := &scriptedFetcher{}
	poller := NewCommentPoller(fetcher.fetch, 10*time.Millisecond, 1, nil, nil)

	poller.Pause()
	poller.Start(context.Background())
	defer poller.Stop()

	time.Sleep(60 * time.Millisecond)

	fetcher.mu.Lock()
	calls := fetcher.calls
	fetcher.mu.Unlock()
	assert.Equal(t, 0, calls)
}

func TestCommentPoller_ResumePollsImmediately(t *testing.T) {
	fetcher := &scriptedFetcher{}
	poller := NewCommentPoller(fetcher.fetch, time.Hour, 1, nil, nil)

	poller.Pause()
	poller.Start(context.Background())
	defer poller.Stop()

	poller.Resume()

	// With an hour-long interval, any observed poll must have come from the
	// resume path
	assert.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return fetcher.calls == 1
	}, time.Second, 5*time.Millisecond)

	// Resuming an active poller re-arms nothing
	poller.Resume()
	time.Sleep(50 * time.Millisecond)

	fetcher.mu.Lock()
	calls := fetcher.calls
	fetcher.mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestCommentPoller_StopHaltsPolling(t *testing.T) {
	fetcher := &scriptedFetcher{}
	poller := NewCommentPoller(fetcher.fetch, 10*time.Millisecond, 1, nil, nil)

	poller.Start(context.Background())
	time.Sleep(35 * time.Millisecond)
	poller.Stop()

	fetcher.mu.Lock()
	callsAtStop := fetcher.calls
	fetcher.mu.Unlock()
	assert.Greater(t, callsAtStop, 0)

	time.Sleep(35 * time.Millisecond)

	fetcher.mu.Lock()
	callsAfter := fetcher.calls
	fetcher.mu.Unlock()
	assert.Equal(t, callsAtStop, callsAfter)
}
