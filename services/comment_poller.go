package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/framewave-studio/framewave-portal-api/models"
)

// CommentFetcher fetches the comments of one proposal created after the
// given watermark, ordered by creation time ascending
type CommentFetcher func(since time.Time) ([]models.Comment, error)

// CommentPoller is a polling consumer over a proposal's comment thread. It
// maintains a local ordered list plus a watermark, fetches only comments
// newer than the watermark, deduplicates by id, and emits a notification for
// every newly observed comment authored by someone other than the local
// user. Polling pauses while the consumer is inactive and resumes on
// activation, re-arming the interval timer exactly once.
type CommentPoller struct {
	fetch       CommentFetcher
	interval    time.Duration
	localUserID uint
	notifier    Notifier

	mu           sync.Mutex
	comments     []models.Comment
	seen         map[uint]bool
	lastPolledAt time.Time
	paused       bool

	resume chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCommentPoller creates a poller. The initial comments seed the local
// list and the watermark.
func NewCommentPoller(fetch CommentFetcher, interval time.Duration, localUserID uint, notifier Notifier, initial []models.Comment) *CommentPoller {
	p := &CommentPoller{
		fetch:       fetch,
		interval:    interval,
		localUserID: localUserID,
		notifier:    notifier,
		seen:        make(map[uint]bool),
		resume:      make(chan struct{}, 1),
	}
	for _, c := range initial {
		p.comments = append(p.comments, c)
		p.seen[c.ID] = true
		if c.CreatedAt.After(p.lastPolledAt) {
			p.lastPolledAt = c.CreatedAt
		}
	}
	return p
}

// Start begins polling in the background until Stop is called or the
// context is cancelled
func (p *CommentPoller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx)
}

// Stop tears the poller down: the timer is cleared and any in-flight poll is
// abandoned before the next tick can fire
func (p *CommentPoller) Stop() {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}

// Pause suspends polling while the consumer is inactive
func (p *CommentPoller) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume reactivates the poller. The interval timer is re-armed exactly
// once: resuming an already active poller is a no-op.
func (p *CommentPoller) Resume() {
	p.mu.Lock()
	wasPaused := p.paused
	p.paused = false
	p.mu.Unlock()

	if !wasPaused {
		return
	}
	select {
	case p.resume <- struct{}{}:
	default:
	}
}

func (p *CommentPoller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.resume:
			// Poll immediately on activation, then fall back to the ticker
			ticker.Reset(p.interval)
			p.pollIfActive()
		case <-ticker.C:
			p.pollIfActive()
		}
	}
}

func (p *CommentPoller) pollIfActive() {
	p.mu.Lock()
	paused := p.paused
	p.mu.Unlock()

	if paused {
		return
	}
	if err := p.PollOnce(); err != nil {
		log.Printf("Comment poll failed: %v", err)
	}
}

// PollOnce performs a single fetch-and-merge cycle. The mutex serializes
// cycles so two polls never run concurrently for the same watermark.
func (p *CommentPoller) PollOnce() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	fetched, err := p.fetch(p.lastPolledAt)
	if err != nil {
		return err
	}

	for _, c := range fetched {
		// Deduplicate by id: a comment at exactly the watermark timestamp
		// can be returned again
		if p.seen[c.ID] {
			continue
		}
		p.seen[c.ID] = true
		p.comments = append(p.comments, c)
		if c.CreatedAt.After(p.lastPolledAt) {
			p.lastPolledAt = c.CreatedAt
		}

		if p.notifier != nil && c.UserID != p.localUserID {
			commentID := c.ID
			p.notifier.Notify(NotificationEvent{
				UserID:         p.localUserID,
				Type:           "comment.new",
				Title:          "New comment",
				Message:        c.UserName + " commented on the proposal",
				TargetEntityID: &commentID,
			})
		}
	}

	return nil
}

// Comments returns a snapshot of the local ordered list
func (p *CommentPoller) Comments() []models.Comment {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]models.Comment, len(p.comments))
	copy(out, p.comments)
	return out
}

// Watermark returns the timestamp of the most recently observed comment
func (p *CommentPoller) Watermark() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lastPolledAt
}
