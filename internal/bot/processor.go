package bot

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/edgard/tickbot/internal/bot/rules"
	"github.com/edgard/tickbot/internal/logger"
	"github.com/edgard/tickbot/internal/twitter"
)

const textPreviewLength = 50

// ProcessResult summarizes one pass over the mention timeline.
type ProcessResult struct {
	// RepliedAny is set as soon as a reply is attempted, even if posting it
	// then fails.
	RepliedAny bool
	Replies    []twitter.PostedStatus
	Failures   []error
	Stale      int
	Unmatched  int
}

// Processor replies to recent mentions that match a rule.
type Processor struct {
	logger          *slog.Logger
	evaluator       *rules.Evaluator
	poster          Poster
	now             func() time.Time
	maxStatusLength int
}

// NewProcessor creates a Processor. A nil now uses time.Now.
func NewProcessor(log *slog.Logger, evaluator *rules.Evaluator, poster Poster, now func() time.Time, maxStatusLength int) *Processor {
	if now == nil {
		now = time.Now
	}
	return &Processor{
		logger:          log.With("component", "mention_processor"),
		evaluator:       evaluator,
		poster:          poster,
		now:             now,
		maxStatusLength: maxStatusLength,
	}
}

// ProcessMentions walks mentions in the given order. Mentions whose age is at
// least interval are skipped without evaluation. A failed reply is logged and
// recorded; the remaining mentions are still processed.
func (p *Processor) ProcessMentions(ctx context.Context, mentions []twitter.Mention, interval time.Duration) ProcessResult {
	var result ProcessResult

	for _, m := range mentions {
		log := p.logger.With("mention_id", m.ID, "handle", m.Handle)

		age := m.Age(p.now())
		if age >= interval {
			log.DebugContext(ctx, "Skipping stale mention", "age", age, "interval", interval)
			result.Stale++
			continue
		}

		decision := p.evaluator.Evaluate(m)
		if !decision.Reply {
			log.DebugContext(ctx, "No rule matched mention")
			result.Unmatched++
			continue
		}

		result.RepliedAny = true
		if p.maxStatusLength > 0 && utf8.RuneCountInString(decision.Text) > p.maxStatusLength {
			log.WarnContext(ctx, "Reply exceeds status length limit",
				"length", utf8.RuneCountInString(decision.Text), "limit", p.maxStatusLength)
		}

		log.InfoContext(ctx, "Replying to mention",
			"mention_url", m.URL(),
			"text_preview", logger.Truncate(m.Text, textPreviewLength))
		status, err := p.poster.PostReply(ctx, decision.Text, m.ID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to post reply", "error", err)
			result.Failures = append(result.Failures, err)
			continue
		}

		result.Replies = append(result.Replies, status)
		if status.ID != 0 {
			log.InfoContext(ctx, "Posted reply", "status_url", status.URL())
		}
	}

	return result
}
