// Package bot implements one tickbot session: verify the account, answer
// recent mentions, and post the idle status when nothing was answered.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgard/tickbot/internal/bot/rules"
	"github.com/edgard/tickbot/internal/clock"
	"github.com/edgard/tickbot/internal/config"
	"github.com/edgard/tickbot/internal/twitter"
)

var (
	// ErrVerify wraps a failed credential check.
	ErrVerify = errors.New("credential verification failed")

	// ErrFetchMentions wraps a failed mention timeline request.
	ErrFetchMentions = errors.New("fetching mentions failed")

	// ErrIdlePost wraps a failed idle status post.
	ErrIdlePost = errors.New("posting idle status failed")
)

// Bot runs sessions against one account.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	client    twitter.Client
	poster    Poster
	clock     *clock.Formatter
	processor *Processor
}

// NewBot creates a Bot. When cfg.Bot.DryRun is set, replies and statuses are
// logged instead of posted.
func NewBot(logger *slog.Logger, cfg *config.Config, client twitter.Client, formatter *clock.Formatter) *Bot {
	log := logger.With("component", "session")

	var poster Poster = client
	if cfg.Bot.DryRun {
		poster = NewDryRunPoster(logger)
	}

	evaluator := rules.NewEvaluator(rules.FromConfig(cfg.Bot.Rules), formatter)

	return &Bot{
		logger:    log,
		cfg:       cfg,
		client:    client,
		poster:    poster,
		clock:     formatter,
		processor: NewProcessor(logger, evaluator, poster, formatter.Now, cfg.Bot.MaxStatusLength),
	}
}

// Verify checks the credentials and logs the account statistics.
func (b *Bot) Verify(ctx context.Context) (twitter.Account, error) {
	account, err := b.client.VerifyCredentials(ctx)
	if err != nil {
		return twitter.Account{}, fmt.Errorf("%w: %w", ErrVerify, err)
	}

	b.logger.InfoContext(ctx, "Verified account",
		"user", account.ScreenName,
		"tweet_count", account.StatusesCount,
		"favourite_count", account.FavouritesCount,
		"friends_count", account.FriendsCount,
		"followers_count", account.FollowersCount)
	return account, nil
}

// Run performs one session. Verification, timeline and idle post failures
// end the session with an error; reply failures do not.
func (b *Bot) Run(ctx context.Context) error {
	startTime := time.Now()

	if _, err := b.Verify(ctx); err != nil {
		return err
	}

	mentions, err := b.client.MentionsTimeline(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchMentions, err)
	}
	if remaining, ok := b.client.LastRateLimitRemaining(); ok {
		b.logger.InfoContext(ctx, "Fetched mentions", "count", len(mentions), "rate_limit_remaining", remaining)
	} else {
		b.logger.InfoContext(ctx, "Fetched mentions", "count", len(mentions))
	}

	result := b.processor.ProcessMentions(ctx, mentions, b.cfg.Bot.Interval)

	idlePosted := false
	if b.shouldPostIdle(result) {
		if err := b.postIdle(ctx); err != nil {
			return err
		}
		idlePosted = true
	} else if len(result.Replies) == 0 {
		b.logger.WarnContext(ctx, "Every reply failed, idle status suppressed", "failures", len(result.Failures))
	}

	b.logger.InfoContext(ctx, "Session finished",
		"mentions", len(mentions),
		"stale", result.Stale,
		"unmatched", result.Unmatched,
		"replies", len(result.Replies),
		"reply_failures", len(result.Failures),
		"idle_posted", idlePosted,
		"duration", time.Since(startTime))
	return nil
}

func (b *Bot) shouldPostIdle(result ProcessResult) bool {
	if !result.RepliedAny {
		return true
	}
	return b.cfg.Bot.IdleOnFailedReplies && len(result.Replies) == 0
}

func (b *Bot) postIdle(ctx context.Context) error {
	text := b.clock.CurrentLabel()
	status, err := b.poster.PostStatus(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIdlePost, err)
	}
	if status.ID != 0 {
		b.logger.InfoContext(ctx, "Posted idle status", "status_url", status.URL())
	}
	return nil
}
