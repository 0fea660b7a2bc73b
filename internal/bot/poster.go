package bot

import (
	"context"
	"log/slog"

	"github.com/edgard/tickbot/internal/twitter"
)

// Poster publishes replies and statuses. twitter.Client satisfies it.
type Poster interface {
	PostReply(ctx context.Context, text string, inReplyTo int64) (twitter.PostedStatus, error)
	PostStatus(ctx context.Context, text string) (twitter.PostedStatus, error)
}

// dryRunPoster logs what would be posted and publishes nothing.
type dryRunPoster struct {
	logger *slog.Logger
}

// NewDryRunPoster returns a Poster that only logs.
func NewDryRunPoster(logger *slog.Logger) Poster {
	return dryRunPoster{logger: logger.With("component", "dry_run_poster")}
}

func (p dryRunPoster) PostReply(ctx context.Context, text string, inReplyTo int64) (twitter.PostedStatus, error) {
	p.logger.InfoContext(ctx, "Dry run: would reply", "in_reply_to", inReplyTo, "text", text)
	return twitter.PostedStatus{Text: text, InReplyTo: inReplyTo}, nil
}

func (p dryRunPoster) PostStatus(ctx context.Context, text string) (twitter.PostedStatus, error) {
	p.logger.InfoContext(ctx, "Dry run: would post status", "text", text)
	return twitter.PostedStatus{Text: text}, nil
}
