// Package twitter is the typed boundary between tickbot and the Twitter REST
// API. Responses are converted into Mention, Account and PostedStatus values
// as soon as they arrive; missing or malformed fields fail the call.
package twitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gotwitter "github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"
	"github.com/go-playground/validator/v10"

	"github.com/edgard/tickbot/internal/config"
	"github.com/edgard/tickbot/internal/logger"
)

// ErrMalformedResponse is returned when an API response lacks a field the
// bot depends on.
var ErrMalformedResponse = errors.New("malformed api response")

// rateLimitHeader carries the remaining calls for the endpoint just used.
const rateLimitHeader = "x-rate-limit-remaining"

// Client is the set of API operations the bot consumes.
type Client interface {
	// VerifyCredentials checks the credentials and returns the account.
	VerifyCredentials(ctx context.Context) (Account, error)

	// MentionsTimeline returns recent mentions in the order the API sent them.
	MentionsTimeline(ctx context.Context) ([]Mention, error)

	// LastRateLimitRemaining reports the rate-limit header of the last call.
	// ok is false when the header was absent or unparsable.
	LastRateLimitRemaining() (remaining int, ok bool)

	// PostReply publishes text as a reply to the status inReplyTo.
	PostReply(ctx context.Context, text string, inReplyTo int64) (PostedStatus, error)

	// PostStatus publishes text as a new top-level status.
	PostStatus(ctx context.Context, text string) (PostedStatus, error)
}

// Options tunes the API client.
type Options struct {
	RequestTimeout time.Duration
	MentionsCount  int

	// HTTPClient is the base client the OAuth transport wraps. Nil uses a
	// client with the default transport.
	HTTPClient *http.Client
}

// APIClient implements Client on top of go-twitter with OAuth 1.0a user
// context signing.
type APIClient struct {
	api           *gotwitter.Client
	logger        *slog.Logger
	validate      *validator.Validate
	mentionsCount int

	rateLimitRemaining int
	rateLimitKnown     bool
}

var _ Client = (*APIClient)(nil)

// New creates an APIClient signed with creds. No request is made.
func New(ctx context.Context, creds config.Credentials, opts Options, log *slog.Logger) *APIClient {
	if log == nil {
		log = logger.Discard()
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	ctx = context.WithValue(ctx, oauth1.HTTPClient, base)

	oauthConfig := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	httpClient := oauthConfig.Client(ctx, oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret))
	httpClient.Timeout = opts.RequestTimeout

	count := opts.MentionsCount
	if count <= 0 {
		count = config.DefaultTwitterMentionsCount
	}

	return &APIClient{
		api:           gotwitter.NewClient(httpClient),
		logger:        log.With("component", "twitter_client"),
		validate:      validator.New(),
		mentionsCount: count,
	}
}

// VerifyCredentials implements Client.
func (c *APIClient) VerifyCredentials(ctx context.Context) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	user, resp, err := c.api.Accounts.VerifyCredentials(&gotwitter.AccountVerifyParams{
		IncludeEntities: gotwitter.Bool(false),
		SkipStatus:      gotwitter.Bool(true),
		IncludeEmail:    gotwitter.Bool(false),
	})
	if err := c.checkResponse(resp, err); err != nil {
		return Account{}, fmt.Errorf("verify credentials: %w", err)
	}
	if user == nil {
		return Account{}, fmt.Errorf("verify credentials: %w: empty user", ErrMalformedResponse)
	}

	account := Account{
		ID:              user.ID,
		ScreenName:      user.ScreenName,
		StatusesCount:   user.StatusesCount,
		FavouritesCount: user.FavouritesCount,
		FriendsCount:    user.FriendsCount,
		FollowersCount:  user.FollowersCount,
	}
	if err := c.validateValue("account", account); err != nil {
		return Account{}, fmt.Errorf("verify credentials: %w", err)
	}
	return account, nil
}

// MentionsTimeline implements Client.
func (c *APIClient) MentionsTimeline(ctx context.Context) ([]Mention, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tweets, resp, err := c.api.Timelines.MentionTimeline(&gotwitter.MentionTimelineParams{
		Count:     c.mentionsCount,
		TweetMode: "extended",
	})
	if err := c.checkResponse(resp, err); err != nil {
		return nil, fmt.Errorf("fetch mentions: %w", err)
	}

	mentions := make([]Mention, 0, len(tweets))
	for i := range tweets {
		m, err := c.toMention(tweets[i])
		if err != nil {
			return nil, fmt.Errorf("fetch mentions: mention %d: %w", i, err)
		}
		mentions = append(mentions, m)
	}

	c.logger.DebugContext(ctx, "Fetched mentions", "count", len(mentions))
	return mentions, nil
}

// LastRateLimitRemaining implements Client.
func (c *APIClient) LastRateLimitRemaining() (int, bool) {
	return c.rateLimitRemaining, c.rateLimitKnown
}

// PostReply implements Client.
func (c *APIClient) PostReply(ctx context.Context, text string, inReplyTo int64) (PostedStatus, error) {
	if inReplyTo == 0 {
		return PostedStatus{}, errors.New("post reply: missing in-reply-to status id")
	}
	status, err := c.update(ctx, text, &gotwitter.StatusUpdateParams{InReplyToStatusID: inReplyTo})
	if err != nil {
		return PostedStatus{}, fmt.Errorf("post reply to %d: %w", inReplyTo, err)
	}
	status.InReplyTo = inReplyTo
	return status, nil
}

// PostStatus implements Client.
func (c *APIClient) PostStatus(ctx context.Context, text string) (PostedStatus, error) {
	status, err := c.update(ctx, text, nil)
	if err != nil {
		return PostedStatus{}, fmt.Errorf("post status: %w", err)
	}
	return status, nil
}

func (c *APIClient) update(ctx context.Context, text string, params *gotwitter.StatusUpdateParams) (PostedStatus, error) {
	if err := ctx.Err(); err != nil {
		return PostedStatus{}, err
	}
	if strings.TrimSpace(text) == "" {
		return PostedStatus{}, errors.New("status text is empty")
	}

	tweet, resp, err := c.api.Statuses.Update(text, params)
	if err := c.checkResponse(resp, err); err != nil {
		return PostedStatus{}, err
	}
	if tweet == nil {
		return PostedStatus{}, fmt.Errorf("%w: empty status", ErrMalformedResponse)
	}

	status := PostedStatus{ID: tweet.ID, Text: tweetText(*tweet)}
	if err := c.validateValue("status", status); err != nil {
		return PostedStatus{}, err
	}
	return status, nil
}

// checkResponse records the rate-limit header and turns non-2xx responses
// without an API error body into errors.
func (c *APIClient) checkResponse(resp *http.Response, err error) error {
	if resp != nil {
		c.recordRateLimit(resp.Header)
	}
	if err != nil {
		return err
	}
	if resp == nil {
		return errors.New("no response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

func (c *APIClient) recordRateLimit(h http.Header) {
	raw := h.Get(rateLimitHeader)
	if raw == "" {
		c.rateLimitKnown = false
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		c.logger.Warn("Ignoring unparsable rate limit header", "value", raw, "error", err)
		c.rateLimitKnown = false
		return
	}
	c.rateLimitRemaining = n
	c.rateLimitKnown = true
}

func (c *APIClient) toMention(t gotwitter.Tweet) (Mention, error) {
	if t.User == nil {
		return Mention{}, fmt.Errorf("%w: missing user", ErrMalformedResponse)
	}
	created, err := t.CreatedAtTime()
	if err != nil {
		return Mention{}, fmt.Errorf("%w: created_at %q: %v", ErrMalformedResponse, t.CreatedAt, err)
	}

	m := Mention{
		ID:        t.ID,
		Text:      tweetText(t),
		Handle:    t.User.ScreenName,
		CreatedAt: created,
	}
	if err := c.validateValue("mention", m); err != nil {
		return Mention{}, err
	}
	return m, nil
}

// validateValue names every missing field of v in the returned error.
func (c *APIClient) validateValue(kind string, v any) error {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, kind, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: %s missing %s", ErrMalformedResponse, kind, strings.Join(fields, ", "))
}

// tweetText prefers the untruncated text returned in extended mode.
func tweetText(t gotwitter.Tweet) string {
	if t.FullText != "" {
		return t.FullText
	}
	return t.Text
}
