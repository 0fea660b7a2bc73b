package bot

import (
	"context"
	"errors"
	"time"

	"github.com/edgard/tickbot/internal/twitter"
)

var errPost = errors.New("status is a duplicate")

type postCall struct {
	Text      string
	InReplyTo int64
}

// fakeClient records every call and fails the ones it is told to.
type fakeClient struct {
	account      twitter.Account
	mentions     []twitter.Mention
	rateLimit    int
	rateLimitSet bool

	verifyErr   error
	mentionsErr error
	statusErr   error
	replyErrs   map[int64]error

	calls   []string
	replies []postCall
	status  []postCall
	nextID  int64
}

var _ twitter.Client = (*fakeClient)(nil)

func (f *fakeClient) VerifyCredentials(context.Context) (twitter.Account, error) {
	f.calls = append(f.calls, "verify")
	if f.verifyErr != nil {
		return twitter.Account{}, f.verifyErr
	}
	return f.account, nil
}

func (f *fakeClient) MentionsTimeline(context.Context) ([]twitter.Mention, error) {
	f.calls = append(f.calls, "mentions")
	if f.mentionsErr != nil {
		return nil, f.mentionsErr
	}
	return f.mentions, nil
}

func (f *fakeClient) LastRateLimitRemaining() (int, bool) {
	return f.rateLimit, f.rateLimitSet
}

func (f *fakeClient) PostReply(_ context.Context, text string, inReplyTo int64) (twitter.PostedStatus, error) {
	f.calls = append(f.calls, "reply")
	f.replies = append(f.replies, postCall{Text: text, InReplyTo: inReplyTo})
	if err := f.replyErrs[inReplyTo]; err != nil {
		return twitter.PostedStatus{}, err
	}
	f.nextID++
	return twitter.PostedStatus{ID: 1000 + f.nextID, Text: text, InReplyTo: inReplyTo}, nil
}

func (f *fakeClient) PostStatus(_ context.Context, text string) (twitter.PostedStatus, error) {
	f.calls = append(f.calls, "status")
	f.status = append(f.status, postCall{Text: text})
	if f.statusErr != nil {
		return twitter.PostedStatus{}, f.statusErr
	}
	f.nextID++
	return twitter.PostedStatus{ID: 1000 + f.nextID, Text: text}, nil
}

// Monday 2024-01-15 14:05:09 in Berlin.
var fixedNow = time.Date(2024, 1, 15, 13, 5, 9, 0, time.UTC)

const fixedLabel = "It is 14:05:09 on a Monday (15-01-2024)."

func mention(id int64, text, handle string, age time.Duration) twitter.Mention {
	return twitter.Mention{ID: id, Text: text, Handle: handle, CreatedAt: fixedNow.Add(-age)}
}
