package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgard/tickbot/internal/config"
	"github.com/edgard/tickbot/internal/twitter"
)

type fixedLabel string

func (f fixedLabel) CurrentLabel() string { return string(f) }

const label = "It is 14:05:09 on a Monday (15-01-2024)."

func TestEvaluateDefaultRule(t *testing.T) {
	t.Parallel()

	eval := NewEvaluator(FromConfig(config.DefaultRules), fixedLabel(label))

	type evaluateTestCase struct {
		name string
		text string
		want Decision
	}

	testGroups := map[string][]evaluateTestCase{
		"Matches": {
			{
				name: "lower case",
				text: "@tickbot hi",
				want: Decision{Reply: true, Text: "Hi @alice! " + label},
			},
			{
				name: "upper case",
				text: "HI THERE",
				want: Decision{Reply: true, Text: "Hi @alice! " + label},
			},
			{
				name: "mixed case",
				text: "oh, hI",
				want: Decision{Reply: true, Text: "Hi @alice! " + label},
			},
			{
				name: "naive substring in this",
				text: "what is this",
				want: Decision{Reply: true, Text: "Hi @alice! " + label},
			},
			{
				name: "naive substring in history",
				text: "tell me some history",
				want: Decision{Reply: true, Text: "Hi @alice! " + label},
			},
		},
		"No match": {
			{name: "empty text", text: "", want: NoReply},
			{name: "unrelated text", text: "@tickbot what time is it", want: NoReply},
			{name: "split letters", text: "h i", want: NoReply},
		},
	}

	for group, cases := range testGroups {
		cases := cases
		t.Run(group, func(t *testing.T) {
			t.Parallel()
			for _, tc := range cases {
				tc := tc
				t.Run(tc.name, func(t *testing.T) {
					t.Parallel()
					got := eval.Evaluate(twitter.Mention{ID: 1, Text: tc.text, Handle: "alice"})
					assert.Equal(t, tc.want, got)
				})
			}
		})
	}
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	t.Parallel()

	eval := NewEvaluator([]Rule{
		{Contains: "Hello", Greeting: "Hello"},
		{Contains: "hi", Greeting: "Hi"},
	}, fixedLabel(label))

	got := eval.Evaluate(twitter.Mention{Text: "hello, hi", Handle: "bob"})
	assert.Equal(t, Decision{Reply: true, Text: "Hello @bob! " + label}, got)

	got = eval.Evaluate(twitter.Mention{Text: "hi", Handle: "bob"})
	assert.Equal(t, Decision{Reply: true, Text: "Hi @bob! " + label}, got)
}

func TestEvaluateSkipsEmptyTriggers(t *testing.T) {
	t.Parallel()

	eval := NewEvaluator([]Rule{{Contains: " ", Greeting: "Yo"}}, fixedLabel(label))
	assert.Equal(t, NoReply, eval.Evaluate(twitter.Mention{Text: "anything", Handle: "bob"}))
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	got := FromConfig([]config.RuleConfig{
		{Contains: "hi", Greeting: "Hi"},
		{Contains: "hello", Greeting: "Hello"},
	})
	assert.Equal(t, []Rule{
		{Contains: "hi", Greeting: "Hi"},
		{Contains: "hello", Greeting: "Hello"},
	}, got)
}
