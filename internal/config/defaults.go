package config

import "time"

// Default values for configuration
const (
	DefaultConfigPath = "./config.yaml"

	// Log defaults
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	// Bot defaults
	DefaultBotTimezone        = "Europe/Berlin"
	DefaultBotInterval        = 10 * time.Minute // Recency window for mentions
	DefaultBotMaxStatusLength = 280              // Twitter's maximum status length

	// Twitter client defaults
	DefaultTwitterRequestTimeout = 30 * time.Second
	DefaultTwitterMentionsCount  = 20
)

// DefaultRules is the single greeting rule: any mention containing "hi".
var DefaultRules = []RuleConfig{
	{Contains: "hi", Greeting: "Hi"},
}
