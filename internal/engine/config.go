package engine

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	FetchTimeout  time.Duration // per-attempt HTTP timeout
	LanguageChain []string      // default language fallback order for transcripts

	CacheTTL             time.Duration
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient    *http.Client   // InnerTube API calls
	BrowserClient *BrowserClient // nil = watch-page fetches fall back to HTTPClient
	Limiter       *rate.Limiter  // nil = no outbound pacing
}

// DefaultLanguageChain is tried front to back when the caller expresses
// no preference. The synthetic "any" step is appended by the fallback
// controller, not listed here.
var DefaultLanguageChain = []string{"de", "de-DE", "en", "en-US", "en-GB"}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (transcript, server).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if len(c.LanguageChain) == 0 {
		c.LanguageChain = DefaultLanguageChain
	}
	cfg = c
	Cfg = &cfg
}
