package transcript

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Language fallback: an explicit walk over an ordered candidate list,
// ending in a synthetic "any" attempt (no language constraint). Kept
// separate from network code so a fake TrackFetcher exercises every
// transition in tests.

// anyLanguage is the terminal candidate: accept whatever the platform
// returns by default.
const anyLanguage = ""

// LanguageCandidates builds the ordered fallback chain. A preferred
// language goes first, followed by its base language when regional
// ("fr-CA" adds "fr"), then the configured default chain, duplicates
// removed. The default chain is always the safety net, never replaced.
func LanguageCandidates(preferred string, chain []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(lang string) {
		if lang == "" || seen[lang] {
			return
		}
		seen[lang] = true
		out = append(out, lang)
	}

	preferred = strings.TrimSpace(preferred)
	add(preferred)
	if base, _, ok := strings.Cut(preferred, "-"); ok {
		add(base)
	}
	for _, lang := range chain {
		add(lang)
	}
	return out
}

// ResolveTrack tries each candidate in order against the fetcher.
//
// Transitions:
//   - success                 → stop, return events tagged with that language
//   - KindLanguageUnavailable → advance to the next candidate
//   - anything else           → the endpoint/session is unhealthy for this
//     video; abort the whole walk (transport and parse failures are not
//     per-language conditions)
//
// When every explicit candidate is unavailable, one final attempt runs
// with no language constraint; if that also yields nothing the terminal
// state is KindNoCaptions.
func ResolveTrack(ctx context.Context, fetcher TrackFetcher, preferred string, chain []string) ([]CaptionEvent, string, error) {
	candidates := append(LanguageCandidates(preferred, chain), anyLanguage)

	for i, lang := range candidates {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		if i > 0 {
			engine.IncrLanguageFallbacks()
		}

		events, err := fetcher.FetchTrack(ctx, lang)
		if err == nil {
			return events, lang, nil
		}
		if IsKind(err, KindLanguageUnavailable) {
			slog.Debug("fallback: language unavailable",
				slog.String("lang", displayLang(lang)),
				slog.Int("remaining", len(candidates)-i-1))
			continue
		}
		return nil, "", err
	}

	return nil, "", Errf(KindNoCaptions, "no transcript available in any language")
}

func displayLang(lang string) string {
	if lang == anyLanguage {
		return "any"
	}
	return lang
}
