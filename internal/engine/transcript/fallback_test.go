package transcript

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestLanguageCandidates(t *testing.T) {
	chain := []string{"de", "de-DE", "en", "en-US", "en-GB"}
	tests := []struct {
		name      string
		preferred string
		want      []string
	}{
		{"no preference", "", chain},
		{"preferred first", "fr", []string{"fr", "de", "de-DE", "en", "en-US", "en-GB"}},
		{"regional adds base", "fr-CA", []string{"fr-CA", "fr", "de", "de-DE", "en", "en-US", "en-GB"}},
		{"preferred already in chain", "en", []string{"en", "de", "de-DE", "en-US", "en-GB"}},
		{"regional overlap dedups", "de-DE", []string{"de-DE", "de", "en", "en-US", "en-GB"}},
		{"whitespace trimmed", "  es ", []string{"es", "de", "de-DE", "en", "en-US", "en-GB"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LanguageCandidates(tt.preferred, chain)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LanguageCandidates(%q) = %v, want %v", tt.preferred, got, tt.want)
			}
		})
	}
}

// fakeFetcher scripts per-language outcomes and records the order of
// attempts.
type fakeFetcher struct {
	tracks map[string][]CaptionEvent // present = success
	errs   map[string]error          // overrides tracks
	asked  []string
}

func (f *fakeFetcher) FetchTrack(_ context.Context, lang string) ([]CaptionEvent, error) {
	f.asked = append(f.asked, lang)
	if err, ok := f.errs[lang]; ok {
		return nil, err
	}
	if ev, ok := f.tracks[lang]; ok {
		return ev, nil
	}
	return nil, Errf(KindLanguageUnavailable, "no caption track for language %q", lang)
}

func TestResolveTrackFallsThroughToEnglish(t *testing.T) {
	f := &fakeFetcher{tracks: map[string][]CaptionEvent{
		"en": {{Fragments: []string{"hello"}, StartMs: 0, EndMs: 1000}},
	}}
	events, lang, err := ResolveTrack(context.Background(), f, "", []string{"de", "de-DE", "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lang != "en" {
		t.Errorf("resolved lang = %q, want en", lang)
	}
	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}
	wantAsked := []string{"de", "de-DE", "en"}
	if !reflect.DeepEqual(f.asked, wantAsked) {
		t.Errorf("attempt order = %v, want %v", f.asked, wantAsked)
	}
}

func TestResolveTrackPreferredFirst(t *testing.T) {
	f := &fakeFetcher{tracks: map[string][]CaptionEvent{
		"fr": {{Fragments: []string{"bonjour"}, StartMs: 0, EndMs: 900}},
	}}
	_, lang, err := ResolveTrack(context.Background(), f, "fr", []string{"de", "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lang != "fr" {
		t.Errorf("resolved lang = %q, want fr", lang)
	}
	if len(f.asked) != 1 || f.asked[0] != "fr" {
		t.Errorf("attempts = %v, want exactly [fr]", f.asked)
	}
}

func TestResolveTrackAnyAsLastResort(t *testing.T) {
	f := &fakeFetcher{tracks: map[string][]CaptionEvent{
		"": {{Fragments: []string{"こんにちは"}, StartMs: 0, EndMs: 800}},
	}}
	_, lang, err := ResolveTrack(context.Background(), f, "", []string{"de", "en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lang != "" {
		t.Errorf("resolved lang = %q, want unconstrained", lang)
	}
	wantAsked := []string{"de", "en", ""}
	if !reflect.DeepEqual(f.asked, wantAsked) {
		t.Errorf("attempt order = %v, want %v", f.asked, wantAsked)
	}
}

func TestResolveTrackExhausted(t *testing.T) {
	f := &fakeFetcher{}
	_, _, err := ResolveTrack(context.Background(), f, "", []string{"de", "en"})
	if !IsKind(err, KindNoCaptions) {
		t.Fatalf("kind = %v, want %v", KindOf(err), KindNoCaptions)
	}
	// language_unavailable must never escape
	if IsKind(err, KindLanguageUnavailable) {
		t.Error("internal language_unavailable leaked to the caller")
	}
}

func TestResolveTrackAbortsOnTransportError(t *testing.T) {
	boom := Errf(KindTransport, "endpoint down")
	f := &fakeFetcher{errs: map[string]error{"de-DE": boom}}
	_, _, err := ResolveTrack(context.Background(), f, "", []string{"de", "de-DE", "en"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the transport error surfaced", err)
	}
	wantAsked := []string{"de", "de-DE"}
	if !reflect.DeepEqual(f.asked, wantAsked) {
		t.Errorf("attempts after failure = %v, want stop at %v", f.asked, wantAsked)
	}
}

func TestResolveTrackHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeFetcher{}
	_, _, err := ResolveTrack(ctx, f, "", []string{"de"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(f.asked) != 0 {
		t.Errorf("fetcher called %d times after cancellation", len(f.asked))
	}
}
