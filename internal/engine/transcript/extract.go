package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Extract runs the full pipeline for one video: resolve the URL, scrape
// the watch page for the extraction token, fetch a caption track with
// language fallback, and normalize the result. Every failure comes back
// as a *Error with a stable Kind; KindLanguageUnavailable never escapes
// (the fallback walk absorbs it into KindNoCaptions).
func Extract(ctx context.Context, rawURL, preferredLang string) (res Result, err error) {
	engine.IncrExtractRequests()
	defer func() {
		if r := recover(); r != nil {
			err = Errf(KindInternal, "extract panicked: %v", r)
		}
		if err != nil {
			err = classify(ctx, err)
			logFailure(rawURL, err)
			engine.IncrExtractErrors()
		}
	}()

	id, err := ParseVideoURL(rawURL)
	if err != nil {
		return Result{}, err
	}

	page, err := ScrapeWatchPage(ctx, id)
	if err != nil {
		return Result{}, err
	}

	client := &EndpointClient{Token: page.Token}
	events, lang, err := ResolveTrack(ctx, client, preferredLang, engine.Cfg.LanguageChain)
	if err != nil {
		return Result{}, err
	}

	slog.Info("transcript extracted",
		slog.String("video_id", id.String()),
		slog.String("lang", displayLang(lang)),
		slog.Int("segments", len(events)))

	return Normalize(id, page.Title, lang, events), nil
}

// classify pins down the final Kind. Caller-driven cancellation wins
// over whatever the pipeline was doing when the context died; a caller
// deadline counts as cancellation too, unlike a per-attempt timeout
// inside the transport layer.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return &Error{Kind: KindCancelled, Message: "extraction cancelled", Err: err}
	}
	var te *Error
	if errors.As(err, &te) {
		if te.Kind == KindLanguageUnavailable {
			return &Error{Kind: KindNoCaptions, Message: te.Message, Err: te}
		}
		return te
	}
	return &Error{Kind: KindOf(err), Message: err.Error(), Err: err}
}

func logFailure(rawURL string, err error) {
	kind := KindOf(err)
	attrs := []any{slog.String("url", rawURL), slog.String("kind", string(kind))}
	switch kind {
	case KindNoCaptions, KindInvalidURL:
		// expected outcomes for a large share of inputs
		slog.Debug(fmt.Sprintf("extract: %v", err), attrs...)
	default:
		slog.Warn(fmt.Sprintf("extract failed: %v", err), attrs...)
	}
}
