package transcript

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Watch-page scraping. The page embeds two values the transcript
// endpoint needs: the API key YouTube ships for its own client-side
// calls, and the getTranscriptEndpoint params blob enumerating the
// video's caption tracks. Both are captured as opaque string literals.

// apiKeyRe finds the access key: a quoted literal after the
// INNERTUBE_API_KEY marker.
var apiKeyRe = regexp.MustCompile(`"INNERTUBE_API_KEY"\s*:\s*"([^"]+)"`)

// transcriptParamsRe finds the transcript params blob inside the
// embedded getTranscriptEndpoint object.
var transcriptParamsRe = regexp.MustCompile(`"getTranscriptEndpoint"\s*:\s*\{\s*"params"\s*:\s*"([^"]+)"`)

// consentMarker shows up when YouTube redirects to its consent
// interstitial instead of the watch page. Detected for diagnostics only;
// bypassing consent is a future extension.
const consentMarker = "consent.youtube.com"

// ScrapeWatchPage fetches the watch page for id and extracts the
// extraction token plus the video title.
//
// Failure modes:
//   - page fetch failed            → KindTransport
//   - access key missing           → KindPageStructure (layout drift or consent page, not retried)
//   - transcript params missing    → KindNoCaptions (normal outcome for captionless videos)
func ScrapeWatchPage(ctx context.Context, id VideoID) (PageData, error) {
	engine.IncrPageFetches()

	html, err := fetchWatchPage(ctx, id.WatchURL())
	if err != nil {
		engine.IncrPageFetchErrors()
		return PageData{}, wrap(KindTransport, "page fetch failed", err)
	}

	key := apiKeyRe.FindSubmatch(html)
	if key == nil {
		engine.IncrStructureDriftHits()
		if strings.Contains(string(html), consentMarker) {
			return PageData{}, Errf(KindPageStructure, "could not extract API key from page: consent interstitial served")
		}
		return PageData{}, Errf(KindPageStructure, "could not extract API key from page")
	}

	params := transcriptParamsRe.FindSubmatch(html)
	if params == nil {
		slog.Debug("scrape: no transcript params in page", slog.String("id", id.String()))
		return PageData{}, Errf(KindNoCaptions, "no captions available")
	}

	// The embedded params value is URL-encoded; the endpoint expects the
	// decoded (raw base64) form.
	blob := string(params[1])
	if decoded, err := url.QueryUnescape(blob); err == nil {
		blob = decoded
	}

	return PageData{
		Token: ExtractionToken{
			AccessKey: Opaque(key[1]),
			Params:    Opaque(blob),
		},
		Title: scrapeTitle(html),
	}, nil
}

// fetchWatchPage prefers BrowserClient (Chrome TLS fingerprint) when
// available — YouTube serves stripped markup to non-browser TLS
// fingerprints — falling back to the standard client. Timeouts are per
// attempt, enforced by the clients themselves; a deadline spanning the
// retry loop would expire together with the first timed-out attempt
// and leave nothing to retry with.
func fetchWatchPage(ctx context.Context, watchURL string) ([]byte, error) {
	if engine.Cfg.BrowserClient != nil {
		headers := engine.ChromeHeaders()
		headers["referer"] = "https://www.youtube.com/"

		return engine.RetryDo(ctx, engine.DefaultRetryConfig, func() ([]byte, error) {
			d, s, e := engine.Cfg.BrowserClient.Do("GET", watchURL, headers, nil)
			if e != nil {
				return nil, e
			}
			if s != 200 {
				return nil, engine.StatusError(s)
			}
			return d, nil
		})
	}

	return engine.FetchPage(ctx, engine.Cfg.HTTPClient, watchURL)
}

// scrapeTitle pulls og:title (falling back to <title>) from the page.
// Best effort: a missing title never fails the extraction.
func scrapeTitle(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return ""
	}
	if t, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && t != "" {
		return strings.TrimSpace(t)
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	return strings.TrimSuffix(title, " - YouTube")
}
