package transcript

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

const watchPageHTML = `<!doctype html>
<html><head>
<title>Me at the zoo - YouTube</title>
<meta property="og:title" content="Me at the zoo">
</head><body>
<script>var ytcfg = {"INNERTUBE_API_KEY":"AIzaSyTestKey_42","INNERTUBE_CONTEXT":{}};</script>
<script>var ytInitialData = {"engagementPanels":[{"getTranscriptEndpoint":{"params":"Cg0KC2pOUVhBQzlJVlJ3%3D%3D"}}]};</script>
</body></html>`

func TestScrapeWatchPage(t *testing.T) {
	setupTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/watch" || r.URL.Query().Get("v") != "jNQXAC9IVRw" {
			t.Errorf("unexpected request: %s", r.URL)
		}
		io.WriteString(w, watchPageHTML)
	}))

	page, err := ScrapeWatchPage(context.Background(), "jNQXAC9IVRw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Token.AccessKey.Raw() != "AIzaSyTestKey_42" {
		t.Errorf("access key = %q", page.Token.AccessKey.Raw())
	}
	// embedded params are URL-encoded; the token carries the decoded form
	if page.Token.Params.Raw() != "Cg0KC2pOUVhBQzlJVlJ3==" {
		t.Errorf("params = %q, want decoded blob", page.Token.Params.Raw())
	}
	if page.Title != "Me at the zoo" {
		t.Errorf("title = %q", page.Title)
	}
}

func TestScrapeWatchPageTitleFallback(t *testing.T) {
	html := strings.Replace(watchPageHTML, `<meta property="og:title" content="Me at the zoo">`, "", 1)
	setupTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, html)
	}))

	page, err := ScrapeWatchPage(context.Background(), "jNQXAC9IVRw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Title != "Me at the zoo" {
		t.Errorf("title = %q, want the <title> with the suffix stripped", page.Title)
	}
}

func TestScrapeWatchPageMissingKey(t *testing.T) {
	setupTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<!doctype html><html><body>nothing recognizable here</body></html>`)
	}))

	_, err := ScrapeWatchPage(context.Background(), "jNQXAC9IVRw")
	if !IsKind(err, KindPageStructure) {
		t.Fatalf("kind = %v, want %v", KindOf(err), KindPageStructure)
	}
}

func TestScrapeWatchPageConsentInterstitial(t *testing.T) {
	setupTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body><form action="https://consent.youtube.com/save">Before you continue</form></body></html>`)
	}))

	_, err := ScrapeWatchPage(context.Background(), "jNQXAC9IVRw")
	if !IsKind(err, KindPageStructure) {
		t.Fatalf("kind = %v, want %v", KindOf(err), KindPageStructure)
	}
	if !strings.Contains(err.Error(), "consent") {
		t.Errorf("error %q should name the consent interstitial", err)
	}
}

func TestScrapeWatchPageNoCaptions(t *testing.T) {
	html := `<!doctype html><html><body><script>{"INNERTUBE_API_KEY":"AIzaSyTestKey_42"}</script></body></html>`
	setupTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, html)
	}))

	_, err := ScrapeWatchPage(context.Background(), "jNQXAC9IVRw")
	if !IsKind(err, KindNoCaptions) {
		t.Fatalf("kind = %v, want %v", KindOf(err), KindNoCaptions)
	}
}

func TestScrapeWatchPageRetriesTimedOutAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(600 * time.Millisecond) // outlasts the per-attempt timeout
		}
		io.WriteString(w, watchPageHTML)
	}))
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	// per-attempt timeout lives in the client; the retry loop itself
	// carries no deadline, so a timed-out attempt gets another try
	engine.Init(engine.Config{
		FetchTimeout: 200 * time.Millisecond,
		HTTPClient: &http.Client{
			Timeout:   200 * time.Millisecond,
			Transport: rewriteTransport{target: target},
		},
	})

	page, err := ScrapeWatchPage(context.Background(), "jNQXAC9IVRw")
	if err != nil {
		t.Fatalf("timed-out first attempt was not retried: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d calls, want 2", got)
	}
	if page.Token.AccessKey.Raw() != "AIzaSyTestKey_42" {
		t.Errorf("access key = %q after retry", page.Token.AccessKey.Raw())
	}
}

func TestScrapeWatchPageFetchFailure(t *testing.T) {
	setupTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := ScrapeWatchPage(context.Background(), "jNQXAC9IVRw")
	if !IsKind(err, KindTransport) {
		t.Fatalf("kind = %v, want %v", KindOf(err), KindTransport)
	}
}
