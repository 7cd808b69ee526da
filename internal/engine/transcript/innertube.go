package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// YouTube InnerTube /get_transcript — low-level constants, wire types,
// and the endpoint client. The params blob and access key come from the
// page scraper and pass through untouched.

const (
	ytGetTranscriptURL = "https://www.youtube.com/youtubei/v1/get_transcript"
	ytWebVersion       = "2.20250222.10.00"
)

// --- request types ---

type ytWebClientCtx struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

type ytTranscriptReq struct {
	Context ytReqContext `json:"context"`
	Params  string       `json:"params"`
}

type ytReqContext struct {
	Client ytWebClientCtx `json:"client"`
}

// --- response types ---

type ytGetTranscriptResp struct {
	Actions []struct {
		UpdateEngagementPanelAction *struct {
			Content struct {
				TranscriptRenderer struct {
					Content struct {
						TranscriptSearchPanelRenderer struct {
							Body struct {
								TranscriptSegmentListRenderer struct {
									InitialSegments []struct {
										TranscriptSegmentRenderer *struct {
											StartMs string `json:"startMs"`
											EndMs   string `json:"endMs"`
											Snippet struct {
												Runs []struct {
													Text string `json:"text"`
												} `json:"runs"`
											} `json:"snippet"`
										} `json:"transcriptSegmentRenderer"`
									} `json:"initialSegments"`
								} `json:"transcriptSegmentListRenderer"`
							} `json:"body"`
						} `json:"transcriptSearchPanelRenderer"`
					} `json:"content"`
				} `json:"transcriptRenderer"`
			} `json:"content"`
		} `json:"updateEngagementPanelAction"`
	} `json:"actions"`
}

// CaptionEvent is one cue as delivered by the endpoint: raw text
// fragments plus optional millisecond timing.
type CaptionEvent struct {
	Fragments []string
	StartMs   int64 // -1 = absent
	EndMs     int64 // -1 = absent
}

// TrackFetcher fetches the caption events for one language candidate.
// lang == "" means "no language constraint, platform default". The
// fallback controller depends on this interface so tests can inject a
// fake endpoint.
type TrackFetcher interface {
	FetchTrack(ctx context.Context, lang string) ([]CaptionEvent, error)
}

// EndpointClient calls /get_transcript with a scraped token. Stateless
// beyond the token; one network call per invocation.
type EndpointClient struct {
	Token ExtractionToken
}

// FetchTrack POSTs the transcript params with a language context and
// parses the nested response into caption events.
//
// Outcomes:
//   - events                       → the track exists and has cues
//   - KindLanguageUnavailable      → well-formed response, no track for lang
//   - KindTransport                → retries exhausted / non-2xx
//   - KindParse                    → body did not match the expected structure
func (c *EndpointClient) FetchTrack(ctx context.Context, lang string) ([]CaptionEvent, error) {
	engine.IncrEndpointCalls()

	client := ytWebClientCtx{
		ClientName:    "WEB",
		ClientVersion: ytWebVersion,
		Gl:            "US",
	}
	if lang != "" {
		client.Hl = lang
	}
	payload, err := json.Marshal(ytTranscriptReq{
		Context: ytReqContext{Client: client},
		Params:  c.Token.Params.Raw(),
	})
	if err != nil {
		return nil, wrap(KindInternal, "encode transcript request", err)
	}

	body, err := c.post(ctx, payload)
	if err != nil {
		engine.IncrEndpointErrors()
		return nil, err
	}

	var resp ytGetTranscriptResp
	if err := json.Unmarshal(body, &resp); err != nil {
		engine.IncrEndpointErrors()
		return nil, wrap(KindParse, "decode transcript response", err)
	}

	events := collectEvents(resp)
	if len(events) == 0 {
		// Well-formed body, no caption track for this language.
		return nil, Errf(KindLanguageUnavailable, "no caption track for language %q", lang)
	}
	return events, nil
}

// post sends the request with WEB client headers through the shared
// retrying session, pacing calls with the configured limiter.
func (c *EndpointClient) post(ctx context.Context, payload []byte) ([]byte, error) {
	if engine.Cfg.Limiter != nil {
		if err := engine.Cfg.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := ytGetTranscriptURL + "?key=" + c.Token.AccessKey.Raw() + "&prettyPrint=false"

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "*/*")
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		req.Header.Set("X-Youtube-Client-Name", "1")
		req.Header.Set("X-Youtube-Client-Version", ytWebVersion)
		req.Header.Set("Origin", "https://www.youtube.com")
		req.Header.Set("Referer", "https://www.youtube.com/watch")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, wrap(KindTransport, "transcript endpoint call failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// error bodies are HTML; strip tags so the message stays readable
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		snippet := engine.Truncate(engine.CleanHTML(string(raw)), 256)
		return nil, Errf(KindTransport, "transcript endpoint HTTP %d: %s", resp.StatusCode, snippet)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 3*1024*1024))
	if err != nil {
		return nil, wrap(KindTransport, "read transcript response", err)
	}
	return data, nil
}

// collectEvents walks the engagement-panel structure and flattens it
// into caption events, preserving delivery order.
func collectEvents(resp ytGetTranscriptResp) []CaptionEvent {
	var events []CaptionEvent
	for _, action := range resp.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		segs := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, seg := range segs {
			r := seg.TranscriptSegmentRenderer
			if r == nil {
				continue
			}
			ev := CaptionEvent{StartMs: parseMs(r.StartMs), EndMs: parseMs(r.EndMs)}
			for _, run := range r.Snippet.Runs {
				ev.Fragments = append(ev.Fragments, run.Text)
			}
			events = append(events, ev)
		}
	}
	return events
}

// parseMs parses a millisecond string field; -1 means absent.
func parseMs(s string) int64 {
	if s == "" {
		return -1
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return -1
	}
	return ms
}
