package transcriptserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type GetTranscriptInput struct {
	URL      string `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, embed, shorts, or live link)"`
	Language string `json:"language,omitempty" jsonschema:"Preferred transcript language code (e.g. en, de, fr-CA). Falls back through related and default languages when unavailable."`
	MaxChars int    `json:"max_chars,omitempty" jsonschema:"Cap the returned text at this many characters (segments stay complete). 0 = no limit."`
}

type GetTranscriptOutput struct {
	VideoID  string               `json:"video_id"`
	Title    string               `json:"title,omitempty"`
	Language string               `json:"language,omitempty"`
	Text     string               `json:"text"`
	Segments []transcript.Segment `json:"segments"`
}

func registerGetTranscript(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transcript",
		Description: "Extract the transcript of a YouTube video. Returns the full text plus timed segments (id, text, start, duration in seconds) and the language the transcript was found in. No API key required.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input GetTranscriptInput) (*mcp.CallToolResult, GetTranscriptOutput, error) {
		if input.URL == "" {
			return nil, GetTranscriptOutput{}, fmt.Errorf("url is required")
		}

		cacheKey := engine.CacheKey("get_transcript", input.URL, input.Language, fmt.Sprintf("%d", input.MaxChars))
		if out, ok := engine.CacheLoadJSON[GetTranscriptOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		res, err := transcript.Extract(ctx, input.URL, input.Language)
		if err != nil {
			kind := transcript.KindOf(err)
			if kind != transcript.KindNoCaptions {
				slog.Warn("get_transcript error", slog.String("kind", string(kind)), slog.Any("error", err))
			}
			return nil, GetTranscriptOutput{}, fmt.Errorf("%s: %w", kind, err)
		}

		text := res.Text
		if input.MaxChars > 0 {
			text = engine.TruncateRunes(text, input.MaxChars, "…")
		}

		out := GetTranscriptOutput{
			VideoID:  res.VideoID,
			Title:    res.Title,
			Language: res.Language,
			Text:     text,
			Segments: res.Segments,
		}
		engine.CacheStoreJSON(ctx, cacheKey, out)
		return nil, out, nil
	})
}

type ResolveVideoInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL in any supported form"`
}

type ResolveVideoOutput struct {
	VideoID  string `json:"video_id"`
	WatchURL string `json:"watch_url"`
}

// resolve_video is the cheap preflight: URL validation without any
// network traffic.
func registerResolveVideo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_video",
		Description: "Resolve a YouTube URL (watch, youtu.be, embed, shorts, live) to its canonical 11-character video id and watch URL. Validation only, no network access.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ResolveVideoInput) (*mcp.CallToolResult, ResolveVideoOutput, error) {
		if input.URL == "" {
			return nil, ResolveVideoOutput{}, fmt.Errorf("url is required")
		}
		id, err := transcript.ParseVideoURL(input.URL)
		if err != nil {
			return nil, ResolveVideoOutput{}, err
		}
		return nil, ResolveVideoOutput{VideoID: id.String(), WatchURL: id.WatchURL()}, nil
	})
}
