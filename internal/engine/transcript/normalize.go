package transcript

import "strings"

// Segment is one caption cue with timing in seconds. Start and Duration
// are pointers so a cue without timing information serializes without
// the fields instead of as zeroes.
type Segment struct {
	ID       int      `json:"id"`
	Text     string   `json:"text"`
	Start    *float64 `json:"start,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

// Result is the normalized transcript handed to callers.
type Result struct {
	VideoID  string    `json:"video_id"`
	Title    string    `json:"title,omitempty"`
	Language string    `json:"language,omitempty"`
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Normalize turns raw caption events into the public transcript shape.
// Fragments within one event concatenate with no separator (the source
// already carries its own whitespace), then the result is trimmed.
// Events that collapse to empty text are dropped without consuming a
// segment id, so ids stay dense. Timestamps convert from milliseconds
// to seconds; an event with a start but no end gets a one-second
// duration.
func Normalize(id VideoID, title, language string, events []CaptionEvent) Result {
	segments := make([]Segment, 0, len(events))
	parts := make([]string, 0, len(events))

	for _, ev := range events {
		text := strings.TrimSpace(strings.Join(ev.Fragments, ""))
		if text == "" {
			continue
		}

		seg := Segment{ID: len(segments), Text: text}
		if ev.StartMs >= 0 {
			start := float64(ev.StartMs) / 1000.0
			seg.Start = &start
			dur := 1.0
			if ev.EndMs >= 0 {
				dur = float64(ev.EndMs-ev.StartMs) / 1000.0
			}
			seg.Duration = &dur
		}

		segments = append(segments, seg)
		parts = append(parts, text)
	}

	return Result{
		VideoID:  id.String(),
		Title:    title,
		Language: language,
		Text:     strings.Join(parts, " "),
		Segments: segments,
	}
}
