package transcript

import "testing"

func TestNormalize(t *testing.T) {
	events := []CaptionEvent{
		{Fragments: []string{"Hello"}, StartMs: 0, EndMs: 1500},
		{Fragments: []string{"  "}, StartMs: 1500, EndMs: 2000}, // drops, id not consumed
		{Fragments: []string{"wor", "ld"}, StartMs: 2000, EndMs: -1},
	}
	res := Normalize("jNQXAC9IVRw", "Me at the zoo", "en", events)

	if res.Text != "Hello world" {
		t.Errorf("Text = %q, want %q", res.Text, "Hello world")
	}
	if res.VideoID != "jNQXAC9IVRw" || res.Title != "Me at the zoo" || res.Language != "en" {
		t.Errorf("metadata = %q/%q/%q", res.VideoID, res.Title, res.Language)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(res.Segments))
	}
	if res.Segments[0].ID != 0 || res.Segments[1].ID != 1 {
		t.Errorf("ids = %d,%d, want dense 0,1", res.Segments[0].ID, res.Segments[1].ID)
	}
	if got := *res.Segments[0].Start; got != 0 {
		t.Errorf("segment 0 start = %v, want 0", got)
	}
	if got := *res.Segments[0].Duration; got != 1.5 {
		t.Errorf("segment 0 duration = %v, want 1.5", got)
	}
	// missing endMs falls back to one second
	if got := *res.Segments[1].Duration; got != 1.0 {
		t.Errorf("segment 1 duration = %v, want 1.0", got)
	}
	if got := *res.Segments[1].Start; got != 2.0 {
		t.Errorf("segment 1 start = %v, want 2.0", got)
	}
}

func TestNormalizeNoTiming(t *testing.T) {
	res := Normalize("dQw4w9WgXcQ", "", "", []CaptionEvent{
		{Fragments: []string{"untimed"}, StartMs: -1, EndMs: -1},
	})
	seg := res.Segments[0]
	if seg.Start != nil || seg.Duration != nil {
		t.Errorf("untimed cue got timing: start=%v duration=%v", seg.Start, seg.Duration)
	}
	if res.Language != "" {
		t.Errorf("Language = %q, want empty for unconstrained track", res.Language)
	}
}

func TestNormalizeAllEmpty(t *testing.T) {
	res := Normalize("dQw4w9WgXcQ", "", "en", []CaptionEvent{
		{Fragments: []string{""}, StartMs: 0, EndMs: 100},
		{Fragments: nil, StartMs: 100, EndMs: 200},
	})
	if res.Text != "" || len(res.Segments) != 0 {
		t.Errorf("empty events produced text=%q segments=%d", res.Text, len(res.Segments))
	}
}

func TestNormalizeFragmentJoin(t *testing.T) {
	// fragments concatenate without injected separators
	res := Normalize("dQw4w9WgXcQ", "", "en", []CaptionEvent{
		{Fragments: []string{"never gonna ", "give ", "you up"}, StartMs: 0, EndMs: 3000},
	})
	if res.Text != "never gonna give you up" {
		t.Errorf("Text = %q", res.Text)
	}
}
