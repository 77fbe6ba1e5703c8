package markdown_test

import (
	"errors"
	"testing"

	"pomodoro/internal/platform/markdown"
)

type note struct {
	ID        string `yaml:"id"`
	Timestamp string `yaml:"timestamp"`
	Duration  int    `yaml:"duration"`
}

func TestEncodeDecodeKeepsTimestampsAsText(t *testing.T) {
	t.Parallel()
	in := note{ID: "abc", Timestamp: "2026-03-11T09:25:00Z", Duration: 1500}
	rendered, err := markdown.Encode(in, "# Session\n")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var out note
	body, err := markdown.Decode(rendered, &out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
	if body != "\n# Session\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestDecodeSeparatorsAndUnknownFields(t *testing.T) {
	t.Parallel()
	var out note
	if _, err := markdown.Decode("# plain note\n", &out); !errors.Is(err, markdown.ErrNoFrontmatter) {
		t.Fatalf("expected ErrNoFrontmatter, got %v", err)
	}
	if _, err := markdown.Decode("---\nid: x\n", &out); err == nil {
		t.Fatalf("expected missing closing separator error")
	}
	body, err := markdown.Decode("---\nid: x\ncolor: red\n---\nbody", &out)
	if err != nil {
		t.Fatalf("unknown keys should be ignored: %v", err)
	}
	if out.ID != "x" || body != "body" {
		t.Fatalf("unexpected decode result %+v %q", out, body)
	}
}
