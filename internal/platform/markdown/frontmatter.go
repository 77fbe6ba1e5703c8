// Package markdown reads and writes notes made of a YAML frontmatter block and a body.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	separator = "---\n"
	closing   = "\n---\n"
)

var ErrNoFrontmatter = errors.New("note has no frontmatter")

// Decode unmarshals the frontmatter of content into meta and returns the body.
// Keys meta does not declare are ignored.
func Decode(content string, meta any) (string, error) {
	if !strings.HasPrefix(content, separator) {
		return content, ErrNoFrontmatter
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, closing)
	if idx < 0 {
		return "", fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	if err := yaml.Unmarshal([]byte(rest[:idx]), meta); err != nil {
		return "", fmt.Errorf("decode frontmatter: %w", err)
	}
	return rest[idx+len(closing):], nil
}

// Encode renders meta as frontmatter followed by body, separated by one blank line.
func Encode(meta any, body string) (string, error) {
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(meta); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}
