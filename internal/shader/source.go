// Package shader holds the fragment-stage source text handed to the renderer.
//
// Generated shader code usually arrives wrapped in Markdown code fences
// (optionally tagged with a language hint such as "glsl"). Sanitize strips
// those fences, but only when they sit at the very start and very end of the
// text; fence-like substrings inside the body are part of the shader.
package shader

import (
	"regexp"
	"strings"
)

// Source is one sanitized fragment-stage program body.
// A new description always yields a new Source; values are never edited in place.
type Source string

var (
	// Opening fence with an optional language tag. A "glsl" tag may share
	// its line with code; any other tag is only consumed when a line break
	// (or the end of the text) follows, so "```void main(){}" keeps its body.
	openingFence = regexp.MustCompile("^```(?:(?i:glsl)(?:[ \t]+|[ \t]*(?:\r?\n|$))|[A-Za-z0-9_+.#-]*[ \t]*(?:\r?\n|$))?")
	closingFence = regexp.MustCompile("```$")
)

// Sanitize removes surrounding whitespace and anchored code fences.
// It is applied until nothing changes, so Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(raw string) Source {
	text := strings.TrimSpace(raw)
	for {
		next := openingFence.ReplaceAllLiteralString(text, "")
		next = closingFence.ReplaceAllLiteralString(next, "")
		next = strings.TrimSpace(next)
		if next == text {
			return Source(text)
		}
		text = next
	}
}

// Empty reports whether there is nothing to render.
func (s Source) Empty() bool {
	return strings.TrimSpace(string(s)) == ""
}

func (s Source) String() string {
	return string(s)
}

// Lines returns the source split into lines, used when showing diagnostics
// next to the offending code.
func (s Source) Lines() []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(string(s), "\r\n", "\n"), "\n")
}
