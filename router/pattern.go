// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package router implements the pattern matcher and route table
// of the request-execution core: compiling path templates and regular
// expressions into matchers, and holding the ordered, collision-checked
// set of routes for one host.
package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Matcher tests a request path against a compiled route pattern and, for
// template-mode patterns, extracts named path parameters.
//
// Regex-mode matchers never populate the parameter map: capture groups are
// exposed but never merged into the query set for regex routes, and this
// implementation preserves that asymmetry rather than silently "fixing" it.
type Matcher interface {
	// Match reports whether path satisfies the pattern. When it does and the
	// matcher is template-mode, the second return value holds one entry per
	// "<name>" hole, URL-decoded.
	Match(path string) (bool, map[string]string)

	// Pattern returns the original, uncompiled pattern string.
	Pattern() string

	// IsTemplate reports whether this matcher is template-mode (as opposed
	// to regex-mode). Template-mode matchers participate in collision
	// detection; regex-mode matchers never do.
	IsTemplate() bool
}

// templateSegment is one "/"-delimited piece of a compiled template pattern.
type templateSegment struct {
	literal string
	isHole  bool
	name    string
}

// TemplateMatcher implements template-mode matching: a pattern split into
// literal segments and "<name>" holes, matched segment-by-segment.
type TemplateMatcher struct {
	pattern       string
	segments      []templateSegment
	caseSensitive bool
}

// CompileTemplate compiles a path template into a TemplateMatcher.
//
// Leading and trailing empty segments (from a leading/trailing "/") are
// discarded before compilation. A bare "<" or ">" that does not form a
// balanced "<name>" hole fails with ErrUnbalancedHole.
func CompileTemplate(pattern string, caseSensitive bool) (*TemplateMatcher, error) {
	segments, err := splitTemplate(pattern)
	if err != nil {
		return nil, err
	}
	return &TemplateMatcher{pattern: pattern, segments: segments, caseSensitive: caseSensitive}, nil
}

func splitTemplate(pattern string) ([]templateSegment, error) {
	raw := strings.Split(pattern, "/")
	// Discard empty leading/trailing segments produced by a leading/trailing "/".
	if len(raw) > 0 && raw[0] == "" {
		raw = raw[1:]
	}
	if len(raw) > 0 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	segments := make([]templateSegment, 0, len(raw))
	for _, part := range raw {
		openCount := strings.Count(part, "<")
		closeCount := strings.Count(part, ">")
		if openCount != closeCount || openCount > 1 {
			return nil, fmt.Errorf("%w: segment %q", ErrUnbalancedHole, part)
		}
		if openCount == 1 {
			if !strings.HasPrefix(part, "<") || !strings.HasSuffix(part, ">") {
				return nil, fmt.Errorf("%w: segment %q", ErrUnbalancedHole, part)
			}
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, fmt.Errorf("%w: empty hole name in segment %q", ErrUnbalancedHole, part)
			}
			segments = append(segments, templateSegment{isHole: true, name: name})
			continue
		}
		segments = append(segments, templateSegment{literal: part})
	}
	return segments, nil
}

// Pattern returns the original template string.
func (m *TemplateMatcher) Pattern() string { return m.pattern }

// IsTemplate always reports true for TemplateMatcher.
func (m *TemplateMatcher) IsTemplate() bool { return true }

// Match splits path the same way the pattern was split and compares
// segment-by-segment. Holes always match and capture the URL-decoded value;
// literal segments are compared under the matcher's case-sensitivity flag.
func (m *TemplateMatcher) Match(path string) (bool, map[string]string) {
	parts := strings.Split(path, "/")
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	if len(parts) != len(m.segments) {
		return false, nil
	}

	var params map[string]string
	for i, seg := range m.segments {
		if seg.isHole {
			decoded, err := url.PathUnescape(parts[i])
			if err != nil {
				decoded = parts[i]
			}
			if params == nil {
				params = make(map[string]string, len(m.segments))
			}
			params[seg.name] = decoded
			continue
		}
		if m.caseSensitive {
			if seg.literal != parts[i] {
				return false, nil
			}
		} else if !strings.EqualFold(seg.literal, parts[i]) {
			return false, nil
		}
	}
	if params == nil {
		params = map[string]string{}
	}
	return true, params
}

// collidesWith reports whether two template matchers could both accept the
// same concrete request path — i.e. a wildcard-vs-wildcard overlap check
// used by the route table's collision detector. A hole matches
// anything, so segment counts equal plus "every pair of segments is either
// two holes, or a literal/literal exact match, or a hole paired with
// anything" is sufficient: concretely, for each position, a literal segment
// in either pattern constrains that position, and if both literals disagree
// there is no overlap.
func (m *TemplateMatcher) collidesWith(other *TemplateMatcher) bool {
	if len(m.segments) != len(other.segments) {
		return false
	}
	for i := range m.segments {
		a, b := m.segments[i], other.segments[i]
		if a.isHole || b.isHole {
			continue
		}
		if m.caseSensitive {
			if a.literal != b.literal {
				return false
			}
		} else if !strings.EqualFold(a.literal, b.literal) {
			return false
		}
	}
	return true
}

// RegexMatcher implements regex-mode matching: the pattern is anchored
// exactly as the caller wrote it and evaluated with the host's
// case-sensitivity flag. Regex routes never populate the parameter map and
// are never collision-checked.
type RegexMatcher struct {
	pattern string
	re      *regexp.Regexp
}

// CompileRegex compiles pattern as a regular expression. When caseSensitive
// is false, the pattern is evaluated case-insensitively via the "(?i)" regex
// flag, without mutating the pattern string returned by Pattern().
func CompileRegex(pattern string, caseSensitive bool) (*RegexMatcher, error) {
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("router: invalid regex pattern %q: %w", pattern, err)
	}
	return &RegexMatcher{pattern: pattern, re: re}, nil
}

// Pattern returns the original, unanchored-by-us regex string.
func (m *RegexMatcher) Pattern() string { return m.pattern }

// IsTemplate always reports false for RegexMatcher.
func (m *RegexMatcher) IsTemplate() bool { return false }

// Match reports a boolean match only; the parameter map is always empty.
func (m *RegexMatcher) Match(path string) (bool, map[string]string) {
	if m.re.MatchString(path) {
		return true, map[string]string{}
	}
	return false, nil
}
