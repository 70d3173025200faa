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

package router

import "strings"

// MatchWildcardHost reports whether subject (a DNS hostname) matches
// pattern under the wildcard rules used by the host resolver:
//
//   - zero "*" in pattern: case-insensitive equality
//   - one "*" at the start: suffix match on the remainder
//   - one "*" at the end: prefix match
//   - any other placement (including multiple "*"s): split pattern on "*";
//     the first chunk must occur at offset 0 of subject, the last chunk must
//     occur at the tail, and intermediate chunks must occur in order at
//     strictly increasing offsets. Any chunk that cannot be placed fails
//     the match.
//
// Matching is always case-insensitive and uses plain string scanning, no
// regex engine.
func MatchWildcardHost(pattern, subject string) bool {
	pattern = strings.ToLower(pattern)
	subject = strings.ToLower(subject)

	if !strings.Contains(pattern, "*") {
		return pattern == subject
	}

	chunks := strings.Split(pattern, "*")

	if len(chunks) == 2 {
		if chunks[0] == "" && chunks[1] != "" {
			// "*.example.com" style: pattern starts with "*".
			return strings.HasSuffix(subject, chunks[1])
		}
		if chunks[1] == "" && chunks[0] != "" {
			// "example.*" style: pattern ends with "*".
			return strings.HasPrefix(subject, chunks[0])
		}
	}

	return matchChunksInOrder(chunks, subject)
}

// matchChunksInOrder implements the general mid-string (and multi-"*") case:
// the first chunk is anchored at offset 0, the last chunk is anchored at the
// tail, and every chunk in between must be found, in order, at a
// strictly-increasing offset.
func matchChunksInOrder(chunks []string, subject string) bool {
	if len(chunks) == 0 {
		return subject == ""
	}

	first := chunks[0]
	if first != "" && !strings.HasPrefix(subject, first) {
		return false
	}

	last := chunks[len(chunks)-1]
	if last != "" && !strings.HasSuffix(subject, last) {
		return false
	}

	cursor := len(first)
	for _, chunk := range chunks[1 : len(chunks)-1] {
		if chunk == "" {
			continue
		}
		idx := strings.Index(subject[cursor:], chunk)
		if idx < 0 {
			return false
		}
		cursor += idx + len(chunk)
	}

	// The last chunk must occur at the tail at or after cursor; since we
	// already verified the suffix, just confirm it isn't swallowed by an
	// earlier chunk's placement (e.g. empty subject between them).
	if last != "" {
		tailStart := len(subject) - len(last)
		if tailStart < cursor {
			return false
		}
	}
	return true
}
