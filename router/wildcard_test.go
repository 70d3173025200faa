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

import "testing"

func TestMatchWildcardHost(t *testing.T) {
	cases := []struct {
		pattern, subject string
		want             bool
	}{
		{"example.com", "example.com", true},
		{"example.com", "EXAMPLE.COM", true},
		{"example.com", "other.com", false},
		{"*.example.com", "api.example.com", true},
		{"*.example.com", "example.com", false},
		{"example.*", "example.org", true},
		{"example.*", "notexample.org", false},
		{"api.*.example.com", "api.v2.example.com", true},
		{"api.*.example.com", "api.example.com", false},
		{"*", "anything.at.all", true},
	}

	for _, c := range cases {
		got := MatchWildcardHost(c.pattern, c.subject)
		if got != c.want {
			t.Errorf("MatchWildcardHost(%q, %q) = %v, want %v", c.pattern, c.subject, got, c.want)
		}
	}
}
