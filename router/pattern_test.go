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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateMatcher_ExtractsParameters(t *testing.T) {
	m, err := CompileTemplate("/users/<id>/profile", true)
	require.NoError(t, err)

	ok, params := m.Match("/users/42/profile")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "42"}, params)
}

func TestTemplateMatcher_URLDecodesHoleValue(t *testing.T) {
	m, err := CompileTemplate("/search/<term>", true)
	require.NoError(t, err)

	ok, params := m.Match("/search/hello%20world")
	require.True(t, ok)
	assert.Equal(t, "hello world", params["term"])
}

func TestTemplateMatcher_SegmentCountMustMatch(t *testing.T) {
	m, err := CompileTemplate("/a/<id>", true)
	require.NoError(t, err)

	ok, _ := m.Match("/a/1/extra")
	assert.False(t, ok)
}

func TestTemplateMatcher_CaseSensitivity(t *testing.T) {
	sensitive, err := CompileTemplate("/Foo", true)
	require.NoError(t, err)
	ok, _ := sensitive.Match("/foo")
	assert.False(t, ok)

	insensitive, err := CompileTemplate("/Foo", false)
	require.NoError(t, err)
	ok, _ = insensitive.Match("/foo")
	assert.True(t, ok)
}

func TestCompileTemplate_UnbalancedHoleFails(t *testing.T) {
	_, err := CompileTemplate("/a/<id", true)
	assert.ErrorIs(t, err, ErrUnbalancedHole)

	_, err = CompileTemplate("/a/id>", true)
	assert.ErrorIs(t, err, ErrUnbalancedHole)
}

func TestRegexMatcher_NeverPopulatesParams(t *testing.T) {
	m, err := CompileRegex(`^/items/(?P<id>\d+)$`, true)
	require.NoError(t, err)

	ok, params := m.Match("/items/42")
	require.True(t, ok)
	assert.Empty(t, params)
}

func TestRegexMatcher_CaseInsensitive(t *testing.T) {
	m, err := CompileRegex(`^/Hello$`, false)
	require.NoError(t, err)

	ok, _ := m.Match("/hello")
	assert.True(t, ok)
}

func TestMatchWildcardHost_PrefixSuffixAndChunks(t *testing.T) {
	cases := []struct {
		pattern, subject string
		want             bool
	}{
		{"example.com", "example.com", true},
		{"example.com", "EXAMPLE.com", true},
		{"example.com", "other.com", false},
		{"*.example.com", "api.example.com", true},
		{"*.example.com", "example.com", false},
		{"api.*", "api.example.com", true},
		{"api.*", "other.example.com", false},
		{"a*b*c", "axxbyyc", true},
		{"a*b*c", "axxc", false},
		{"a*b*c", "cba", false},
	}
	for _, tc := range cases {
		got := MatchWildcardHost(tc.pattern, tc.subject)
		assert.Equalf(t, tc.want, got, "pattern=%q subject=%q", tc.pattern, tc.subject)
	}
}
