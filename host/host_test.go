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

package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePortURL_Roundtrips(t *testing.T) {
	p, err := ParsePortURL("https://*.example.com:8443/")
	require.NoError(t, err)
	assert.Equal(t, Port{Secure: true, Hostname: "*.example.com", Number: 8443}, p)
	assert.Equal(t, "https://*.example.com:8443/", p.String())
}

func TestParsePortURL_RejectsMissingPieces(t *testing.T) {
	_, err := ParsePortURL("ftp://example.com:21/")
	assert.Error(t, err)

	_, err = ParsePortURL("http://example.com:8080")
	assert.Error(t, err)

	_, err = ParsePortURL("http://:8080/")
	assert.Error(t, err)
}

func TestHost_Equal(t *testing.T) {
	a := New("a", true, false, Port{Hostname: "example.com", Number: 80})
	b := New("b", true, false, Port{Hostname: "example.com", Number: 80})
	c := New("c", true, false, Port{Hostname: "example.com", Number: 81})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestHost_PortsForNumber(t *testing.T) {
	h := New("h", true, false,
		Port{Hostname: "example.com", Number: 80},
		Port{Hostname: "example.com", Number: 443},
	)
	assert.Len(t, h.portsForNumber(80), 1)
	assert.Len(t, h.portsForNumber(443), 1)
	assert.Empty(t, h.portsForNumber(8080))
}
