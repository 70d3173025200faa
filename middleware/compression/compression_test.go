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

package compression

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticehttp/lattice/dispatch"
)

func TestChooseEncoding_PrefersHighestQ(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, "br", chooseEncoding("gzip;q=0.5, br;q=0.9", cfg))
	assert.Equal(t, "gzip", chooseEncoding("gzip", cfg))
	assert.Equal(t, "", chooseEncoding("identity", cfg))
	assert.Equal(t, "", chooseEncoding("", cfg))
}

func TestChooseEncoding_RespectsDisabled(t *testing.T) {
	cfg := defaultConfig()
	cfg.enableBrotli = false

	assert.Equal(t, "gzip", chooseEncoding("br;q=1.0, gzip;q=0.5", cfg))
}

func TestNew_CompressesLargeBody(t *testing.T) {
	mw := New(WithMinSize(10))
	body := strings.Repeat("a", 1000)
	resp := dispatch.NewResponse(http.StatusOK, []byte(body))
	resp.ContentType = "text/plain"
	req := &dispatch.Request{Header: http.Header{"Accept-Encoding": []string{"gzip"}}}
	ctx := dispatch.NewContext(nil, nil, nil)
	ctx.SetResponse(resp)

	out := mw.Fn(req, ctx)

	require.Nil(t, out)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	r, err := gzip.NewReader(bytes.NewReader(resp.Body))
	require.NoError(t, err)
	decoded, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, body, string(decoded))
}

func TestNew_SkipsSmallBody(t *testing.T) {
	mw := New(WithMinSize(1000))
	resp := dispatch.NewResponse(http.StatusOK, []byte("short"))
	req := &dispatch.Request{Header: http.Header{"Accept-Encoding": []string{"gzip"}}}
	ctx := dispatch.NewContext(nil, nil, nil)
	ctx.SetResponse(resp)

	mw.Fn(req, ctx)

	assert.Equal(t, "short", string(resp.Body))
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
}

func TestNew_SkipsExcludedContentType(t *testing.T) {
	mw := New(WithMinSize(1))
	resp := dispatch.NewResponse(http.StatusOK, []byte(strings.Repeat("x", 500)))
	resp.ContentType = "image/png"
	req := &dispatch.Request{Header: http.Header{"Accept-Encoding": []string{"gzip"}}}
	ctx := dispatch.NewContext(nil, nil, nil)
	ctx.SetResponse(resp)

	mw.Fn(req, ctx)

	assert.Empty(t, resp.Header.Get("Content-Encoding"))
}
