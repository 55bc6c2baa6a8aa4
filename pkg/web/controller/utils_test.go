// Copyright 2025 Alibaba Group Holding Ltd.
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

package controller

import (
	"testing"

	"github.com/storageindex/indexd/pkg/store"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name   string
		header string
		size   int64
		want   store.ByteRange
		ok     bool
	}{
		{name: "start-end", header: "bytes=0-99", size: 1000, want: store.ByteRange{Start: 0, End: 99}, ok: true},
		{name: "open end", header: "bytes=900-", size: 1000, want: store.ByteRange{Start: 900, End: 999}, ok: true},
		{name: "suffix", header: "bytes=-100", size: 1000, want: store.ByteRange{Start: 900, End: 999}, ok: true},
		{name: "suffix larger than file", header: "bytes=-5000", size: 1000, want: store.ByteRange{Start: 0, End: 999}, ok: true},
		{name: "end clamped then start past end", header: "bytes=2000-3000", size: 1000, ok: false},
		{name: "end clamped", header: "bytes=500-3000", size: 1000, want: store.ByteRange{Start: 500, End: 999}, ok: true},
		{name: "single byte", header: "bytes=0-0", size: 1000, want: store.ByteRange{Start: 0, End: 0}, ok: true},
		{name: "first of multiple ranges", header: "bytes=0-1,5-9", size: 1000, want: store.ByteRange{Start: 0, End: 1}, ok: true},
		{name: "missing prefix", header: "0-99", size: 1000, ok: false},
		{name: "garbage", header: "bytes=foo", size: 1000, ok: false},
		{name: "no dash", header: "bytes=100", size: 1000, ok: false},
		{name: "inverted", header: "bytes=9-5", size: 1000, ok: false},
		{name: "suffix zero", header: "bytes=-0", size: 1000, ok: false},
		{name: "empty file", header: "bytes=0-", size: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseRange(tt.header, tt.size)
			if ok != tt.ok {
				t.Fatalf("parseRange(%q, %d) ok = %v, want %v", tt.header, tt.size, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("parseRange(%q, %d) = %+v, want %+v", tt.header, tt.size, got, tt.want)
			}
		})
	}
}

func TestContentRange(t *testing.T) {
	got := contentRange(store.ByteRange{Start: 2, End: 5}, 10)
	if got != "bytes 2-5/10" {
		t.Fatalf("contentRange = %q", got)
	}
}

func TestExtOf(t *testing.T) {
	if got := extOf("/docs/Image.JPG"); got != "jpg" {
		t.Fatalf("extOf = %q", got)
	}
	if got := extOf("/noext"); got != "" {
		t.Fatalf("extOf = %q", got)
	}
}

func TestIsOptionalResource(t *testing.T) {
	if !isOptionalResource("/movies/film.en.VTT") {
		t.Fatalf("vtt should be optional")
	}
	if !isOptionalResource("/pics/photo.jpg.thumbnail") {
		t.Fatalf("thumbnail sidecar should be optional")
	}
	if isOptionalResource("/docs/report.pdf") {
		t.Fatalf("pdf should not be optional")
	}
}
