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
	"net/http"
	"strings"
	"testing"

	"github.com/storageindex/indexd/pkg/auth"
)

func TestDownloadRejectsRoot(t *testing.T) {
	deps := newTestDeps(t)

	for _, raw := range []string{"/api/raw", "/api/raw?path=/"} {
		ctrl, rec := newFileController(t, deps, http.MethodGet, raw, nil)
		ctrl.Download()
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", raw, rec.Code)
		}
		if resp := decodeError(t, rec); resp.Message != "Direct API access is not allowed." {
			t.Fatalf("unexpected message %q", resp.Message)
		}
	}
}

func TestDownloadFullFile(t *testing.T) {
	deps := newTestDeps(t)
	seedFile(t, deps, "docs/a.txt", "0123456789")

	ctrl, rec := newFileController(t, deps, http.MethodGet, "/api/raw?path=/docs/a.txt", nil)
	ctrl.Download()

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "0123456789" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Fatalf("Accept-Ranges = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "10" {
		t.Fatalf("Content-Length = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "attachment") {
		t.Fatalf("expected attachment disposition, got %q", got)
	}
}

func TestDownloadRangeWindow(t *testing.T) {
	deps := newTestDeps(t)
	seedFile(t, deps, "a.bin", "0123456789")

	ctrl, rec := newFileController(t, deps, http.MethodGet, "/api/raw?path=/a.bin", nil)
	ctrl.ctx.Request.Header.Set("Range", "bytes=2-5")
	ctrl.Download()

	if rec.Code != http.StatusPartialContent {
		t.Fatalf("expected 206, got %d", rec.Code)
	}
	if rec.Body.String() != "2345" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 2-5/10" {
		t.Fatalf("Content-Range = %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "4" {
		t.Fatalf("Content-Length = %q", got)
	}
}

func TestDownloadSuffixRange(t *testing.T) {
	deps := newTestDeps(t)
	seedFile(t, deps, "a.bin", "0123456789")

	ctrl, rec := newFileController(t, deps, http.MethodGet, "/api/raw?path=/a.bin", nil)
	ctrl.ctx.Request.Header.Set("Range", "bytes=-4")
	ctrl.Download()

	if rec.Code != http.StatusPartialContent {
		t.Fatalf("expected 206, got %d", rec.Code)
	}
	if rec.Body.String() != "6789" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 6-9/10" {
		t.Fatalf("Content-Range = %q", got)
	}
}

func TestDownloadInvalidRangeFallsBack(t *testing.T) {
	deps := newTestDeps(t)
	seedFile(t, deps, "a.bin", "0123456789")

	ctrl, rec := newFileController(t, deps, http.MethodGet, "/api/raw?path=/a.bin", nil)
	ctrl.ctx.Request.Header.Set("Range", "bytes=2000-3000")
	ctrl.Download()

	// unsatisfiable windows fall back to the full resource
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fallback, got %d", rec.Code)
	}
	if rec.Body.String() != "0123456789" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestDownloadVideoRange(t *testing.T) {
	deps := newTestDeps(t)
	seedFile(t, deps, "movie.mp4", "abcdefghij")

	ctrl, rec := newFileController(t, deps, http.MethodGet, "/api/raw?path=/movie.mp4", nil)
	ctrl.ctx.Request.Header.Set("Range", "bytes=0-3")
	ctrl.Download()

	if rec.Code != http.StatusPartialContent {
		t.Fatalf("expected 206, got %d", rec.Code)
	}
	if rec.Body.String() != "abcd" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "inline") {
		t.Fatalf("video must be inline, got %q", got)
	}
}

func TestDownloadAudioWholeBuffer(t *testing.T) {
	deps := newTestDeps(t)
	seedFile(t, deps, "song.m4a", "audio-bytes")

	ctrl, rec := newFileController(t, deps, http.MethodGet, "/api/raw?path=/song.m4a", nil)
	// m4a ignores ranges and answers the full buffer
	ctrl.ctx.Request.Header.Set("Range", "bytes=0-3")
	ctrl.Download()

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "audio-bytes" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/mp4" {
		t.Fatalf("Content-Type = %q", got)
	}
}

func TestDownloadCacheHeaders(t *testing.T) {
	deps := newTestDeps(t)
	seedFile(t, deps, "pic.jpg", "jpeg")
	seedFile(t, deps, "notes.txt", "text")

	ctrl, rec := newFileController(t, deps, http.MethodGet, "/api/raw?path=/pic.jpg", nil)
	ctrl.Download()
	if got := rec.Header().Get("Cache-Control"); got != cachePublic {
		t.Fatalf("static media should be public, got %q", got)
	}

	ctrl, rec = newFileController(t, deps, http.MethodGet, "/api/raw?path=/notes.txt", nil)
	ctrl.Download()
	if got := rec.Header().Get("Cache-Control"); got != cacheNone {
		t.Fatalf("dynamic types should be no-cache, got %q", got)
	}
}

func TestDownloadProtectedNeverCached(t *testing.T) {
	deps := newTestDeps(t, "/private")
	seedFile(t, deps, "private/.password", "pw")
	seedFile(t, deps, "private/pic.jpg", "jpeg")

	ctrl, rec := newFileController(t, deps, http.MethodGet, "/api/raw?path=/private/pic.jpg", nil)
	setToken(ctrl.ctx, auth.HashToken("pw"))
	ctrl.Download()

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	// cacheable extension, but protection wins
	if got := rec.Header().Get("Cache-Control"); got != cacheNone {
		t.Fatalf("protected media must be no-cache, got %q", got)
	}
}

func TestDownloadOptionalResourceMissing(t *testing.T) {
	deps := newTestDeps(t)

	ctrl, rec := newFileController(t, deps, http.MethodGet, "/api/raw?path=/movie.en.vtt", nil)
	ctrl.Download()

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != "Optional resource not found." {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestDownloadMissingFile(t *testing.T) {
	deps := newTestDeps(t)

	ctrl, rec := newFileController(t, deps, http.MethodGet, "/api/raw?path=/nope.pdf", nil)
	ctrl.Download()

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Message != "File not found." {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}
