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
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/storageindex/indexd/pkg/store"
)

// parseRange turns a Range header into an inclusive byte window against the
// known total size. Only the first range of a multi-range header is honored.
// Returns false for anything malformed or unsatisfiable; callers fall back
// to the full resource, never a negative-length stream.
func parseRange(header string, size int64) (store.ByteRange, bool) {
	raw, found := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !found {
		return store.ByteRange{}, false
	}
	raw, _, _ = strings.Cut(raw, ",")
	startStr, endStr, found := strings.Cut(strings.TrimSpace(raw), "-")
	if !found {
		return store.ByteRange{}, false
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	if startStr == "" {
		// suffix form: the last n bytes
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return store.ByteRange{}, false
		}
		if n > size {
			n = size
		}
		if size == 0 {
			return store.ByteRange{}, false
		}
		return store.ByteRange{Start: size - n, End: size - 1}, true
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return store.ByteRange{}, false
	}
	end := size - 1
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return store.ByteRange{}, false
		}
	}
	if end > size-1 {
		end = size - 1
	}
	if start > end {
		return store.ByteRange{}, false
	}
	return store.ByteRange{Start: start, End: end}, true
}

// contentRange formats the Content-Range value for a partial response.
func contentRange(r store.ByteRange, total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, total)
}

// extOf returns the lower-cased extension of a site path without the dot.
func extOf(sitePath string) string {
	ext := strings.TrimPrefix(path.Ext(sitePath), ".")
	return strings.ToLower(ext)
}

// inlineDisposition and attachmentDisposition build Content-Disposition
// values that survive non-ASCII filenames in every browser.
func inlineDisposition(name string) string {
	return `inline; filename="` + url.PathEscape(name) + `"`
}

func attachmentDisposition(name string) string {
	escaped := url.PathEscape(name)
	return `attachment; filename="` + escaped + `"; filename*=UTF-8''` + escaped
}

// isOptionalResource reports whether a path addresses a sidecar resource
// whose absence is expected.
func isOptionalResource(sitePath string) bool {
	lower := strings.ToLower(sitePath)
	for _, ext := range optionalResourceExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
