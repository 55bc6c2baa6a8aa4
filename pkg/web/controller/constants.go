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

// Cache-Control values. Protected content always gets cacheNone so no shared
// cache ever serves bytes ahead of the auth check.
const (
	cachePublic = "public, max-age=86400"
	cacheNone   = "no-cache"
	cacheEdge   = "max-age=0, s-maxage=60, stale-while-revalidate"
)

// cacheableExtensions lists the static media types safe for public caching
// on unprotected routes. Keyed by extension without the dot.
var cacheableExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
	"svg": true, "ico": true, "css": true, "js": true,
	"woff": true, "woff2": true, "ttf": true,
}

// optionalResourceExts are sidecar lookups (subtitles, thumbnails) whose
// not-found outcomes are expected and kept out of the error log.
var optionalResourceExts = []string{".vtt", ".srt", ".thumbnail"}

// thumbnailSuffix is the sidecar file served by the thumbnail endpoint.
const thumbnailSuffix = ".thumbnail"
