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
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/storageindex/indexd/pkg/log"
	"github.com/storageindex/indexd/pkg/store"
	"github.com/storageindex/indexd/pkg/web/model"
)

// Download answers the raw/stream endpoint. Every response advertises
// Accept-Ranges; the dispatch by extension keeps seekable media on the
// range-streaming path and opaque audio on a whole-buffer path.
func (c *FileController) Download() {
	userPath := c.ctx.Query("path")
	if userPath == "" || userPath == "/" {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidPath, "Direct API access is not allowed.")
		return
	}

	itemPath, ok := c.resolvePath(userPath)
	if !ok {
		return
	}
	if itemPath == "" {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidPath, "Direct API access is not allowed.")
		return
	}

	sitePath := store.SitePath(itemPath)
	protected, ok := c.authorize(sitePath, c.headerToken())
	if !ok {
		return
	}
	c.setRawCacheHeaders(extOf(sitePath), protected)
	c.ctx.Header("Access-Control-Allow-Origin", "*")
	c.ctx.Header("Accept-Ranges", "bytes")

	name := path.Base(sitePath)
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".m4a"):
		c.serveAudioBuffer(itemPath, name)
	case strings.HasSuffix(lower, ".mp4"):
		c.serveVideoStream(itemPath, name)
	default:
		c.ctx.Header("Content-Disposition", attachmentDisposition(name))
		c.streamFile(itemPath)
	}
}

// setRawCacheHeaders picks the cache policy: protected routes are never
// cacheable, static media by extension is publicly cacheable, everything
// else is no-cache.
func (c *FileController) setRawCacheHeaders(ext string, protected bool) {
	if protected {
		c.ctx.Header("Cache-Control", cacheNone)
		return
	}
	if cacheableExtensions[ext] {
		c.ctx.Header("Cache-Control", cachePublic)
		return
	}
	c.ctx.Header("Cache-Control", cacheNone)
}

// serveAudioBuffer loads an m4a whole into memory and answers it inline.
// Browsers probe m4a containers with ranges they never use; a full buffer
// response avoids a seek storm against the file.
func (c *FileController) serveAudioBuffer(itemPath, name string) {
	data, err := c.deps.Store.ReadAll(itemPath)
	if err != nil {
		c.respondRawError(err, store.SitePath(itemPath))
		return
	}
	c.ctx.Header("Content-Disposition", inlineDisposition(name))
	c.ctx.Header("Content-Length", strconv.Itoa(len(data)))
	c.ctx.Data(http.StatusOK, "audio/mp4", data)
}

// serveVideoStream answers an mp4 inline, honoring a Range header with a
// 206 window when one is present and valid.
func (c *FileController) serveVideoStream(itemPath, name string) {
	c.ctx.Header("Content-Disposition", inlineDisposition(name))

	if header := c.ctx.GetHeader("Range"); header != "" {
		desc, err := c.deps.Store.Stat(itemPath)
		if err != nil {
			c.respondRawError(err, store.SitePath(itemPath))
			return
		}
		if rng, ok := parseRange(header, desc.Size); ok {
			c.copyRange(itemPath, &rng, "video/mp4")
			return
		}
	}

	data, err := c.deps.Store.ReadAll(itemPath)
	if err != nil {
		c.respondRawError(err, store.SitePath(itemPath))
		return
	}
	c.ctx.Header("Content-Length", strconv.Itoa(len(data)))
	c.ctx.Data(http.StatusOK, "video/mp4", data)
}

// streamFile is the default responder: a backpressured copy of the file or
// of the requested window, with the MIME type from the extension table.
func (c *FileController) streamFile(itemPath string) {
	var rng *store.ByteRange
	if header := c.ctx.GetHeader("Range"); header != "" {
		desc, err := c.deps.Store.Stat(itemPath)
		if err != nil {
			c.respondRawError(err, store.SitePath(itemPath))
			return
		}
		if r, ok := parseRange(header, desc.Size); ok {
			rng = &r
		}
	}
	c.copyRange(itemPath, rng, "")
}

// copyRange opens the file (or window) and copies it to the response. A
// failure after the headers are out cannot change the status code; the copy
// stops and the connection is left to terminate.
func (c *FileController) copyRange(itemPath string, rng *store.ByteRange, mimeOverride string) {
	rr, err := c.deps.Store.OpenRange(itemPath, rng)
	if err != nil {
		c.respondRawError(err, store.SitePath(itemPath))
		return
	}
	defer rr.Close()

	mime := rr.MimeType
	if mimeOverride != "" {
		mime = mimeOverride
	}
	c.ctx.Header("Content-Type", mime)
	c.ctx.Header("Content-Length", strconv.FormatInt(rr.Size, 10))
	if rr.Partial {
		c.ctx.Header("Content-Range", contentRange(store.ByteRange{Start: rr.Start, End: rr.End}, rr.Total))
		c.ctx.Status(http.StatusPartialContent)
	} else {
		c.ctx.Status(http.StatusOK)
	}

	if _, err := io.Copy(c.ctx.Writer, rr.Reader); err != nil {
		log.Error("stream %s terminated: %v", itemPath, err)
	}
}

// respondRawError maps raw-endpoint failures, keeping expected sidecar
// 404s (subtitles, thumbnails) out of the error log.
func (c *FileController) respondRawError(err error, sitePath string) {
	if errors.Is(err, store.ErrFileNotFound) {
		if isOptionalResource(sitePath) {
			c.RespondError(http.StatusNotFound, model.ErrorCodeFileNotFound, "Optional resource not found.")
			return
		}
		log.Error("raw request for %s failed: %v", sitePath, err)
		c.RespondError(http.StatusNotFound, model.ErrorCodeFileNotFound, "File not found.")
		return
	}
	c.RespondStoreError(err)
}
