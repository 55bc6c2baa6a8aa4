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
	"net/http"

	"github.com/storageindex/indexd/pkg/store"
	"github.com/storageindex/indexd/pkg/web/model"
)

// GetThumbnail serves the pre-rendered sidecar image next to a file
// (<path>.thumbnail). Generation is an external concern; the endpoint only
// looks the sidecar up. The token travels in the odpt query parameter so
// plain <img> tags can load protected thumbnails.
func (c *FileController) GetThumbnail() {
	var req model.ThumbnailRequest
	if err := c.ctx.ShouldBindQuery(&req); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidParams, "Query invalid.")
		return
	}
	if err := req.Validate(); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidParams, "Invalid size")
		return
	}
	if req.Path == "" {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidPath, "No path specified.")
		return
	}

	itemPath, ok := c.resolvePath(req.Path)
	if !ok {
		return
	}

	if req.Token == "" {
		c.ctx.Header("Cache-Control", cacheEdge)
	}
	protected, ok := c.authorize(store.SitePath(itemPath), req.Token)
	if !ok {
		return
	}
	if protected {
		c.ctx.Header("Cache-Control", cacheNone)
	}

	desc, err := c.deps.Store.Stat(itemPath)
	if err != nil {
		// thumbnails are optional resources: missing originals are
		// expected and not logged
		if errors.Is(err, store.ErrFileNotFound) {
			c.RespondError(http.StatusNotFound, model.ErrorCodeFileNotFound, "File not found.")
			return
		}
		c.RespondStoreError(err)
		return
	}
	if desc.IsDir {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeNotAFile, "Directories do not have thumbnails.")
		return
	}

	data, err := c.deps.Store.ReadAll(itemPath + thumbnailSuffix)
	if err != nil {
		if errors.Is(err, store.ErrFileNotFound) {
			c.RespondError(http.StatusNotFound, model.ErrorCodeFileNotFound, "Optional resource not found.")
			return
		}
		c.RespondStoreError(err)
		return
	}
	c.ctx.Data(http.StatusOK, "image/jpeg", data)
}
