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
	"path"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storageindex/indexd/pkg/auth"
	"github.com/storageindex/indexd/pkg/store"
	"github.com/storageindex/indexd/pkg/web/model"
)

// FileController handles the file-index API: listing, item lookup, search,
// raw downloads and the management operations.
type FileController struct {
	*basicController
	deps *Deps
}

func NewFileController(ctx *gin.Context, deps *Deps) *FileController {
	return &FileController{basicController: newBasicController(ctx), deps: deps}
}

func (c *FileController) sizeMode() store.SizeMode {
	if c.deps.Config.RecursiveSizes {
		return store.SizeRecursive
	}
	return store.SizeNominal
}

// resolvePath sandboxes a user-supplied path, answering 400 on failure.
func (c *FileController) resolvePath(userPath string) (string, bool) {
	itemPath, err := store.Resolve(c.deps.Config.BaseDirectory, userPath)
	if err != nil {
		c.RespondStoreError(err)
		return "", false
	}
	return itemPath, true
}

// authorize runs the protected-route gate for sitePath with the given token
// and answers the request itself when the gate rejects. On success it
// reports whether the path is protected, which forces no-cache downstream.
func (c *FileController) authorize(sitePath, token string) (protected, ok bool) {
	result := c.deps.Gate.Check(sitePath, token)
	if result.Code != http.StatusOK {
		code := model.ErrorCodeUnauthorized
		if result.Code == http.StatusNotFound {
			code = model.ErrorCodeFileNotFound
		} else if result.Code == http.StatusInternalServerError {
			code = model.ErrorCodeInternalError
		}
		c.RespondError(result.Code, code, result.Message)
		return false, false
	}
	return result.Protected, true
}

func (c *FileController) headerToken() string {
	return c.ctx.GetHeader(auth.TokenHeader)
}

// GetItem answers the listing/metadata endpoint. The path is stat-ed as a
// file first; directories fall through to a folder listing. With raw=true
// the file bytes are returned directly instead of metadata.
func (c *FileController) GetItem() {
	var req model.ListRequest
	if err := c.ctx.ShouldBindQuery(&req); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidParams, "Query invalid.")
		return
	}
	if err := req.Validate(); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidParams, "Sort query invalid.")
		return
	}
	if req.Path == "" {
		req.Path = "/"
	}

	itemPath, ok := c.resolvePath(req.Path)
	if !ok {
		return
	}

	// Edge caching speeds up repeat listings; revoked below for protected
	// paths before any body is written.
	c.ctx.Header("Cache-Control", cacheEdge)

	protected, ok := c.authorize(store.SitePath(itemPath), c.headerToken())
	if !ok {
		return
	}
	if protected {
		c.ctx.Header("Cache-Control", cacheNone)
	}

	if req.Raw {
		c.ctx.Header("Access-Control-Allow-Origin", "*")
		c.ctx.Header("Cache-Control", cacheNone)
		c.serveInlineBuffer(itemPath)
		return
	}

	desc, err := c.deps.Store.Stat(itemPath)
	if err == nil && !desc.IsDir {
		c.RespondSuccess(model.FileResponse{File: model.NewFileItem(desc)})
		return
	}
	if err != nil && !errors.Is(err, store.ErrFileNotFound) {
		c.RespondStoreError(err)
		return
	}

	listing, err := c.deps.Store.ListFolder(itemPath, c.sizeMode())
	if err != nil {
		c.RespondStoreError(err)
		return
	}
	if req.Sort != "" {
		store.SortChildren(listing.Children, req.Sort)
	}
	c.RespondSuccess(model.FolderResponse{Folder: model.NewFolderListing(listing)})
}

// serveInlineBuffer loads the whole file and answers it inline. Used by the
// raw=true listing flag; large media should go through the raw endpoint.
func (c *FileController) serveInlineBuffer(itemPath string) {
	data, err := c.deps.Store.ReadAll(itemPath)
	if err != nil {
		c.RespondStoreError(err)
		return
	}
	name := path.Base(store.SitePath(itemPath))
	c.ctx.Header("Content-Disposition", inlineDisposition(name))
	c.ctx.Header("Content-Length", strconv.Itoa(len(data)))
	c.ctx.Data(http.StatusOK, store.MimeByName(name), data)
}

// CreateFolder makes a folder (and missing parents) under the share root.
// The target comes from the path query parameter like the other management
// routes; a JSON body {"path": ...} is accepted as a fallback.
func (c *FileController) CreateFolder() {
	target := c.ctx.Query("path")
	if target == "" {
		var req struct {
			Path string `json:"path"`
		}
		if err := c.bindJSON(&req); err == nil {
			target = req.Path
		}
	}
	if target == "" {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidParams, "Path is required.")
		return
	}

	itemPath, ok := c.resolvePath(target)
	if !ok {
		return
	}
	if itemPath == "" {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidPath, "Cannot create the root folder.")
		return
	}
	if _, ok := c.authorize(store.SitePath(itemPath), c.headerToken()); !ok {
		return
	}

	if err := c.deps.Store.CreateFolder(itemPath); err != nil {
		c.RespondStoreError(err)
		return
	}
	c.RespondSuccess(nil)
}

// Upload stores a multipart file under the destination folder given by the
// path query parameter.
func (c *FileController) Upload() {
	dest := c.ctx.Query("path")
	if dest == "" {
		dest = "/"
	}
	folderPath, ok := c.resolvePath(dest)
	if !ok {
		return
	}
	if _, ok := c.authorize(store.SitePath(folderPath), c.headerToken()); !ok {
		return
	}

	header, err := c.ctx.FormFile("file")
	if err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidParams, "Missing form file 'file'.")
		return
	}
	name := path.Base(header.Filename)
	if name == "" || name == "." || name == "/" {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidParams, "Invalid file name.")
		return
	}

	src, err := header.Open()
	if err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidParams, "Unreadable form file.")
		return
	}
	defer src.Close()

	itemPath := path.Join(folderPath, name)
	if err := c.deps.Store.WriteFile(itemPath, src); err != nil {
		c.RespondStoreError(err)
		return
	}

	desc, err := c.deps.Store.Stat(itemPath)
	if err != nil {
		c.RespondStoreError(err)
		return
	}
	c.RespondSuccess(model.FileResponse{File: model.NewFileItem(desc)})
}

// Delete removes a file, or a folder when the path addresses one. Folder
// deletion is recursive by default; recursive=false only removes an empty
// folder. A failure partway through a recursive delete leaves a partial
// subtree and the caller may retry.
func (c *FileController) Delete() {
	userPath := c.ctx.Query("path")
	if userPath == "" || userPath == "/" {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidPath, "Cannot delete the root folder.")
		return
	}

	itemPath, ok := c.resolvePath(userPath)
	if !ok {
		return
	}
	if itemPath == "" {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidPath, "Cannot delete the root folder.")
		return
	}
	if _, ok := c.authorize(store.SitePath(itemPath), c.headerToken()); !ok {
		return
	}

	recursive := true
	if v := c.ctx.Query("recursive"); v == "false" || v == "0" {
		recursive = false
	}

	desc, err := c.deps.Store.Stat(itemPath)
	if err != nil {
		c.RespondStoreError(err)
		return
	}
	if desc.IsDir {
		err = c.deps.Store.DeleteFolder(itemPath, recursive)
	} else {
		err = c.deps.Store.DeleteFile(itemPath)
	}
	if err != nil {
		c.RespondStoreError(err)
		return
	}
	c.RespondSuccess(nil)
}
