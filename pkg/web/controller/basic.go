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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storageindex/indexd/pkg/auth"
	"github.com/storageindex/indexd/pkg/config"
	"github.com/storageindex/indexd/pkg/log"
	"github.com/storageindex/indexd/pkg/store"
	"github.com/storageindex/indexd/pkg/web/model"
)

// Deps carries the long-lived collaborators shared by every request. It is
// built once in main and captured by the route closures.
type Deps struct {
	Config *config.Config
	Store  *store.Store
	Gate   *auth.Gate
}

type basicController struct {
	ctx *gin.Context
}

func newBasicController(ctx *gin.Context) *basicController {
	return &basicController{ctx: ctx}
}

func (c *basicController) RespondError(status int, code model.ErrorCode, message ...string) {
	resp := model.ErrorResponse{
		Code:    code,
		Message: "",
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	c.ctx.JSON(status, resp)
}

func (c *basicController) RespondSuccess(data any) {
	if data == nil {
		c.ctx.Status(http.StatusOK)
		return
	}
	c.ctx.JSON(http.StatusOK, data)
}

// RespondStoreError maps a typed store failure onto an HTTP status and a
// machine-readable code. Raw I/O errors never reach the client; anything
// outside the taxonomy becomes a logged 500.
func (c *basicController) RespondStoreError(err error) {
	switch {
	case errors.Is(err, store.ErrInvalidPath):
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidPath, "Path query invalid.")
	case errors.Is(err, store.ErrInvalidID):
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidID, "Invalid ID.")
	case errors.Is(err, store.ErrFileNotFound):
		c.RespondError(http.StatusNotFound, model.ErrorCodeFileNotFound, "File not found.")
	case errors.Is(err, store.ErrFolderNotFound):
		c.RespondError(http.StatusNotFound, model.ErrorCodeFolderNotFound, "Folder not found.")
	case errors.Is(err, store.ErrItemNotFound):
		c.RespondError(http.StatusNotFound, model.ErrorCodeItemNotFound, "Item not found.")
	case errors.Is(err, store.ErrNotAFile):
		c.RespondError(http.StatusBadRequest, model.ErrorCodeNotAFile, "Resource is not a file.")
	case errors.Is(err, store.ErrNotADirectory):
		c.RespondError(http.StatusBadRequest, model.ErrorCodeNotAFolder, "Resource is not a folder.")
	default:
		log.Error("unexpected store error: %v", err)
		c.RespondError(http.StatusInternalServerError, model.ErrorCodeInternalError, "Internal server error.")
	}
}

func (c *basicController) bindJSON(target any) error {
	decoder := json.NewDecoder(c.ctx.Request.Body)
	return decoder.Decode(target)
}

// PingHandler answers health checks.
func PingHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}
