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

	"github.com/storageindex/indexd/pkg/web/model"
)

// GetItemByID answers the item-by-id endpoint: decode the opaque id, stat
// the entry it addresses and report it with its parent reference.
func (c *FileController) GetItemByID() {
	id := c.ctx.Query("id")
	if id == "" {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidID, "Invalid ID.")
		return
	}

	item, err := c.deps.Store.ResolveItem(id)
	if err != nil {
		c.RespondStoreError(err)
		return
	}
	c.RespondSuccess(model.NewItemResponse(item))
}
