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
	"strings"

	"github.com/storageindex/indexd/pkg/store"
	"github.com/storageindex/indexd/pkg/web/model"
)

// Search answers the search endpoint with a flat, walk-ordered list of
// entries whose name contains the query. An optional glob pattern narrows
// the walk to matching relative paths. Walk failures degrade to an empty
// result, never a 500.
func (c *FileController) Search() {
	c.ctx.Header("Cache-Control", cacheEdge)

	query := strings.TrimSpace(c.ctx.Query("q"))
	if query == "" {
		c.RespondSuccess([]model.FileItem{})
		return
	}
	pattern := c.ctx.Query("pattern")

	base, err := store.Resolve(c.deps.Config.BaseDirectory, "/")
	if err != nil {
		c.RespondStoreError(err)
		return
	}

	results := c.deps.Store.Search(base, query, pattern)
	items := make([]model.FileItem, 0, len(results))
	for _, desc := range results {
		items = append(items, model.NewFileItem(desc))
	}
	c.RespondSuccess(items)
}
