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

package web

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storageindex/indexd/pkg/log"
	"github.com/storageindex/indexd/pkg/web/controller"
)

// Deps carries the server's long-lived collaborators into the routes.
type Deps = controller.Deps

// NewRouter builds a Gin engine with all indexd routes.
func NewRouter(deps *Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware(), logMiddleware())

	r.GET("/ping", controller.PingHandler)

	api := r.Group("/api")
	{
		api.GET("", withFile(deps, func(c *controller.FileController) { c.GetItem() }))
		api.DELETE("", withFile(deps, func(c *controller.FileController) { c.Delete() }))
		api.GET("/raw", withFile(deps, func(c *controller.FileController) { c.Download() }))
		api.HEAD("/raw", withFile(deps, func(c *controller.FileController) { c.Download() }))
		api.POST("/raw", withFile(deps, func(c *controller.FileController) { c.Upload() }))
		api.POST("/folder", withFile(deps, func(c *controller.FileController) { c.CreateFolder() }))
		api.GET("/item", withFile(deps, func(c *controller.FileController) { c.GetItemByID() }))
		api.GET("/search", withFile(deps, func(c *controller.FileController) { c.Search() }))
		api.GET("/thumbnail", withFile(deps, func(c *controller.FileController) { c.GetThumbnail() }))
		api.GET("/metrics", withMetric(deps, func(c *controller.MetricController) { c.GetMetrics() }))
	}

	return r
}

func withFile(deps *Deps, fn func(*controller.FileController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewFileController(ctx, deps))
	}
}

func withMetric(deps *Deps, fn func(*controller.MetricController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewMetricController(ctx, deps))
	}
}

// requestIDMiddleware tags every request so a response can be correlated
// with its log lines.
func requestIDMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set("requestId", id)
		ctx.Header("X-Request-Id", id)
		ctx.Next()
	}
}

func logMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log.Info("Requested: %v - %v", ctx.Request.Method, ctx.Request.URL.String())
		ctx.Next()
	}
}
