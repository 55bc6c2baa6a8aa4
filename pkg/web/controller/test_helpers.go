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
	"bytes"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/storageindex/indexd/pkg/auth"
)

// newTestContext builds a gin context recording into the returned recorder,
// carrying one request for the given method, URL and optional body.
// nolint:unused
func newTestContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	ctx.Request = req
	return ctx, w
}

// setToken attaches a protected-route token to the request under test.
func setToken(ctx *gin.Context, token string) {
	ctx.Request.Header.Set(auth.TokenHeader, token)
}
