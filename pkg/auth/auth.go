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

// Package auth gates requests to password-protected subtrees. A protected
// route is a configured site-path prefix whose secret lives in a .password
// file inside that prefix. The secret is read on every request and never
// cached, so rotating a password takes effect immediately and protected
// content is never served ahead of the check.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/storageindex/indexd/pkg/store"
)

// TokenHeader carries the caller's token for protected routes.
const TokenHeader = "od-protected-token"

// PasswordFile is the marker file holding the route secret.
const PasswordFile = ".password"

// hashKey is the fixed application-level HMAC key. Changing it invalidates
// every plaintext .password file already deployed.
const hashKey = "file-storage-index"

// Result reports the gate's decision for one request.
type Result struct {
	// Code is the HTTP status to answer with; http.StatusOK means proceed.
	Code int
	// Message is the client-facing explanation for non-OK codes, and
	// "Authenticated." when a protected check passed.
	Message string
	// Protected is true when a configured prefix matched the path. The
	// caller must disable shared caching whenever it is set, even on OK.
	Protected bool
}

// Gate checks request paths against the configured protected routes.
type Gate struct {
	routes []string
	store  *store.Store
}

// NewGate builds a gate over the given site-path prefixes. Prefixes name
// fully resolved site paths, the same form Check receives from handlers.
// Secrets are read through the store so .password lookups obey the same
// sandbox as every other file access.
func NewGate(routes []string, st *store.Store) *Gate {
	return &Gate{routes: routes, store: st}
}

// matchRoute returns the site path of the .password file guarding sitePath,
// or "" when no protected prefix matches. Paths are compared lower-cased
// and with trailing separators so /secret never matches /secret2.
func (g *Gate) matchRoute(sitePath string) string {
	p := strings.ToLower(sitePath) + "/"
	for _, route := range g.routes {
		r := strings.ToLower(strings.TrimSuffix(route, "/")) + "/"
		if strings.HasPrefix(p, r) {
			return r + PasswordFile
		}
	}
	return ""
}

// Check runs the per-request state machine for sitePath with the supplied
// token. Outcomes: unprotected OK, protected-but-unconfigured (404 with a
// distinct message), wrong or missing token (401), or authenticated OK with
// Protected set.
func (g *Gate) Check(sitePath, token string) Result {
	marker := g.matchRoute(sitePath)
	if marker == "" {
		return Result{Code: http.StatusOK}
	}

	// marker is already a resolved site path; mapping it onto an item path
	// only strips the virtual root, it must not re-apply any base prefix
	markerPath, err := store.Resolve("/", marker)
	if err != nil {
		return Result{Code: http.StatusInternalServerError, Message: "Internal server error.", Protected: true}
	}

	secret, err := g.store.ReadAll(markerPath)
	if err != nil {
		if errors.Is(err, store.ErrFileNotFound) {
			return Result{Code: http.StatusNotFound, Message: "You didn't set a password.", Protected: true}
		}
		return Result{Code: http.StatusInternalServerError, Message: "Internal server error.", Protected: true}
	}

	if !CompareHashedToken(token, strings.TrimSpace(string(secret))) {
		return Result{Code: http.StatusUnauthorized, Message: "Password required.", Protected: true}
	}

	return Result{Code: http.StatusOK, Message: "Authenticated.", Protected: true}
}

// HashToken returns the hex HMAC-SHA256 of a plaintext password under the
// fixed application key.
func HashToken(password string) string {
	mac := hmac.New(sha256.New, []byte(hashKey))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// CompareHashedToken validates a caller token against the stored secret.
// A 64-character secret is taken to be pre-hashed: it matches either the
// token verbatim (clients that hash before sending) or the token's fresh
// HMAC (plaintext tokens). Any other secret is treated as plaintext and the
// token is compared against its HMAC. The length heuristic is load-bearing
// for compatibility with existing .password files.
func CompareHashedToken(token, secret string) bool {
	if token == "" || secret == "" {
		return false
	}
	if len(secret) == 64 {
		return token == secret || HashToken(token) == secret
	}
	return token == HashToken(secret)
}
