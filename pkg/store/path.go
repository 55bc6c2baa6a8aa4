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

package store

import (
	"fmt"
	"path"
	"strings"
)

// Resolve turns a user-supplied path from a query parameter into the
// canonical item path under baseDir. The input is treated as POSIX: `.`,
// `..` and repeated slashes collapse, and the result can never climb above
// baseDir because the input is cleaned inside a virtual root first. The
// root of the share resolves to the empty path.
//
// Resolve is pure: it never touches the filesystem.
func Resolve(baseDir, userPath string) (string, error) {
	if strings.ContainsRune(userPath, 0) {
		return "", fmt.Errorf("%w: contains NUL byte", ErrInvalidPath)
	}

	// Cleaning inside a rooted namespace swallows any number of leading
	// `..` segments, which is the whole sandbox invariant.
	clean := path.Clean("/" + userPath)
	base := path.Clean("/" + baseDir)

	joined := path.Join(base, clean)
	if joined == "/" {
		return "", nil
	}
	return strings.TrimPrefix(joined, "/"), nil
}

// Parent returns the parent item path. The root is its own parent.
func Parent(itemPath string) string {
	dir := path.Dir(itemPath)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// SitePath converts an item path back to the absolute-looking form used for
// protected-route matching ("" becomes "/").
func SitePath(itemPath string) string {
	return "/" + itemPath
}
