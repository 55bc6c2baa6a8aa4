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
	"encoding/base64"
	"fmt"
)

// Item ids are the base64 form of the item path, so clients can hold on to
// an opaque handle without re-deriving the path. Encode and Decode are exact
// inverses for every valid path, including the empty root path.

// EncodeID returns the opaque id for an item path.
func EncodeID(itemPath string) string {
	return base64.StdEncoding.EncodeToString([]byte(itemPath))
}

// DecodeID recovers the item path from an opaque id. A malformed id fails
// with ErrInvalidID, never with a low-level decoding error.
func DecodeID(id string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return string(raw), nil
}
