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

import "errors"

// Every operation reports failure through one of these kinds, wrapped with
// %w so callers branch with errors.Is instead of matching message text.
var (
	ErrInvalidPath    = errors.New("invalid path")
	ErrInvalidID      = errors.New("invalid item id")
	ErrFileNotFound   = errors.New("file not found")
	ErrFolderNotFound = errors.New("folder not found")
	ErrItemNotFound   = errors.New("item not found")
	ErrNotAFile       = errors.New("not a file")
	ErrNotADirectory  = errors.New("not a directory")
)
