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
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/storageindex/indexd/pkg/log"
)

// SanitizeQuery trims, lower-cases and escapes a raw search query so it can
// only ever match as a literal substring, never as a pattern.
func SanitizeQuery(query string) string {
	return regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(query)))
}

// Search walks the subtree under basePath and collects every entry whose
// name contains the query as a case-insensitive substring. A non-empty
// pattern additionally glob-filters entries by their path relative to
// basePath. Results come back in walk order; walk failures degrade to
// whatever was collected so far, never to an error.
func (s *Store) Search(basePath, query, pattern string) []Descriptor {
	needle, err := regexp.Compile(SanitizeQuery(query))
	if err != nil {
		return []Descriptor{}
	}
	results := make([]Descriptor, 0, 16)

	walkErr := filepath.WalkDir(s.abs(basePath), func(absPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subtree, keep walking the rest
			return nil
		}
		if absPath == s.abs(basePath) {
			return nil
		}

		rel, err := filepath.Rel(s.abs(basePath), absPath)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !needle.MatchString(strings.ToLower(entry.Name())) {
			return nil
		}
		if pattern != "" {
			match, err := doublestar.Match(pattern, rel)
			if err != nil || !match {
				return nil
			}
		}

		info, err := entry.Info()
		if err != nil {
			return nil
		}
		itemPath := path.Join(basePath, rel)
		results = append(results, s.describe(itemPath, info))
		return nil
	})
	if walkErr != nil {
		log.Warn("search walk failed under %s: %v", basePath, walkErr)
		return []Descriptor{}
	}

	return results
}
