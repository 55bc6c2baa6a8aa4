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
	"strings"
	"testing"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  Report ", want: "report"},
		{in: "a.b", want: `a\.b`},
		{in: "x(y)*", want: `x\(y\)\*`},
		{in: "MiXeD", want: "mixed"},
		{in: "plain", want: "plain"},
	}
	for _, tt := range tests {
		if got := SanitizeQuery(tt.in); got != tt.want {
			t.Fatalf("SanitizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	writeTestFile(t, s, "report.pdf", "a")
	writeTestFile(t, s, "Report2.txt", "b")
	writeTestFile(t, s, "image.png", "c")

	results := s.Search("", "rep", "")
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(results), results)
	}
	for _, r := range results {
		if !strings.Contains(strings.ToLower(r.Name), "rep") {
			t.Fatalf("unexpected match %q", r.Name)
		}
	}
}

func TestSearchMatchesDottedNames(t *testing.T) {
	s := newTestStore(t)
	writeTestFile(t, s, "report.pdf", "a")
	writeTestFile(t, s, "reportXpdf.txt", "b")

	results := s.Search("", "report.pdf", "")
	if len(results) != 1 || results[0].Name != "report.pdf" {
		t.Fatalf("dotted query must match literally: %+v", results)
	}
}

func TestSearchDescendsSubfolders(t *testing.T) {
	s := newTestStore(t)
	writeTestFile(t, s, "docs/annual/report.pdf", "a")
	if err := s.CreateFolder("reports"); err != nil {
		t.Fatalf("create folder: %v", err)
	}

	results := s.Search("", "report", "")
	if len(results) != 2 {
		t.Fatalf("expected file and folder match, got %+v", results)
	}

	var sawDir, sawFile bool
	for _, r := range results {
		if r.IsDir {
			sawDir = true
		} else {
			sawFile = true
			if r.Path != "docs/annual/report.pdf" {
				t.Fatalf("unexpected file path %q", r.Path)
			}
		}
	}
	if !sawDir || !sawFile {
		t.Fatalf("expected both kinds in results: %+v", results)
	}
}

func TestSearchWithPattern(t *testing.T) {
	s := newTestStore(t)
	writeTestFile(t, s, "a/report.pdf", "a")
	writeTestFile(t, s, "b/report.txt", "b")

	results := s.Search("", "report", "**/*.pdf")
	if len(results) != 1 || results[0].Path != "a/report.pdf" {
		t.Fatalf("pattern filter failed: %+v", results)
	}
}

func TestSearchMissingBaseDegrades(t *testing.T) {
	s := newTestStore(t)
	// a walk that cannot even start must degrade to empty, not error
	results := s.Search("does/not/exist", "anything", "")
	if len(results) != 0 {
		t.Fatalf("expected empty result set, got %+v", results)
	}
}
