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
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		baseDir string
		input   string
		want    string
	}{
		{name: "root", baseDir: "/", input: "/", want: ""},
		{name: "empty", baseDir: "/", input: "", want: ""},
		{name: "plain file", baseDir: "/", input: "/docs/a.txt", want: "docs/a.txt"},
		{name: "relative", baseDir: "/", input: "docs/a.txt", want: "docs/a.txt"},
		{name: "trailing slash", baseDir: "/", input: "/docs/", want: "docs"},
		{name: "repeated slashes", baseDir: "/", input: "//docs///a.txt", want: "docs/a.txt"},
		{name: "dot segments", baseDir: "/", input: "/docs/./a/../b.txt", want: "docs/b.txt"},
		{name: "traversal swallowed", baseDir: "/", input: "../../../etc/passwd", want: "etc/passwd"},
		{name: "traversal to root", baseDir: "/", input: "/..", want: ""},
		{name: "base directory prefix", baseDir: "/share", input: "/a.txt", want: "share/a.txt"},
		{name: "base directory root", baseDir: "/share", input: "/", want: "share"},
		{name: "base directory traversal", baseDir: "/share", input: "../../a.txt", want: "share/a.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.baseDir, tt.input)
			if err != nil {
				t.Fatalf("Resolve(%q, %q) returned error: %v", tt.baseDir, tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("Resolve(%q, %q) = %q, want %q", tt.baseDir, tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveRejectsNUL(t *testing.T) {
	_, err := Resolve("/", "a\x00b")
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

// TestResolveNeverEscapes hammers Resolve with crafted traversal inputs and
// checks the sandbox invariant: the result never contains a parent segment
// and never starts above the base.
func TestResolveNeverEscapes(t *testing.T) {
	pieces := []string{"..", "../", "..\\", "a", ".", "//", "%2e%2e", "..../"}
	for i := 0; i < len(pieces); i++ {
		for j := 0; j < len(pieces); j++ {
			for k := 0; k < len(pieces); k++ {
				input := pieces[i] + "/" + pieces[j] + "/" + pieces[k]
				got, err := Resolve("/", input)
				if err != nil {
					continue
				}
				for _, seg := range strings.Split(got, "/") {
					if seg == ".." {
						t.Fatalf("Resolve(%q) = %q escapes the root", input, got)
					}
				}
				if strings.HasPrefix(got, "/") {
					t.Fatalf("Resolve(%q) = %q is not relative", input, got)
				}
			}
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		input := fmt.Sprintf("/a/%d/../b", i)
		first, err1 := Resolve("/", input)
		second, err2 := Resolve("/", input)
		if err1 != nil || err2 != nil || first != second {
			t.Fatalf("Resolve(%q) not deterministic: %q/%v vs %q/%v", input, first, err1, second, err2)
		}
	}
}

func TestParent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "a", want: ""},
		{in: "a/b", want: "a"},
		{in: "a/b/c.txt", want: "a/b"},
	}
	for _, tt := range tests {
		if got := Parent(tt.in); got != tt.want {
			t.Fatalf("Parent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSitePath(t *testing.T) {
	if got := SitePath(""); got != "/" {
		t.Fatalf("SitePath(root) = %q, want /", got)
	}
	if got := SitePath("a/b"); got != "/a/b" {
		t.Fatalf("SitePath(a/b) = %q, want /a/b", got)
	}
}
