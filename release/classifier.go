// Copyright 2025 Poiesic Systems
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

package release

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileExtension is the extension of RF2 text files.
const FileExtension = ".txt"

// InternationalToken marks files of the international base release.
const InternationalToken = "_INT_"

// NameFilter selects file names by origin.
type NameFilter func(name string) bool

var (
	// International accepts files of the international release.
	International NameFilter = func(name string) bool {
		return strings.Contains(name, InternationalToken)
	}

	// Extension accepts every file that is not part of the international release.
	Extension NameFilter = func(name string) bool {
		return !strings.Contains(name, InternationalToken)
	}
)

// Rule maps a file name glob to a role.
type Rule struct {
	Pattern string
	Role    Role
}

// Rules are evaluated in order against each file name; the first match wins.
var Rules = []Rule{
	{Pattern: "sct2_Concept_Snapshot*", Role: RoleConcept},
	{Pattern: "sct2_Description_Snapshot*", Role: RoleDescription},
	{Pattern: "sct2_TextDefinition_Snapshot*", Role: RoleTextDefinition},
	{Pattern: "sct2_Relationship_Snapshot*", Role: RoleRelationship},
	{Pattern: "der2_*Snapshot*", Role: RoleRefsetMember},
}

// Classify returns the role of a file name, or false if no rule matches.
// Names without the RF2 text extension never match.
func Classify(name string) (Role, bool) {
	if !strings.HasSuffix(name, FileExtension) {
		return 0, false
	}
	for _, rule := range Rules {
		// Patterns are static; ErrBadPattern cannot occur.
		if ok, _ := doublestar.Match(rule.Pattern, name); ok {
			return rule.Role, true
		}
	}
	return 0, false
}

// FindFiles walks root recursively and collects the release files accepted by
// filter. Symbolic links are followed. It fails if root is not a directory,
// if a singular role matches more than one file, or if any of the required
// roles has no file after the walk.
func FindFiles(root string, filter NameFilter, required ...Role) (*ReleaseFiles, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrReleaseDirNotFound, root)
	}

	files := &ReleaseFiles{}
	visited := make(map[string]bool)
	if err := walk(root, filter, files, visited); err != nil {
		return nil, err
	}

	if err := files.Require(required...); err != nil {
		return nil, err
	}
	return files, nil
}

func walk(dir string, filter NameFilter, files *ReleaseFiles, visited map[string]bool) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if visited[resolved] {
		return nil
	}
	visited[resolved] = true

	// WalkDir does not descend into a root that is itself a link.
	start := dir
	if info, err := os.Lstat(dir); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		start = resolved
	}

	return filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == start {
				return nil
			}
			// A directory already reached through a link is not walked again.
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				return err
			}
			if visited[resolved] {
				return filepath.SkipDir
			}
			visited[resolved] = true
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				// Dangling link
				return nil
			}
			if target.IsDir() {
				return walk(path, filter, files, visited)
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		name := d.Name()
		if !filter(name) {
			return nil
		}
		role, ok := Classify(name)
		if !ok {
			return nil
		}
		return files.set(role, path)
	})
}
