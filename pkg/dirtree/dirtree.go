// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package dirtree renders a served directory as a text tree.
package dirtree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xlab/treeprint"
)

// Render returns a tree rendering of root. Entries starting with a dot are
// skipped. Directories deeper than maxDepth are listed but not descended
// into; a maxDepth of 0 or less means no limit.
func Render(root string, maxDepth int) (string, error) {
	tree := treeprint.NewWithRoot(filepath.Base(root) + "/")
	if err := addDir(tree, root, 1, maxDepth); err != nil {
		return "", err
	}
	return tree.String(), nil
}

func addDir(stree treeprint.Tree, dir string, depth, maxDepth int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("could not read directory %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !e.IsDir() {
			stree.AddNode(name)
			continue
		}

		branch := stree.AddBranch(name + "/")
		if maxDepth > 0 && depth >= maxDepth {
			branch.SetMetaValue("...")
			continue
		}
		if err := addDir(branch, filepath.Join(dir, name), depth+1, maxDepth); err != nil {
			return err
		}
	}
	return nil
}
