//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateTestWorkspace creates an empty folder tree root for the test
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// CreateFiles writes files (relative slash paths to contents) below the workspace
func (tf *TUITestFramework) CreateFiles(files map[string]string) error {
	if tf.workspace == "" {
		return fmt.Errorf("workspace not created")
	}
	for rel, content := range files {
		path := filepath.Join(tf.workspace, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// CreateManyFiles writes n small files named prefix-NNN.txt into dir
func (tf *TUITestFramework) CreateManyFiles(dir, prefix string, n int) error {
	files := make(map[string]string, n)
	for i := 0; i < n; i++ {
		files[fmt.Sprintf("%s/%s-%03d.txt", dir, prefix, i)] = "x"
	}
	return tf.CreateFiles(files)
}

// standardTree is a small tree shared by the search scenarios
var standardTree = map[string]string{
	"docs/report.txt":          "numbers",
	"docs/notes.md":            "see the quarterly report",
	"reports/deep/summary.txt": "nothing here",
	"src/main.go":              "package main",
}
