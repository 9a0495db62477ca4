// Package testutil provides golden file testing utilities.
package testutil

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

var update = flag.Bool("update", false, "update golden files")

// CompareGolden compares the actual output with the golden file content.
// If the -update flag is provided, it updates the golden file with the actual output.
func CompareGolden(t *testing.T, goldenPath string, actual string) {
	t.Helper()

	if *update {
		writeGoldenFile(t, goldenPath, []byte(actual))
		return
	}

	expected := readGoldenFile(t, goldenPath)
	if actual != string(expected) {
		t.Errorf("Golden file mismatch for %s\nExpected:\n%s\nActual:\n%s", goldenPath, expected, actual)
	}
}

// CompareGoldenJSON compares a JSON document with the golden file after re-indenting
// both, so formatting differences do not cause failures.
func CompareGoldenJSON(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()

	actualIndented := indentJSON(t, actual)

	if *update {
		writeGoldenFile(t, goldenPath, actualIndented)
		return
	}

	expected := indentJSON(t, readGoldenFile(t, goldenPath))
	if !bytes.Equal(actualIndented, expected) {
		t.Errorf("Golden JSON mismatch for %s\nExpected:\n%s\nActual:\n%s", goldenPath, expected, actualIndented)
	}
}

func indentJSON(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, data)
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func readGoldenFile(t *testing.T, goldenPath string) []byte {
	t.Helper()

	content, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", goldenPath, err)
	}
	return content
}

func writeGoldenFile(t *testing.T, goldenPath string, content []byte) {
	t.Helper()

	dir := filepath.Dir(goldenPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(goldenPath, content, 0o644); err != nil {
		t.Fatalf("Failed to update golden file %s: %v", goldenPath, err)
	}
	t.Logf("Updated golden file: %s", goldenPath)
}
