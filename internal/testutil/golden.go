// Package testutil provides shared test helpers for golden file testing.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// Update is a flag that, when set, regenerates golden files from current output.
// Usage: go test ./... -update
var Update = flag.Bool("update", false, "update golden files")

// Golden file names inside a case directory.
const (
	InputFile    = "input.opp"
	ExpectedFile = "expected.out"
	ErrorFile    = "expected.err"
)

// ExpandFunc expands the input file of a golden case. Includes named by
// the input resolve against the case directory.
type ExpandFunc func(t *testing.T, dir, inputPath string) (string, error)

// RunGolden runs a single golden case in dir. The case passes when the
// expansion matches expected.out, or, for cases holding expected.err,
// when expansion fails with exactly that message.
func RunGolden(t *testing.T, dir string, expandFn ExpandFunc) {
	t.Helper()

	inputPath := filepath.Join(dir, InputFile)
	actual, err := expandFn(t, dir, inputPath)

	errPath := filepath.Join(dir, ErrorFile)
	if wantErr, rerr := os.ReadFile(errPath); rerr == nil {
		if err == nil {
			t.Fatalf("%s: expected error %q, got none", dir, wantErr)
		}
		if got := err.Error() + "\n"; got != string(wantErr) {
			t.Errorf("error mismatch for %s:\n--- expected\n%s--- actual\n%s", dir, wantErr, got)
		}
		return
	}
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", dir, err)
	}

	expectedPath := filepath.Join(dir, ExpectedFile)
	if *Update {
		if err := os.WriteFile(expectedPath, []byte(actual), 0o644); err != nil {
			t.Fatalf("failed to update golden file %s: %v", expectedPath, err)
		}
		t.Logf("updated golden file: %s", expectedPath)
		return
	}

	expectedBytes, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	if expected := string(expectedBytes); actual != expected {
		t.Errorf("output mismatch for %s:\n--- expected\n%s\n--- actual\n%s", dir, expected, actual)
	}
}

// RunGoldenDir walks all subdirectories under testdataDir and runs
// RunGolden for each as a subtest.
func RunGoldenDir(t *testing.T, testdataDir string, expandFn ExpandFunc) {
	t.Helper()

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("failed to read testdata dir %s: %v", testdataDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		t.Run(entry.Name(), func(t *testing.T) {
			RunGolden(t, filepath.Join(testdataDir, entry.Name()), expandFn)
		})
	}
}
