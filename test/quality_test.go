package test

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
)

// getProjectRoot returns the project root directory based on this test file's location.
func getProjectRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	// Go up one level from test/ to project root
	return filepath.Dir(filepath.Dir(filename))
}

// rule forbids a pattern in the files matched by a glob.
type rule struct {
	glob    string
	pattern string
	reason  string
}

var qualityRules = []rule{
	{"**/*_test.go", "t.Skip(", "tests pass or fail, they never skip"},
	{"**/*_test.go", "t.Skipf(", "tests pass or fail, they never skip"},
	{"**/*_test.go", "t.SkipNow(", "tests pass or fail, they never skip"},
	{"**/*_test.go", "testing.Short()", "every test runs in every mode"},
	{"**/*_test.go", "time.Sleep(", "browser and ingestion tests drive updates directly"},
	{"pkg/**/*.go", "os.Stdout", "packages write to the io.Writer they are given"},
	{"pkg/**/*.go", "os.Stderr", "packages log through the context logger"},
	{"pkg/**/*.go", "fmt.Print", "packages write to the io.Writer they are given"},
	{"internal/cli/commands/*.go", "os.Stdout", "commands write to cmd.OutOrStdout()"},
	{"internal/cli/commands/*.go", "fmt.Print", "commands write to cmd.OutOrStdout()"},
}

// projectFiles returns the files under root matching glob, leaving out
// hidden, underscore, vendor and testdata directories.
func projectFiles(t *testing.T, root, glob string) []string {
	t.Helper()

	var files []string
	err := doublestar.GlobWalk(os.DirFS(root), glob, func(path string, d fs.DirEntry) error {
		if d.IsDir() || excluded(path) || strings.HasSuffix(path, "quality_test.go") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to match %s: %v", glob, err)
	}
	return files
}

func excluded(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if part == "." {
			continue
		}
		if strings.HasPrefix(part, ".") || strings.HasPrefix(part, "_") || part == "vendor" || part == "testdata" {
			return true
		}
	}
	return false
}

// violations reports each non-comment line of path containing pattern.
func violations(t *testing.T, root, path string, r rule) []string {
	t.Helper()

	f, err := os.Open(filepath.Join(root, path))
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if strings.Contains(line, r.pattern) {
			out = append(out, fmt.Sprintf("%s:%d: %s (%s)", path, lineNum, r.pattern, r.reason))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Error scanning %s: %v", path, err)
	}
	return out
}

// TestQualityRules enforces the project's source rules.
func TestQualityRules(t *testing.T) {
	root := getProjectRoot()

	var found []string
	for _, r := range qualityRules {
		for _, path := range projectFiles(t, root, r.glob) {
			if r.glob != "**/*_test.go" && strings.HasSuffix(path, "_test.go") {
				continue
			}
			found = append(found, violations(t, root, path, r)...)
		}
	}

	if len(found) > 0 {
		t.Errorf("Found %d rule violation(s):", len(found))
		for _, v := range found {
			t.Errorf("  %s", v)
		}
	}
}

// TestEveryPackageHasTests checks that each package under pkg/ and
// internal/ ships a test file.
func TestEveryPackageHasTests(t *testing.T) {
	root := getProjectRoot()

	dirs := make(map[string]bool)
	for _, glob := range []string{"pkg/**/*.go", "internal/**/*.go"} {
		for _, path := range projectFiles(t, root, glob) {
			dir := filepath.Dir(path)
			if _, ok := dirs[dir]; !ok {
				dirs[dir] = false
			}
			if strings.HasSuffix(path, "_test.go") {
				dirs[dir] = true
			}
		}
	}

	if len(dirs) == 0 {
		t.Fatal("No packages found - something is wrong with file discovery")
	}
	for dir, tested := range dirs {
		if !tested {
			t.Errorf("%s has no _test.go file", dir)
		}
	}
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"pkg/store/store.go", false},
		{"store.go", false},
		{"_examples/x/y.go", true},
		{"testdata/p2000/a_test.go", true},
		{".git/hooks/a.go", true},
		{"vendor/m/a.go", true},
	}
	for _, tt := range tests {
		if got := excluded(tt.path); got != tt.want {
			t.Errorf("excluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
