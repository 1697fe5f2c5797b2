package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	// Verify the expected structure: $HOME/.cache/ifctree
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "ifctree")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join(base, "ifctree") {
		t.Errorf("cacheDir() = %q, want under %q", dir, base)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	out, err := run(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) && strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	// Loading a model writes its relation index to the cache.
	if _, err := run(t, "--config", cfg, "inspect", fixture(t), "-e", "20", "-f", "json"); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if countFiles(t, dir) == 0 {
		t.Fatal("expected cached index after inspect")
	}

	if _, err := run(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Errorf("%d files left after clear", n)
	}
}

func TestCacheCommandRejectsOtherBackends(t *testing.T) {
	cfg := writeConfig(t, "[cache]\nbackend = \"none\"\n")
	if _, err := run(t, "--config", cfg, "cache", "path"); err == nil {
		t.Error("cache path should fail for the none backend")
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	_ = filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			n++
		}
		return nil
	})
	return n
}

// =============================================================================
// Helpers
// =============================================================================

// run executes the root command with args and returns what it wrote to
// its output stream.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &buf
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.Execute()
	return buf.String(), err
}

// writeConfig writes a config file and returns its path.
func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// noCacheConfig returns a config that keeps tests off the user's cache.
func noCacheConfig(t *testing.T) string {
	return writeConfig(t, "[cache]\nbackend = \"none\"\n")
}

func fixture(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", "office.json"))
	if err != nil {
		t.Fatal(err)
	}
	return path
}
