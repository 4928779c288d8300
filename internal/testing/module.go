package testing

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// WriteModule creates a module rooted in a temporary directory. files maps
// slash-separated, module-relative paths to their contents. A go.mod for
// modulePath is added unless files already holds one.
func WriteModule(t *testing.T, modulePath string, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	if _, ok := files["go.mod"]; !ok {
		WriteFile(t, root, "go.mod", "module "+modulePath+"\n\ngo 1.24\n")
	}
	for name, src := range files {
		WriteFile(t, root, name, src)
	}
	return root
}

// WriteFile writes src to the slash-separated path name below root.
func WriteFile(t *testing.T, root, name, src string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatalf("write %s failed: %v", name, err)
	}
}

// ReadFile returns the contents of the slash-separated path name below root.
func ReadFile(t *testing.T, root, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("read %s failed: %v", name, err)
	}
	return string(b)
}

// Exists reports whether name exists below root.
func Exists(t *testing.T, root, name string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(name)))
	return err == nil
}

// Logger returns a logger writing text records into a buffer.
func Logger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
