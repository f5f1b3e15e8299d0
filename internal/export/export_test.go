package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
)

func TestWriteJSONReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "merged.json")

	if err := WriteJSON(path, map[string]int{"matches": 1}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteJSON(path, map[string]int{"matches": 2}); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Fatalf("expected trailing newline, got %q", data)
	}
	var got map[string]int
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got["matches"] != 2 {
		t.Fatalf("matches = %d, want 2", got["matches"])
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the output file, found %v", names)
	}
}

func TestWriteJSONRefusesLockedPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.json")
	holder := flock.New(LockPath(path))
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("hold lock: ok=%v err=%v", ok, err)
	}
	defer holder.Unlock()

	err = WriteJSON(path, []string{"x"})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("output should not exist, stat err = %v", statErr)
	}
}

func TestWriteJSONRejectsUnencodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.json")
	if err := WriteJSON(path, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
	if err := WriteFile("", nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}
