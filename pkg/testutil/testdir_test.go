package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTempDir_DirIsValid(t *testing.T) {
	dir := TempDir(t)
	stat, err := os.Stat(dir)
	if err != nil {
		t.Errorf("TempDir returns %q, cannot stat: %v", dir, err)
	}
	if !stat.IsDir() {
		t.Errorf("TempDir returns %q, not a directory", dir)
	}
}

func TestTempDir_DirHasSymlinksResolved(t *testing.T) {
	dir := TempDir(t)
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		panic(err)
	}
	if dir != resolved {
		t.Errorf("TempDir returns %q, but it resolves to %q", dir, resolved)
	}
}

func TestTempDir_CleanupRemovesDir(t *testing.T) {
	var dir string
	t.Run("subtest", func(t *testing.T) {
		dir = TempDir(t)
		if err := os.WriteFile(filepath.Join(dir, "a"), []byte("x"), 0600); err != nil {
			panic(err)
		}
	})
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("got err %v, want not-exist error", err)
	}
}

func TestInTempDir(t *testing.T) {
	pwd, _ := os.Getwd()
	var dir string
	t.Run("subtest", func(t *testing.T) {
		dir = InTempDir(t)
		got, _ := os.Getwd()
		if got != dir {
			t.Errorf("working directory is %q, want %q", got, dir)
		}
	})
	if got, _ := os.Getwd(); got != pwd {
		t.Errorf("working directory not restored: got %q, want %q", got, pwd)
	}
}

func TestSetenv(t *testing.T) {
	const name = "RHO_TESTUTIL_VAR"
	os.Unsetenv(name)
	t.Run("subtest", func(t *testing.T) {
		Setenv(t, name, "value")
		if got := os.Getenv(name); got != "value" {
			t.Errorf("got %q, want %q", got, "value")
		}
	})
	if _, ok := os.LookupEnv(name); ok {
		t.Errorf("variable still set after test")
	}
}
