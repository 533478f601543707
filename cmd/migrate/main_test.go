package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProfileImportRequiresFlags(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"profile", "import", "--backend", "mongo"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected missing flag error")
	}
	for _, flag := range []string{"email", "password", "file"} {
		if !strings.Contains(err.Error(), flag) {
			t.Fatalf("expected %q in error, got %v", flag, err)
		}
	}
}

func TestFindMigrationsDirWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "migrations"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	nested := filepath.Join(root, "cmd", "migrate")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	got, err := findMigrationsDir()
	if err != nil {
		t.Fatalf("findMigrationsDir: %v", err)
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(root, "migrations"))
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Fatalf("expected %q, got %q", want, gotResolved)
	}
}
