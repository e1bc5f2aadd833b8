package mod

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ddrand/internal/gamedata"
)

func TestProjectXML(t *testing.T) {
	data, err := ProjectXML("/games/dd/mods/Randomizer 1f0000002a", "1f0000002a", 42)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		"<Title>Randomizer [1f0000002a] (Seed: 42)</Title>",
		"<ModDataPath>/games/dd/mods/Randomizer 1f0000002a</ModDataPath>",
		"<Visibility>hidden</Visibility>",
		"<UploadMode>direct_upload</UploadMode>",
		"<VersionMajor>0</VersionMajor>",
		"<PublishedFileId></PublishedFileId>",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in:\n%s", want, text)
		}
	}
}

func TestWrite(t *testing.T) {
	modsDir := filepath.Join(t.TempDir(), "mods")
	artifacts := []gamedata.Artifact{
		{Path: "curios/curio_type_library.csv", Data: []byte("a,b\n")},
		{Path: "dungeons/cove/cove.1.mash.darkest", Data: []byte("hall: .types x\n")},
	}

	written, err := Write(modsDir, "abc00000001", 1, artifacts)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if filepath.Base(written.Dir) != "Randomizer abc00000001" {
		t.Fatalf("unexpected dir: %s", written.Dir)
	}

	var paths []string
	for _, f := range written.Files {
		paths = append(paths, f.Path)
		if len(f.Hash) != 64 {
			t.Errorf("expected hex sha256 for %s, got %q", f.Path, f.Hash)
		}
	}
	want := []string{"project.xml", "curios/curio_type_library.csv", "dungeons/cove/cove.1.mash.darkest"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}

	data, err := os.ReadFile(filepath.Join(written.Dir, "dungeons", "cove", "cove.1.mash.darkest"))
	if err != nil {
		t.Fatalf("expected mash file, got %v", err)
	}
	if string(data) != "hall: .types x\n" {
		t.Fatalf("unexpected content: %q", data)
	}

	entries, err := os.ReadDir(modsDir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected staging dir to be gone, got %d entries", len(entries))
	}
}

func TestWriteReplacesPrevious(t *testing.T) {
	modsDir := t.TempDir()
	if _, err := Write(modsDir, "t", 1, []gamedata.Artifact{{Path: "old.txt", Data: []byte("old")}}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	written, err := Write(modsDir, "t", 1, []gamedata.Artifact{{Path: "new.txt", Data: []byte("new")}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(written.Dir, "old.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected old file removed, got %v", err)
	}
	entries, _ := os.ReadDir(modsDir)
	if len(entries) != 1 {
		t.Fatalf("expected no backup left behind, got %d entries", len(entries))
	}
}

func TestWriteDirMode(t *testing.T) {
	written, err := Write(t.TempDir(), "t", 1, []gamedata.Artifact{{Path: "a.txt", Data: []byte("a")}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	info, err := os.Stat(written.Dir)
	if err != nil {
		t.Fatalf("expected mod dir, got %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o755 {
		t.Fatalf("expected mode 0755, got %o", mode)
	}
}

func TestWriteRestoresPreviousOnFailedMove(t *testing.T) {
	modsDir := t.TempDir()
	first, err := Write(modsDir, "t", 1, []gamedata.Artifact{{Path: "old.txt", Data: []byte("old")}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := 0
	rename = func(oldpath, newpath string) error {
		calls++
		if calls == 2 {
			return os.ErrPermission
		}
		return os.Rename(oldpath, newpath)
	}
	t.Cleanup(func() { rename = os.Rename })

	if _, err := Write(modsDir, "t", 1, []gamedata.Artifact{{Path: "new.txt", Data: []byte("new")}}); err == nil {
		t.Fatalf("expected error")
	}
	data, err := os.ReadFile(filepath.Join(first.Dir, "old.txt"))
	if err != nil || string(data) != "old" {
		t.Fatalf("expected previous mod restored, got %q, %v", data, err)
	}
	entries, _ := os.ReadDir(modsDir)
	if len(entries) != 1 {
		t.Fatalf("expected only the previous mod left, got %d entries", len(entries))
	}
}

func TestWriteFailureLeavesNoMod(t *testing.T) {
	modsDir := t.TempDir()
	// A file where a directory is needed makes the second write fail.
	artifacts := []gamedata.Artifact{
		{Path: "heroes", Data: []byte("x")},
		{Path: "heroes/crusader/crusader.info.darkest", Data: []byte("y")},
	}
	if _, err := Write(modsDir, "bad", 1, artifacts); err == nil {
		t.Fatalf("expected error")
	}
	entries, _ := os.ReadDir(modsDir)
	if len(entries) != 0 {
		t.Fatalf("expected nothing left behind, got %d entries", len(entries))
	}
}

func TestVerify(t *testing.T) {
	modsDir := t.TempDir()
	written, err := Write(modsDir, "v", 7, []gamedata.Artifact{
		{Path: "a/one.txt", Data: []byte("1")},
		{Path: "a/two.txt", Data: []byte("2")},
		{Path: "three.txt", Data: []byte("3")},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	drift, err := Verify(written.Dir, written.Files)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !drift.Clean() || drift.Matched != 4 {
		t.Fatalf("expected clean drift, got %+v", drift)
	}

	os.WriteFile(filepath.Join(written.Dir, "a", "one.txt"), []byte("changed"), 0o644)
	os.Remove(filepath.Join(written.Dir, "three.txt"))
	os.WriteFile(filepath.Join(written.Dir, "extra.txt"), []byte("x"), 0o644)

	drift, err = Verify(written.Dir, written.Files)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(drift.Changed, []string{"a/one.txt"}) {
		t.Errorf("unexpected changed: %v", drift.Changed)
	}
	if !reflect.DeepEqual(drift.Missing, []string{"three.txt"}) {
		t.Errorf("unexpected missing: %v", drift.Missing)
	}
	if !reflect.DeepEqual(drift.Unexpected, []string{"extra.txt"}) {
		t.Errorf("unexpected extra: %v", drift.Unexpected)
	}
	if drift.Clean() {
		t.Errorf("expected drift")
	}
}
