// Package mod writes a randomized data set as a game mod directory.
package mod

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ddrand/internal/gamedata"
)

const (
	dirPrefix       = "Randomizer "
	projectFile     = "project.xml"
	itemDescription = "If playing the same randomizer as another player, make sure that the IDs match on both clients."
)

type project struct {
	XMLName              xml.Name `xml:"project"`
	PreviewIconFile      string   `xml:"PreviewIconFile"`
	ItemDescriptionShort string   `xml:"ItemDescriptionShort"`
	ModDataPath          string   `xml:"ModDataPath"`
	Title                string   `xml:"Title"`
	Language             string   `xml:"Language"`
	UpdateDetails        string   `xml:"UpdateDetails"`
	Visibility           string   `xml:"Visibility"`
	UploadMode           string   `xml:"UploadMode"`
	VersionMajor         int      `xml:"VersionMajor"`
	VersionMinor         int      `xml:"VersionMinor"`
	TargetBuild          int      `xml:"TargetBuild"`
	Tags                 string   `xml:"Tags"`
	ItemDescription      string   `xml:"ItemDescription"`
	PublishedFileID      string   `xml:"PublishedFileId"`
}

// File is one written mod file with its SHA-256.
type File struct {
	Path string `json:"path"`
	Hash string `json:"sha256"`
}

type Written struct {
	Dir   string
	Files []File
}

// Dir returns the directory a mod for tag lives in.
func Dir(modsDir, tag string) string {
	return filepath.Join(modsDir, dirPrefix+tag)
}

// Title is the mod title shown in the game's mod list.
func Title(tag string, seed int32) string {
	return fmt.Sprintf("Randomizer [%s] (Seed: %d)", tag, seed)
}

// ProjectXML renders the mod manifest. dir is the absolute mod directory.
func ProjectXML(dir, tag string, seed int32) ([]byte, error) {
	body, err := xml.MarshalIndent(project{
		ModDataPath:     dir,
		Title:           Title(tag, seed),
		Language:        "english",
		Visibility:      "hidden",
		UploadMode:      "direct_upload",
		ItemDescription: itemDescription,
	}, "", "\t")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Write creates the mod directory for tag. Every file is written into a
// staging directory first, which replaces any previous mod for the same tag
// only once all writes succeeded.
func Write(modsDir, tag string, seed int32, artifacts []gamedata.Artifact) (*Written, error) {
	if err := os.MkdirAll(modsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating mods dir: %w", err)
	}
	dir, err := filepath.Abs(Dir(modsDir, tag))
	if err != nil {
		return nil, err
	}
	staging, err := os.MkdirTemp(modsDir, ".randomizer-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	manifest, err := ProjectXML(dir, tag, seed)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", projectFile, err)
	}

	written := &Written{Dir: dir}
	files := append([]gamedata.Artifact{{Path: projectFile, Data: manifest}}, artifacts...)
	for _, a := range files {
		target := filepath.Join(staging, filepath.FromSlash(a.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("creating dir for %s: %w", a.Path, err)
		}
		if err := os.WriteFile(target, a.Data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", a.Path, err)
		}
		written.Files = append(written.Files, File{Path: a.Path, Hash: hashBytes(a.Data)})
	}

	if err := os.Chmod(staging, 0o755); err != nil {
		return nil, fmt.Errorf("setting mod dir mode: %w", err)
	}
	if err := publish(staging, dir); err != nil {
		return nil, err
	}
	return written, nil
}

var rename = os.Rename

// publish moves staging to dir. A previous mod at dir is moved aside first
// and only removed once the new one is in place; if the move fails it is put
// back.
func publish(staging, dir string) error {
	backup := ""
	if _, err := os.Stat(dir); err == nil {
		backup = filepath.Join(filepath.Dir(staging), ".randomizer-old-"+filepath.Base(staging))
		if err := rename(dir, backup); err != nil {
			return fmt.Errorf("moving previous mod aside: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking previous mod: %w", err)
	}

	if err := rename(staging, dir); err != nil {
		if backup != "" {
			if restoreErr := rename(backup, dir); restoreErr != nil {
				return fmt.Errorf("moving mod into place: %w (previous mod left at %s)", err, backup)
			}
		}
		return fmt.Errorf("moving mod into place: %w", err)
	}

	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			return fmt.Errorf("removing previous mod: %w", err)
		}
	}
	return nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
