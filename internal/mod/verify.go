package mod

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Drift compares a mod directory with the hashes recorded when it was written.
type Drift struct {
	Changed    []string
	Missing    []string
	Unexpected []string
	Matched    int
}

func (d *Drift) Clean() bool {
	return len(d.Changed) == 0 && len(d.Missing) == 0 && len(d.Unexpected) == 0
}

// Verify re-hashes every file under dir against recorded.
func Verify(dir string, recorded []File) (*Drift, error) {
	current, err := hashDir(dir)
	if err != nil {
		return nil, err
	}

	drift := &Drift{}
	for _, f := range recorded {
		hash, ok := current[f.Path]
		switch {
		case !ok:
			drift.Missing = append(drift.Missing, f.Path)
		case hash != f.Hash:
			drift.Changed = append(drift.Changed, f.Path)
		default:
			drift.Matched++
		}
		delete(current, f.Path)
	}
	for path := range current {
		drift.Unexpected = append(drift.Unexpected, path)
	}
	sort.Strings(drift.Unexpected)
	return drift, nil
}

// hashDir maps every file under root, by slash separated relative path, to
// its SHA-256.
func hashDir(root string) (map[string]string, error) {
	hashes := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		hash, err := computeHash(path)
		if err != nil {
			return err
		}
		hashes[filepath.ToSlash(rel)] = hash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

func computeHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return hashBytes(data), nil
}
