package store

import (
	"time"

	"ddrand/internal/options"
	"ddrand/internal/randomize"
)

type File struct {
	Path string `json:"path"`
	Hash string `json:"sha256"`
}

type RunInput struct {
	Tag       string
	Seed      int32
	Options   options.Options
	Rules     randomize.Rules
	GameDir   string
	ModDir    string
	CreatedAt time.Time
	Files     []File
}

type Run struct {
	ID        int64           `json:"id"`
	Tag       string          `json:"tag"`
	Seed      int32           `json:"seed"`
	Options   options.Options `json:"options"`
	Rules     randomize.Rules `json:"rules"`
	GameDir   string          `json:"game_dir"`
	ModDir    string          `json:"mod_dir"`
	CreatedAt time.Time       `json:"created_at"`
	Files     []File          `json:"files"`
}

type RunSummary struct {
	ID        int64     `json:"id"`
	Tag       string    `json:"tag"`
	Seed      int32     `json:"seed"`
	ModDir    string    `json:"mod_dir"`
	FileCount int       `json:"file_count"`
	CreatedAt time.Time `json:"created_at"`
}
