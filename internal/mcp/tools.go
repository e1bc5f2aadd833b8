package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"ddrand/internal/darkest"
	"ddrand/internal/options"
	"ddrand/internal/randomize"
	"ddrand/internal/store"
	"ddrand/internal/tag"
)

var errNoLedger = errors.New("no run ledger configured")

type EncodeTagInput struct {
	Seed    int32            `json:"seed" jsonschema:"randomizer seed"`
	Options *options.Options `json:"options,omitempty" jsonschema:"option set; defaults apply when omitted"`
}

type EncodeTagOutput struct {
	Tag string `json:"tag"`
}

type DecodeTagInput struct {
	Tag string `json:"tag" jsonschema:"randomizer tag"`
}

type DecodeTagOutput struct {
	Seed    int32           `json:"seed"`
	Options options.Options `json:"options"`
}

type ListRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of runs, newest first"`
}

type RunSummaryOutput struct {
	ID        int64  `json:"id"`
	Tag       string `json:"tag"`
	Seed      int32  `json:"seed"`
	ModDir    string `json:"mod_dir"`
	FileCount int    `json:"file_count"`
	CreatedAt string `json:"created_at"`
}

type ListRunsOutput struct {
	Runs []RunSummaryOutput `json:"runs"`
}

type GetRunInput struct {
	Tag string `json:"tag" jsonschema:"randomizer tag"`
}

type RunOutput struct {
	ID        int64           `json:"id"`
	Tag       string          `json:"tag"`
	Seed      int32           `json:"seed"`
	Options   options.Options `json:"options"`
	Rules     randomize.Rules `json:"rules"`
	GameDir   string          `json:"game_dir"`
	ModDir    string          `json:"mod_dir"`
	CreatedAt string          `json:"created_at"`
	Files     []FileOutput    `json:"files"`
}

type FileOutput struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

type ParseDarkestInput struct {
	Text string `json:"text" jsonschema:"contents of a .darkest file"`
}

type ParseDarkestOutput struct {
	Entries []EntryOutput `json:"entries"`
}

type EntryOutput struct {
	Type       string           `json:"type"`
	Properties []PropertyOutput `json:"properties"`
}

type PropertyOutput struct {
	Name   string   `json:"name"`
	Tokens []string `json:"tokens"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "encode_tag",
		Description: "Build the randomizer tag for a seed and option set",
	}, s.handleEncodeTag)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "decode_tag",
		Description: "Recover the seed and options from a randomizer tag",
	}, s.handleDecodeTag)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_runs",
		Description: "List recorded randomizer runs",
	}, s.handleListRuns)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_run",
		Description: "Retrieve the latest run recorded for a tag with its file hashes",
	}, s.handleGetRun)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "parse_darkest",
		Description: "Parse .darkest text into ordered entries",
	}, s.handleParseDarkest)
}

func (s *Server) handleEncodeTag(ctx context.Context, req *sdk.CallToolRequest, input EncodeTagInput) (*sdk.CallToolResult, EncodeTagOutput, error) {
	opts := options.Default()
	if input.Options != nil {
		opts = *input.Options
	}
	t, err := tag.Encode(opts, input.Seed)
	if err != nil {
		return nil, EncodeTagOutput{}, err
	}
	return nil, EncodeTagOutput{Tag: t}, nil
}

func (s *Server) handleDecodeTag(ctx context.Context, req *sdk.CallToolRequest, input DecodeTagInput) (*sdk.CallToolResult, DecodeTagOutput, error) {
	if input.Tag == "" {
		return nil, DecodeTagOutput{}, fmt.Errorf("tag is required")
	}
	opts, seed, err := tag.Decode(input.Tag)
	if err != nil {
		return nil, DecodeTagOutput{}, err
	}
	return nil, DecodeTagOutput{Seed: seed, Options: opts}, nil
}

func (s *Server) handleListRuns(ctx context.Context, req *sdk.CallToolRequest, input ListRunsInput) (*sdk.CallToolResult, ListRunsOutput, error) {
	if s.db == nil {
		return nil, ListRunsOutput{}, errNoLedger
	}
	runs, err := s.db.ListRuns(ctx, input.Limit)
	if err != nil {
		return nil, ListRunsOutput{}, err
	}

	output := make([]RunSummaryOutput, 0, len(runs))
	for _, run := range runs {
		output = append(output, runSummaryOutputFromStore(run))
	}
	return nil, ListRunsOutput{Runs: output}, nil
}

func (s *Server) handleGetRun(ctx context.Context, req *sdk.CallToolRequest, input GetRunInput) (*sdk.CallToolResult, RunOutput, error) {
	if input.Tag == "" {
		return nil, RunOutput{}, fmt.Errorf("tag is required")
	}
	if s.db == nil {
		return nil, RunOutput{}, errNoLedger
	}
	run, err := s.db.GetRun(ctx, input.Tag)
	if err != nil {
		return nil, RunOutput{}, err
	}
	return nil, runOutputFromStore(run), nil
}

func (s *Server) handleParseDarkest(ctx context.Context, req *sdk.CallToolRequest, input ParseDarkestInput) (*sdk.CallToolResult, ParseDarkestOutput, error) {
	return nil, parseDarkestOutput(darkest.Parse(input.Text)), nil
}

func parseDarkestOutput(doc *darkest.Document) ParseDarkestOutput {
	out := ParseDarkestOutput{Entries: []EntryOutput{}}
	for _, typ := range doc.Types() {
		entries, _ := doc.Entries(typ)
		for _, entry := range entries {
			entryOut := EntryOutput{Type: typ, Properties: []PropertyOutput{}}
			for _, name := range entry.Names() {
				tokens, _ := entry.Property(name)
				entryOut.Properties = append(entryOut.Properties, PropertyOutput{Name: name, Tokens: tokens})
			}
			out.Entries = append(out.Entries, entryOut)
		}
	}
	return out
}

func runSummaryOutputFromStore(run store.RunSummary) RunSummaryOutput {
	return RunSummaryOutput{
		ID:        run.ID,
		Tag:       run.Tag,
		Seed:      run.Seed,
		ModDir:    run.ModDir,
		FileCount: run.FileCount,
		CreatedAt: run.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func runOutputFromStore(run *store.Run) RunOutput {
	files := make([]FileOutput, 0, len(run.Files))
	for _, f := range run.Files {
		files = append(files, FileOutput{Path: f.Path, SHA256: f.Hash})
	}
	return RunOutput{
		ID:        run.ID,
		Tag:       run.Tag,
		Seed:      run.Seed,
		Options:   run.Options,
		Rules:     run.Rules,
		GameDir:   run.GameDir,
		ModDir:    run.ModDir,
		CreatedAt: run.CreatedAt.UTC().Format(time.RFC3339),
		Files:     files,
	}
}
