package importjob

import (
	"context"
	"fmt"
	"os"

	"importjob/internal/logging"
	"importjob/internal/source"
)

// Generator runs the whole pipeline against a source.Locator.
type Generator struct {
	locator source.Locator
}

// NewGenerator creates a generator reading through locator.
func NewGenerator(locator source.Locator) *Generator {
	return &Generator{locator: locator}
}

// Generate resolves the source, splits and classifies it, and returns the
// finished document. The path is checked for existence before the hash is
// resolved, so a missing file never triggers hash evaluation.
func (g *Generator) Generate(ctx context.Context) (*Document, error) {
	path, blocks, err := g.LoadBlocks(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := g.locator.ResolveSourceHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve source hash: %w", err)
	}

	doc, err := Aggregate(hash, blocks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadBlocks resolves and reads the source file and splits it into blocks.
func (g *Generator) LoadBlocks(ctx context.Context) (string, []Block, error) {
	path, err := g.locator.ResolveSourcePath(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("resolve source path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, &MissingInputFileError{Path: path}
		}
		return "", nil, fmt.Errorf("stat source file: %w", err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("source path %s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return "", nil, fmt.Errorf("read source file: %w", err)
	}

	blocks := Split(lines)
	logging.Splitter("Read %s: %d lines, %d blocks", path, len(lines), len(blocks))
	return path, blocks, nil
}
