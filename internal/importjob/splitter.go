// Package importjob turns the comment-delimited import job script into the
// sectioned JSON document consumed by the overlay.
//
// The flow is Split (lines -> blocks), Classify (block -> kind) and Aggregate
// (blocks -> Document). Generator wires those to a source.Locator.
package importjob

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"importjob/internal/logging"
)

// CommentMarker starts every header line in the import job script.
const CommentMarker = "#"

// Block is a contiguous run of source lines: a header comment block plus its
// body, or the body-only fragment before the first header.
type Block struct {
	// Lines keep their original line terminators.
	Lines []string
	// StartLine is the 1-based line number of Lines[0] in the source.
	StartLine int
}

// Text returns the block's verbatim source text.
func (b Block) Text() string {
	return strings.Join(b.Lines, "")
}

// EndLine returns the 1-based line number of the block's last line.
func (b Block) EndLine() int {
	return b.StartLine + len(b.Lines) - 1
}

// ReadLines splits r into lines, keeping each terminator. The last line may
// have none. Concatenating the result reproduces the input exactly.
func ReadLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// isBareMarker reports a line that is only the comment marker, ignoring whitespace.
func isBareMarker(line string) bool {
	return strings.TrimSpace(line) == CommentMarker
}

func isComment(line string) bool {
	return strings.HasPrefix(line, CommentMarker)
}

// Split partitions lines into blocks. A block boundary is a bare marker line
// followed directly by another comment line. From the boundary on, comment
// lines form the header; a bare marker that ends the header run (for example
// one indented by whitespace) is included in it. Everything up to the next
// boundary is body. Every input line lands in exactly one block, in order.
func Split(lines []string) []Block {
	var blocks []Block
	current := Block{StartLine: 1}

	flush := func() {
		if len(current.Lines) > 0 {
			blocks = append(blocks, current)
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		if isBareMarker(line) && i+1 < len(lines) && isComment(lines[i+1]) {
			flush()
			current = Block{StartLine: i + 1, Lines: []string{line}}
			i++
			for i < len(lines) && isComment(lines[i]) {
				current.Lines = append(current.Lines, lines[i])
				i++
			}
			if i < len(lines) && isBareMarker(lines[i]) {
				current.Lines = append(current.Lines, lines[i])
				i++
			}
			continue
		}
		current.Lines = append(current.Lines, line)
		i++
	}
	flush()

	logging.SplitterDebug("Split %d lines into %d blocks", len(lines), len(blocks))
	return blocks
}
