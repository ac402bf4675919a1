package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024

// StdinName is the source name used for standard input.
const StdinName = "stdin"

// FileSource implements LineSource for reading from P2000 log files.
// Files are read one after another in the order given.
type FileSource struct {
	files []string

	currentFile    *os.File
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int
}

// NewFileSource creates a LineSource that reads from the given files.
func NewFileSource(files []string) *FileSource {
	return &FileSource{
		files:     files,
		fileIndex: -1,
	}
}

// Next returns the next line of the current file, moving on to the
// next file when one is exhausted. Returns io.EOF after the last file.
func (s *FileSource) Next(ctx context.Context) (*RawLine, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		if s.currentScanner.Scan() {
			s.currentLine++
			return &RawLine{
				Text:    trimNewline(s.currentScanner.Text()),
				Source:  s.currentSource,
				LineNum: s.currentLine,
			}, nil
		}

		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Name returns the file currently being read, or the next one to open.
func (s *FileSource) Name() string {
	if s.currentSource != "" {
		return s.currentSource
	}
	if next := s.fileIndex + 1; next >= 0 && next < len(s.files) {
		return s.files[next]
	}
	return ""
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		s.currentSource = ""
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		s.currentSource = path
		return fmt.Errorf("opening %s: %w", path, err)
	}

	s.currentFile = f
	s.currentScanner = newScanner(f)
	s.currentSource = path
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	s.currentScanner = nil
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		return err
	}
	return nil
}

// ReaderSource implements LineSource over an arbitrary reader,
// typically standard input.
type ReaderSource struct {
	name    string
	scanner *bufio.Scanner
	line    int
	closer  io.Closer
}

// NewReaderSource reads lines from r, reporting them under name.
// If r is an io.Closer it is closed by Close.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	src := &ReaderSource{
		name:    name,
		scanner: newScanner(r),
	}
	if c, ok := r.(io.Closer); ok && r != os.Stdin {
		src.closer = c
	}
	return src
}

// Next returns the next line, or io.EOF at the end of the reader.
func (s *ReaderSource) Next(ctx context.Context) (*RawLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.scanner.Scan() {
		s.line++
		return &RawLine{
			Text:    trimNewline(s.scanner.Text()),
			Source:  s.name,
			LineNum: s.line,
		}, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.name, err)
	}
	return nil, io.EOF
}

// Name returns the display name of the reader.
func (s *ReaderSource) Name() string {
	return s.name
}

// Close closes the underlying reader when it owns one.
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}

// trimNewline drops a carriage return left by CRLF files.
func trimNewline(s string) string {
	return strings.TrimSuffix(s, "\r")
}
