// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package secret reads passwords and hash records from files or stdin.
// Values are returned to the caller and never logged.
package secret

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// StdinPath is the path that selects the reader instead of the filesystem.
const StdinPath = "-"

// Reader reads single-line secrets from a filesystem or a stdin stream.
type Reader struct {
	fs    afero.Fs
	stdin io.Reader
}

// NewReader returns a Reader over the operating system's filesystem.
func NewReader(stdin io.Reader) *Reader {
	return &Reader{
		fs:    afero.NewOsFs(),
		stdin: stdin,
	}
}

// SetFS sets the filesystem for testing.
func (r *Reader) SetFS(fs afero.Fs) {
	r.fs = fs
}

// Read returns the first line of path with its line ending removed.
// An empty path or StdinPath reads from stdin instead.
// Only the trailing newline is stripped; leading and trailing spaces are part of the secret.
func (r *Reader) Read(path string) (string, error) {
	if path == "" || path == StdinPath {
		return firstLine(r.stdin, "stdin")
	}
	fd, err := r.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer fd.Close()
	return firstLine(fd, path)
}

func firstLine(rd io.Reader, name string) (string, error) {
	if rd == nil {
		return "", fmt.Errorf("%s: no input", name)
	}
	line, err := bufio.NewReader(rd).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if err == io.EOF && line == "" {
		return "", fmt.Errorf("%s: no input", name)
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
