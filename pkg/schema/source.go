package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind tells a loader how to fetch a form document.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source is a form document location. Errors and duplicate-form reports
// quote Location.
type Source interface {
	Kind() SourceKind
	Location() string
}

type docSource struct {
	kind     SourceKind
	location string
}

func (s docSource) Kind() SourceKind { return s.kind }
func (s docSource) Location() string { return s.location }
func (s docSource) String() string   { return string(s.kind) + ":" + s.location }

// SourceFromFile points at a document on disk.
func SourceFromFile(path string) Source {
	return docSource{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS points at a document inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return docSource{kind: SourceKindFS, location: name}
}

// SourceFromURL points at a remote document. It panics on a malformed URL;
// use ParseSource for user input.
func SourceFromURL(raw string) Source {
	src, err := urlSource(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseSource maps a command-line location to a Source: http(s) URLs load
// remotely, anything else is a file path.
func ParseSource(raw string) (Source, error) {
	location := strings.TrimSpace(raw)
	if location == "" {
		return nil, fmt.Errorf("schema: empty form source")
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return urlSource(location)
	}
	return SourceFromFile(location), nil
}

func urlSource(raw string) (Source, error) {
	if raw == "" {
		return nil, fmt.Errorf("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("schema: invalid URL %q: %w", raw, err)
	}
	return docSource{kind: SourceKindURL, location: raw}, nil
}
