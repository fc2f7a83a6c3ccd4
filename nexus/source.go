package nexus

import (
	"fmt"
	"net/url"
)

// Source locates the file a dataset lives in. The URI host, when set, names
// the machine holding the file; the path is read from Filename if set and
// from the URI otherwise.
type Source struct {
	URI      *url.URL
	Filename string
}

// FileSource returns a Source for a local path.
func FileSource(path string) Source {
	return Source{URI: &url.URL{Scheme: "file", Path: path}, Filename: path}
}

// ParseSource parses a URI such as file://beamline-ws/data/scan.nxs.
func ParseSource(uri string) (Source, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Source{}, fmt.Errorf("parsing source %q: %w", uri, err)
	}
	return Source{URI: u}, nil
}

// Path returns the path passed to the storage backend.
func (s Source) Path() string {
	if s.Filename != "" || s.URI == nil {
		return s.Filename
	}
	return s.URI.Path
}

// Host returns the URI host without port, or "".
func (s Source) Host() string {
	if s.URI == nil {
		return ""
	}
	return s.URI.Hostname()
}

func (s Source) String() string {
	if s.URI != nil {
		return s.URI.String()
	}
	return s.Filename
}
