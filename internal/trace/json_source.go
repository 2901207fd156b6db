package trace

import (
	"compress/gzip"
	"io"
	"os"
	"strings"
	"time"

	"github.com/snarg/uamp-sim/internal/simevent"
)

// JSONSource reads a timestamp-ordered event stream from a .json or
// .json.gz trace file, ported from original_source/trace_reader.py's
// JsonTraceReader.
type JSONSource struct {
	path   string
	events []simevent.Event
	pos    int
}

// NewSource returns the Source implementation for path based on its
// extension. Pickle trace files (.pkl, .pkl.gz) are not supported — see
// SPEC_FULL.md §4.2 for why.
func NewSource(path string) (Source, error) {
	switch {
	case strings.HasSuffix(path, ".json"), strings.HasSuffix(path, ".json.gz"):
		return &JSONSource{path: path}, nil
	case strings.HasSuffix(path, ".pkl"), strings.HasSuffix(path, ".pkl.gz"):
		return nil, &Error{Path: path, Reason: "pickle trace files are not supported by this implementation"}
	default:
		return nil, &Error{Path: path, Reason: "unrecognised trace file extension, expected .json or .json.gz"}
	}
}

// Build reads and decodes the entire trace file into memory.
func (s *JSONSource) Build() error {
	f, err := os.Open(s.path)
	if err != nil {
		return &Error{Path: s.path, Reason: err.Error()}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(s.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return &Error{Path: s.path, Reason: err.Error()}
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return &Error{Path: s.path, Reason: err.Error()}
	}

	events, err := decodeTraceLog(data)
	if err != nil {
		return &Error{Path: s.path, Reason: err.Error()}
	}
	s.events = events
	return nil
}

func (s *JSONSource) Finish() error {
	return nil
}

func (s *JSONSource) EndOfTrace() bool {
	return s.pos >= len(s.events)
}

func (s *JSONSource) GetEvent() (simevent.Event, bool) {
	if s.EndOfTrace() {
		return simevent.Event{}, false
	}
	e := s.events[s.pos]
	s.pos++
	return e, true
}

func (s *JSONSource) PeekEvent() (simevent.Event, bool) {
	if s.EndOfTrace() {
		return simevent.Event{}, false
	}
	return s.events[s.pos], true
}

func (s *JSONSource) GetEvents(count int) []simevent.Event {
	out := make([]simevent.Event, 0, count)
	for i := 0; i < count; i++ {
		e, ok := s.GetEvent()
		if !ok {
			break
		}
		out = append(out, e)
	}
	return out
}

func (s *JSONSource) StartTime() time.Time {
	if len(s.events) == 0 {
		return time.Time{}
	}
	return s.events[0].Timestamp
}

func (s *JSONSource) EndTime() time.Time {
	if len(s.events) == 0 {
		return time.Time{}
	}
	return s.events[len(s.events)-1].Timestamp
}
