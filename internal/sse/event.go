package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// EventKind tags the variants a stream can carry.
type EventKind int

const (
	// EventData is a blank-line-terminated block of one or more data lines.
	EventData EventKind = iota
	// EventComment is a ":" keep-alive line.
	EventComment
	// EventRetry is a "retry:" reconnection hint.
	EventRetry
)

// Event is one parsed unit of an event stream. Data holds the joined payload
// for EventData and EventComment; RetryMS is set for EventRetry.
type Event struct {
	Kind    EventKind
	Data    string
	RetryMS int
}

// Scanner yields events from an SSE body one at a time. A body may contain
// zero, one, or many events; Next returns io.EOF when the stream is
// exhausted.
type Scanner struct {
	r *bufio.Scanner
}

// NewScanner wraps r for event-by-event reading.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewScanner(r)}
}

// Next returns the next event in the stream. Multi-line data fields are
// joined with newlines per the SSE convention. Field names other than data,
// retry, and the comment marker are ignored.
func (s *Scanner) Next() (Event, error) {
	var data []string
	for s.r.Scan() {
		line := strings.TrimRight(s.r.Text(), "\r")
		switch {
		case line == "":
			if len(data) == 0 {
				continue
			}
			return Event{Kind: EventData, Data: strings.Join(data, "\n")}, nil
		case strings.HasPrefix(line, ":"):
			if len(data) > 0 {
				// Comment inside a block does not terminate it.
				continue
			}
			return Event{Kind: EventComment, Data: strings.TrimSpace(line[1:])}, nil
		case strings.HasPrefix(line, "retry:"):
			ms, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "retry:")))
			if err != nil {
				continue
			}
			return Event{Kind: EventRetry, RetryMS: ms}, nil
		case strings.HasPrefix(line, dataMarker):
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, dataMarker)))
		}
	}
	if err := s.r.Err(); err != nil {
		return Event{}, err
	}
	// A final data block may be terminated by EOF rather than a blank line.
	if len(data) > 0 {
		ev := Event{Kind: EventData, Data: strings.Join(data, "\n")}
		return ev, nil
	}
	return Event{}, io.EOF
}

// DataEvents drains the stream and returns every data event payload.
func DataEvents(r io.Reader) ([]string, error) {
	sc := NewScanner(r)
	var out []string
	for {
		ev, err := sc.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if ev.Kind == EventData {
			out = append(out, ev.Data)
		}
	}
}
