package ingestion

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"univ3-pool-lab/internal/domain"
)

// FileEventSource replays events from a JSONL file, one event per line,
// re-sorted into on-chain order. It needs no RPC access: replay files
// carry the timestamp and sender already.
type FileEventSource struct {
	path string
	log  *logrus.Entry
}

// NewFileEventSource builds a replay source over a JSONL file.
func NewFileEventSource(path string, logger *logrus.Logger) *FileEventSource {
	if logger == nil {
		logger = logrus.New()
	}
	return &FileEventSource{
		path: path,
		log:  logger.WithField("component", "replay_source"),
	}
}

var _ EventSource = (*FileEventSource)(nil)

// Subscribe loads and sorts the file, then streams the events. The
// channel closes after the last event or on context cancellation.
func (s *FileEventSource) Subscribe(ctx context.Context) (<-chan *domain.Event, error) {
	events, err := s.load()
	if err != nil {
		return nil, err
	}
	SortEvents(events)
	s.log.WithFields(logrus.Fields{
		"path":   s.path,
		"events": len(events),
	}).Info("replay file loaded")

	out := make(chan *domain.Event, 256)
	go func() {
		defer close(out)
		for _, ev := range events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *FileEventSource) load() ([]*domain.Event, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer f.Close()

	var events []*domain.Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		ev := &domain.Event{}
		if err := json.Unmarshal(raw, ev); err != nil {
			return nil, fmt.Errorf("replay file line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read replay file: %w", err)
	}
	return events, nil
}

// WriteEventsJSONL writes events to a JSONL file in on-chain order,
// producing a file FileEventSource can replay.
func WriteEventsJSONL(path string, events []*domain.Event) error {
	SortEvents(events)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush replay file: %w", err)
	}
	return nil
}
