package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"code.cloudfoundry.org/bytefmt"
	"go.uber.org/zap"

	"github.com/spacemeshos/vdf/event"
	"github.com/spacemeshos/vdf/stats"
)

// JSONLSink appends one JSON object per event to an events file and writes
// the summary report as indented JSON to a separate file.
type JSONLSink struct {
	events      *FileWriter
	enc         *json.Encoder
	summaryPath string
	logger      *zap.Logger
}

// A compile time check to ensure that JSONLSink fully implements the Sink interface.
var _ Sink = (*JSONLSink)(nil)

// NewJSONLSink opens eventsPath for appending, creating missing directories.
// An empty summaryPath disables the summary.
func NewJSONLSink(eventsPath, summaryPath string, logger *zap.Logger) (*JSONLSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Dir(eventsPath)
	if err := os.MkdirAll(dir, OwnerReadWriteExec); err != nil {
		return nil, fmt.Errorf("dir creation failure: %w", err)
	}
	if free := AvailableSpace(dir); free < MinFreeSpace {
		logger.Warn("persistence: low disk space for events",
			zap.String("dir", dir),
			zap.String("available", bytefmt.ByteSize(free)),
		)
	}

	w, err := NewFileWriter(eventsPath)
	if err != nil {
		return nil, err
	}
	logger.Info("persistence: writing events", zap.String("path", eventsPath))

	return &JSONLSink{
		events:      w,
		enc:         json.NewEncoder(w),
		summaryPath: summaryPath,
		logger:      logger,
	}, nil
}

func (s *JSONLSink) WriteEvent(ev *event.TimeUnitEvent) error {
	// Encode terminates every value with a newline.
	if err := s.enc.Encode(ev); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

func (s *JSONLSink) WriteSummary(report *stats.Report) error {
	if s.summaryPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.summaryPath), OwnerReadWriteExec); err != nil {
		return fmt.Errorf("dir creation failure: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("serialization failure: %w", err)
	}
	if err := os.WriteFile(s.summaryPath, data, OwnerReadWrite); err != nil {
		return fmt.Errorf("write to disk failure: %w", err)
	}

	s.logger.Info("persistence: wrote summary", zap.String("path", s.summaryPath))
	return nil
}

func (s *JSONLSink) Close() error {
	info, err := s.events.Close()
	if err != nil {
		return err
	}
	s.logger.Debug("persistence: closed events file", zap.String("size", bytefmt.ByteSize(uint64(info.Size()))))
	return nil
}
