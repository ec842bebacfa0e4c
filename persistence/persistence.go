// Package persistence writes run records and proofs to their destinations.
package persistence

import (
	"errors"

	"github.com/spacemeshos/vdf/event"
	"github.com/spacemeshos/vdf/stats"
)

// OwnerReadWriteExec is a standard owner read / write / exec file permission.
const OwnerReadWriteExec = 0o700

// OwnerReadWrite is a standard owner read / write file permission.
const OwnerReadWrite = 0o600

// Sink is a destination for the records of a run.
// WriteSummary is called at most once, after the last event.
type Sink interface {
	WriteEvent(ev *event.TimeUnitEvent) error
	WriteSummary(report *stats.Report) error
	Close() error
}

// MultiSink fans records out to several sinks.
type MultiSink []Sink

// A compile time check to ensure that MultiSink fully implements the Sink interface.
var _ Sink = (MultiSink)(nil)

func (m MultiSink) WriteEvent(ev *event.TimeUnitEvent) error {
	for _, s := range m {
		if err := s.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) WriteSummary(report *stats.Report) error {
	for _, s := range m {
		if err := s.WriteSummary(report); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, even if some fail.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
