package persistence

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"

	"github.com/spacemeshos/vdf/event"
	"github.com/spacemeshos/vdf/stats"
)

// TableSink collects the records of a run and renders them as ASCII tables on Close.
type TableSink struct {
	out    io.Writer
	closer io.Closer

	rows    [][]string
	summary *stats.Report
}

// A compile time check to ensure that TableSink fully implements the Sink interface.
var _ Sink = (*TableSink)(nil)

// NewTableSink renders to w. w is not closed.
func NewTableSink(w io.Writer) *TableSink {
	return &TableSink{out: w}
}

// NewTableFileSink renders to the file at path, truncating it.
// An empty path renders to stdout.
func NewTableFileSink(path string) (*TableSink, error) {
	if path == "" {
		return NewTableSink(os.Stdout), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, OwnerReadWrite)
	if err != nil {
		return nil, err
	}
	return &TableSink{out: f, closer: f}, nil
}

func (s *TableSink) WriteEvent(ev *event.TimeUnitEvent) error {
	u := ev.Unit

	verify := "-"
	if u.VerifyTimeNs != nil {
		verify = roundMs(time.Duration(*u.VerifyTimeNs))
	}
	size := "-"
	if u.ProofSizeBytes != nil {
		size = bytefmt.ByteSize(uint64(*u.ProofSizeBytes))
	}

	s.rows = append(s.rows, []string{
		strconv.FormatUint(u.UnitID, 10),
		string(u.Metadata.Mode),
		strconv.FormatUint(u.Metadata.T, 10),
		roundMs(time.Duration(u.DurationNs)),
		verify,
		size,
		strconv.FormatBool(u.Metadata.OK),
	})
	return nil
}

func (s *TableSink) WriteSummary(report *stats.Report) error {
	s.summary = report
	return nil
}

func (s *TableSink) Close() error {
	if len(s.rows) > 0 {
		table := tablewriter.NewWriter(s.out)
		table.SetHeader([]string{"Tick", "Mode", "T", "Eval", "Verify", "Proof size", "OK"})
		table.SetBorder(true)
		table.AppendBulk(s.rows)
		table.Render()
	}

	if s.summary != nil {
		sum := s.summary.Summary
		fmt.Fprintf(s.out, "\nrun: %s\n", s.summary.RunID)

		table := tablewriter.NewWriter(s.out)
		table.SetHeader([]string{"Metric", "Value"})
		table.SetBorder(true)
		table.AppendBulk([][]string{
			{"samples", strconv.Itoa(sum.SampleCount)},
			{"mean", roundMs(time.Duration(sum.MeanNs))},
			{"std", roundMs(time.Duration(sum.StdNs))},
			{"p50", roundMs(time.Duration(sum.P50Ns))},
			{"p90", roundMs(time.Duration(sum.P90Ns))},
			{"p99", roundMs(time.Duration(sum.P99Ns))},
			{"jitter mean", roundMs(time.Duration(sum.JitterMeanNs))},
			{"abs jitter mean", roundMs(time.Duration(sum.AdjJitterMeanAbsNs))},
			{"abs jitter p99", roundMs(time.Duration(sum.AdjJitterP99AbsNs))},
			{"drift max +", roundMs(time.Duration(sum.DriftMaxPosNs))},
			{"drift max -", roundMs(time.Duration(sum.DriftMaxNegNs))},
			{"ticks/s", strconv.FormatFloat(sum.TicksPerSecondMean, 'f', 3, 64)},
		})
		table.Render()
	}

	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func roundMs(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
