package runner

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/zap"
)

// hostFields describes the CPU the run executes on. Lookup failures fall back
// to what the Go runtime knows.
func hostFields() []zap.Field {
	model := "unknown"
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		model = info[0].ModelName
	}
	threads, err := cpu.Counts(true)
	if err != nil {
		threads = runtime.NumCPU()
	}
	return []zap.Field{
		zap.String("cpu", model),
		zap.Int("threads", threads),
		zap.String("goarch", runtime.GOARCH),
	}
}
