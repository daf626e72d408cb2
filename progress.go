package tablexport

import (
	"fmt"
	"log/slog"
)

// ProgressSink receives progress percentages (0-100) at well-defined points
// during an export: once before work starts, between row batches or chunks,
// and once after the output is complete.
type ProgressSink interface {
	Report(percent float64) error
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(percent float64) error

func (f ProgressFunc) Report(percent float64) error { return f(percent) }

// reporter applies the escalation policy around a sink: in strict mode a
// failing callback aborts the export, otherwise the failure is logged and the
// export continues. A nil reporter or nil sink reports nothing.
type reporter struct {
	sink   ProgressSink
	strict bool
	logger *slog.Logger
}

func (r *reporter) report(percent float64) error {
	if r == nil || r.sink == nil {
		return nil
	}
	if err := r.sink.Report(percent); err != nil {
		if r.strict {
			return fmt.Errorf("progress callback: %w", err)
		}
		logger := r.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("progress callback failed", "percent", percent, "error", err)
	}
	return nil
}
