package translate

import (
	"github.com/halvard/celd/internal/bus"
	"github.com/halvard/celd/internal/eventkind"
)

// Local handles local-channel optimization events (spec.md §4.6).
type Local struct {
	Report Reporter
}

func (l Local) Handle(msg bus.Message) {
	lo, ok := msg.(bus.LocalOptimize)
	if !ok {
		return
	}
	l.Report.ReportEvent(lo.One, eventkind.LocalOptimize, "", map[string]any{
		"local_two": lo.Two.Name,
	})
}
