package unittest

import (
	"go.uber.org/atomic"

	"github.com/regexident/inplace/store"
)

// TallyCollector implements store.Metrics by counting every notification, so
// tests can assert on exact tallies. Safe for concurrent use.
type TallyCollector struct {
	GetSuccesses    atomic.Uint64
	GetFailures     atomic.Uint64
	PutSuccesses    atomic.Uint64
	PutDeduplicated atomic.Uint64
	PutDrops        atomic.Uint64
	Removals        atomic.Uint64
	Modified        atomic.Uint64
	Aborted         atomic.Uint64
	Ejections       atomic.Uint64
	LastSize        atomic.Uint32
}

var _ store.Metrics = (*TallyCollector)(nil)

func NewTallyCollector() *TallyCollector {
	return &TallyCollector{}
}

func (c *TallyCollector) OnKeyGetSuccess() {
	c.GetSuccesses.Inc()
}

func (c *TallyCollector) OnKeyGetFailure() {
	c.GetFailures.Inc()
}

func (c *TallyCollector) OnKeyPutSuccess(size uint32) {
	c.PutSuccesses.Inc()
	c.LastSize.Store(size)
}

func (c *TallyCollector) OnKeyPutDeduplicated() {
	c.PutDeduplicated.Inc()
}

func (c *TallyCollector) OnKeyPutDrop() {
	c.PutDrops.Inc()
}

func (c *TallyCollector) OnKeyRemoved(size uint32) {
	c.Removals.Inc()
	c.LastSize.Store(size)
}

func (c *TallyCollector) OnKeyModified() {
	c.Modified.Inc()
}

func (c *TallyCollector) OnModifyAborted() {
	c.Aborted.Inc()
}

func (c *TallyCollector) OnEjectionDueToFullCapacity() {
	c.Ejections.Inc()
}
