package metrics

import "github.com/regexident/inplace/store"

type NoopCollector struct{}

var _ store.Metrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) OnKeyGetSuccess()             {}
func (nc *NoopCollector) OnKeyGetFailure()             {}
func (nc *NoopCollector) OnKeyPutSuccess(size uint32)  {}
func (nc *NoopCollector) OnKeyPutDeduplicated()        {}
func (nc *NoopCollector) OnKeyPutDrop()                {}
func (nc *NoopCollector) OnKeyRemoved(size uint32)     {}
func (nc *NoopCollector) OnKeyModified()               {}
func (nc *NoopCollector) OnModifyAborted()             {}
func (nc *NoopCollector) OnEjectionDueToFullCapacity() {}
