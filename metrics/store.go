// Package metrics provides prometheus-backed implementations of the
// instrumentation interfaces consumed by the store packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/regexident/inplace/store"
)

const subsystemStore = "kv_store"

// StoreCollector reports the read, write, modification and ejection activity
// of a single store instance to prometheus.
type StoreCollector struct {
	countKeyGetSuccess prometheus.Counter
	countKeyGetFailure prometheus.Counter

	countKeyPutSuccess      prometheus.Counter
	countKeyPutDeduplicated prometheus.Counter
	countKeyPutDrop         prometheus.Counter
	countKeyRemoved         prometheus.Counter

	countKeyModified   prometheus.Counter
	countModifyAborted prometheus.Counter

	countEjectionDueToFullCapacity prometheus.Counter

	gaugeSize prometheus.Gauge
}

var _ store.Metrics = (*StoreCollector)(nil)

func NewStoreCollector(nameSpace string, storeName string, registrar prometheus.Registerer) *StoreCollector {

	countKeyGetSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemStore,
		Name:      storeName + "_" + "successful_read_count_total",
		Help:      "total number of successful read queries",
	})

	countKeyGetFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemStore,
		Name:      storeName + "_" + "unsuccessful_read_count_total",
		Help:      "total number of read queries for keys not in the store",
	})

	countKeyPutSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemStore,
		Name:      storeName + "_" + "successful_write_count_total",
		Help:      "total number of successful write queries",
	})

	countKeyPutDeduplicated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemStore,
		Name:      storeName + "_" + "duplicate_write_count_total",
		Help:      "total number of write queries dropped for writing an already existing key",
	})

	countKeyPutDrop := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemStore,
		Name:      storeName + "_" + "dropped_write_count_total",
		Help:      "total number of write queries dropped at full capacity without ejection",
	})

	countKeyRemoved := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemStore,
		Name:      storeName + "_" + "removed_key_count_total",
		Help:      "total number of key-value pairs removed from the store",
	})

	countKeyModified := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemStore,
		Name:      storeName + "_" + "successful_modification_count_total",
		Help:      "total number of in-place modifications committed without error",
	})

	countModifyAborted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemStore,
		Name:      storeName + "_" + "aborted_modification_count_total",
		Help:      "total number of in-place modifications that returned an error",
	})

	countEjectionDueToFullCapacity := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: nameSpace,
		Subsystem: subsystemStore,
		Name:      storeName + "_" + "full_capacity_ejection_total",
		Help:      "total number of key-value pairs ejected when writing at full capacity",
	})

	gaugeSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: nameSpace,
		Subsystem: subsystemStore,
		Name:      storeName + "_" + "stored_key_count",
		Help:      "number of key-value pairs currently in the store",
	})

	registrar.MustRegister(
		// read
		countKeyGetSuccess,
		countKeyGetFailure,

		// write
		countKeyPutSuccess,
		countKeyPutDeduplicated,
		countKeyPutDrop,
		countKeyRemoved,

		// modification
		countKeyModified,
		countModifyAborted,

		// ejection
		countEjectionDueToFullCapacity,

		// occupancy
		gaugeSize)

	return &StoreCollector{
		countKeyGetSuccess: countKeyGetSuccess,
		countKeyGetFailure: countKeyGetFailure,

		countKeyPutSuccess:      countKeyPutSuccess,
		countKeyPutDeduplicated: countKeyPutDeduplicated,
		countKeyPutDrop:         countKeyPutDrop,
		countKeyRemoved:         countKeyRemoved,

		countKeyModified:   countKeyModified,
		countModifyAborted: countModifyAborted,

		countEjectionDueToFullCapacity: countEjectionDueToFullCapacity,

		gaugeSize: gaugeSize,
	}
}

// OnKeyGetSuccess tracks total number of successful read queries.
// A read query is successful if the value corresponding to its key is in the store.
func (c *StoreCollector) OnKeyGetSuccess() {
	c.countKeyGetSuccess.Inc()
}

// OnKeyGetFailure tracks total number of unsuccessful read queries.
// A read query is unsuccessful if the value corresponding to its key is not in the store.
func (c *StoreCollector) OnKeyGetFailure() {
	c.countKeyGetFailure.Inc()
}

// OnKeyPutSuccess is called whenever a new key-value pair is successfully added to the store.
// size is the number of pairs in the store after the write.
func (c *StoreCollector) OnKeyPutSuccess(size uint32) {
	c.countKeyPutSuccess.Inc()
	c.gaugeSize.Set(float64(size))
}

// OnKeyPutDeduplicated is called whenever a write is dropped because its key
// is already in the store.
func (c *StoreCollector) OnKeyPutDeduplicated() {
	c.countKeyPutDeduplicated.Inc()
}

// OnKeyPutDrop is called whenever a write is dropped because the store is at
// full capacity and configured without ejection.
func (c *StoreCollector) OnKeyPutDrop() {
	c.countKeyPutDrop.Inc()
}

// OnKeyRemoved is called whenever a key-value pair is removed from the store.
// size is the number of pairs in the store after the removal.
func (c *StoreCollector) OnKeyRemoved(size uint32) {
	c.countKeyRemoved.Inc()
	c.gaugeSize.Set(float64(size))
}

// OnKeyModified is called whenever an in-place modification commits without error.
func (c *StoreCollector) OnKeyModified() {
	c.countKeyModified.Inc()
}

// OnModifyAborted is called whenever an in-place modification returns an error.
// The state committed by the modification stands regardless.
func (c *StoreCollector) OnModifyAborted() {
	c.countModifyAborted.Inc()
}

// OnEjectionDueToFullCapacity is called whenever adding a key-value pair to the
// store results in ejection of another pair. This normally happens, and is
// expected, when the store is full.
func (c *StoreCollector) OnEjectionDueToFullCapacity() {
	c.countEjectionDueToFullCapacity.Inc()
}
