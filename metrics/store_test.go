package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/regexident/inplace/internal/unittest"
	"github.com/regexident/inplace/metrics"
	"github.com/regexident/inplace/store/slotmap"
	"github.com/regexident/inplace/store/slotmap/slotpool"
)

// TestNewStoreCollector tests that a fresh collector registers all of its
// metrics under the namespace_subsystem_storeName prefix and starts at zero.
func TestNewStoreCollector(t *testing.T) {
	registry := prometheus.NewPedanticRegistry()
	metrics.NewStoreCollector("testns", "records", registry)

	families, err := registry.Gather()
	require.NoError(t, err)

	gathered := make(map[string]struct{}, len(families))
	for _, family := range families {
		gathered[family.GetName()] = struct{}{}
	}

	for _, name := range []string{
		"testns_kv_store_records_successful_read_count_total",
		"testns_kv_store_records_unsuccessful_read_count_total",
		"testns_kv_store_records_successful_write_count_total",
		"testns_kv_store_records_duplicate_write_count_total",
		"testns_kv_store_records_dropped_write_count_total",
		"testns_kv_store_records_removed_key_count_total",
		"testns_kv_store_records_successful_modification_count_total",
		"testns_kv_store_records_aborted_modification_count_total",
		"testns_kv_store_records_full_capacity_ejection_total",
		"testns_kv_store_records_stored_key_count",
	} {
		require.Contains(t, gathered, name)
		require.Zero(t, gatheredValue(t, registry, name))
	}
}

// TestStoreCollector_TracksStoreActivity wires a collector into a small
// capacity-bounded store, drives reads, duplicate and ejecting writes,
// successful and failing modifications and a removal through it, and checks
// that every counter and the size gauge report the exact tallies.
func TestStoreCollector_TracksStoreActivity(t *testing.T) {
	registry := prometheus.NewPedanticRegistry()
	collector := metrics.NewStoreCollector("testns", "records", registry)

	recordStore := slotmap.New[string, unittest.MockRecord](2, slotpool.LRUEjection, unittest.Logger(), collector)

	key1 := unittest.KeyFixture()
	key2 := unittest.KeyFixture()
	key3 := unittest.KeyFixture()

	// two distinct writes, then a duplicate of the first
	require.True(t, recordStore.Add(key1, unittest.RecordFixture()))
	require.True(t, recordStore.Add(key2, unittest.RecordFixture()))
	require.False(t, recordStore.Add(key1, unittest.RecordFixture()))

	// one successful and one unsuccessful read
	_, ok := recordStore.Get(key1)
	require.True(t, ok)
	_, ok = recordStore.Get(unittest.KeyFixture())
	require.False(t, ok)

	// one committed and one aborted modification
	found, err := recordStore.ModifyIfPresent(key1, func(record *unittest.MockRecord) error {
		record.Nonce++
		return nil
	})
	require.True(t, found)
	require.NoError(t, err)

	found, err = recordStore.ModifyIfPresent(key1, func(record *unittest.MockRecord) error {
		return errors.New("modification failed")
	})
	require.True(t, found)
	require.Error(t, err)

	// a write at full capacity ejects the oldest pair
	require.True(t, recordStore.Add(key3, unittest.RecordFixture()))
	require.False(t, recordStore.Has(key1))
	require.True(t, recordStore.Has(key3))

	_, removed := recordStore.Remove(key2)
	require.True(t, removed)

	expected := map[string]float64{
		"testns_kv_store_records_successful_read_count_total":         1,
		"testns_kv_store_records_unsuccessful_read_count_total":       1,
		"testns_kv_store_records_successful_write_count_total":        3,
		"testns_kv_store_records_duplicate_write_count_total":         1,
		"testns_kv_store_records_dropped_write_count_total":           0,
		"testns_kv_store_records_removed_key_count_total":             1,
		"testns_kv_store_records_successful_modification_count_total": 1,
		"testns_kv_store_records_aborted_modification_count_total":    1,
		"testns_kv_store_records_full_capacity_ejection_total":        1,
		"testns_kv_store_records_stored_key_count":                    1,
	}
	for name, value := range expected {
		require.Equalf(t, value, gatheredValue(t, registry, name), "unexpected value for %s", name)
	}
}

// gatheredValue returns the value of the single sample of the named metric
// family, failing the test when the registry does not expose it.
func gatheredValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		require.Len(t, family.GetMetric(), 1)
		metric := family.GetMetric()[0]
		if counter := metric.GetCounter(); counter != nil {
			return counter.GetValue()
		}
		return metric.GetGauge().GetValue()
	}

	t.Fatalf("metric family %s was not gathered", name)
	return 0
}
