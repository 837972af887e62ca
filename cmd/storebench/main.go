// Command storebench drives a randomized workload against a concurrency-safe
// key-value store and dumps the metrics collected while it ran.
//
// The workload mixes counter bumps, reads and removals over a bounded key
// space, fanned out over a worker pool. With --store slot the inner store is
// the capacity-bounded slot arena with the configured ejection mode, with
// --store map it is the builtin-map store.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/atomic"

	"github.com/regexident/inplace/metrics"
	"github.com/regexident/inplace/store"
	"github.com/regexident/inplace/store/slotmap"
	"github.com/regexident/inplace/store/slotmap/slotpool"
)

var (
	flagStore      string
	flagLimit      uint32
	flagEjection   string
	flagWorkers    int
	flagOperations int
	flagKeySpace   int
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "storebench",
	Short: "drive a randomized workload against a concurrency-safe key-value store",
	Run:   run,
}

func init() {
	bindWorkloadFlags(rootCmd.Flags())
}

func bindWorkloadFlags(flags *pflag.FlagSet) {
	flags.StringVar(&flagStore, "store", "slot", "inner store to drive: slot or map")
	flags.Uint32Var(&flagLimit, "limit", 10_000, "size limit of the slot store")
	flags.StringVar(&flagEjection, "ejection", "lru", "ejection mode of the slot store: lru, random or none")
	flags.IntVar(&flagWorkers, "workers", 8, "number of workload workers")
	flags.IntVar(&flagOperations, "operations", 1_000_000, "total number of operations to run")
	flags.IntVar(&flagKeySpace, "key-space", 50_000, "number of distinct keys in the workload")
	flags.BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("cannot run storebench")
	}
}

func run(*cobra.Command, []string) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if flagVerbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	registry := prometheus.NewRegistry()

	backend, err := buildBackend(logger, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build workload backend")
	}

	runWorkload(backend, logger)
	dumpMetrics(registry, logger)
}

// buildBackend assembles the overlay around the configured inner store. Only
// the slot store carries a collector; the builtin-map store is unbounded and
// reports nothing.
func buildBackend(logger zerolog.Logger, registry *prometheus.Registry) (*store.Backend[string, uint64], error) {
	switch flagStore {
	case "map":
		return store.NewBackend[string, uint64](
			store.WithLogger[string, uint64](logger),
		), nil

	case "slot":
		mode, err := parseEjectionMode(flagEjection)
		if err != nil {
			return nil, err
		}

		collector := metrics.NewStoreCollector("storebench", "workload", registry)
		inner := slotmap.New[string, uint64](flagLimit, mode, logger, collector)

		return store.NewBackend[string, uint64](
			store.WithStore[string, uint64](inner),
			store.WithLogger[string, uint64](logger),
		), nil

	default:
		return nil, fmt.Errorf("unknown store kind: %s", flagStore)
	}
}

func parseEjectionMode(name string) (slotpool.EjectionMode, error) {
	switch strings.ToLower(name) {
	case "lru":
		return slotpool.LRUEjection, nil
	case "random":
		return slotpool.RandomEjection, nil
	case "none":
		return slotpool.NoEjection, nil
	default:
		return slotpool.NoEjection, fmt.Errorf("unknown ejection mode: %s", name)
	}
}

// runWorkload fans the configured number of operations out over the worker
// pool: 60% counter bumps, 30% reads, 10% removals, keys drawn uniformly from
// the key space.
func runWorkload(backend *store.Backend[string, uint64], logger zerolog.Logger) {
	keys := make([]string, flagKeySpace)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%08x", i)
	}

	bumps := atomic.NewUint64(0)
	reads := atomic.NewUint64(0)
	removals := atomic.NewUint64(0)
	failures := atomic.NewUint64(0)

	logger.Info().
		Str("store", flagStore).
		Int("workers", flagWorkers).
		Int("operations", flagOperations).
		Int("key_space", flagKeySpace).
		Msg("starting workload")

	pool := workerpool.New(flagWorkers)
	started := time.Now()

	for i := 0; i < flagOperations; i++ {
		pool.Submit(func() {
			key := keys[rand.Intn(len(keys))]
			switch draw := rand.Intn(100); {
			case draw < 60:
				err := backend.ModifyOrInsert(key,
					func() (uint64, error) { return 0, nil },
					func(count *uint64) error {
						*count++
						return nil
					})
				if err != nil {
					failures.Inc()
					return
				}
				bumps.Inc()
			case draw < 90:
				_, _ = backend.Get(key)
				reads.Inc()
			default:
				_, _ = backend.Remove(key)
				removals.Inc()
			}
		})
	}
	pool.StopWait()

	elapsed := time.Since(started)
	logger.Info().
		Uint64("bumps", bumps.Load()).
		Uint64("reads", reads.Load()).
		Uint64("removals", removals.Load()).
		Uint64("failures", failures.Load()).
		Uint("final_size", backend.Size()).
		Dur("elapsed", elapsed).
		Float64("ops_per_second", float64(flagOperations)/elapsed.Seconds()).
		Msg("workload finished")
}

// dumpMetrics logs one line per collected sample.
func dumpMetrics(registry *prometheus.Registry, logger zerolog.Logger) {
	families, err := registry.Gather()
	if err != nil {
		logger.Error().Err(err).Msg("cannot gather metrics")
		return
	}
	if len(families) == 0 {
		logger.Info().Msg("no metrics collected, the builtin-map store carries no collector")
		return
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			event := logger.Info().Str("metric", family.GetName())
			if counter := metric.GetCounter(); counter != nil {
				event = event.Float64("value", counter.GetValue())
			} else if gauge := metric.GetGauge(); gauge != nil {
				event = event.Float64("value", gauge.GetValue())
			}
			event.Msg("collected metric")
		}
	}
}
