package repository

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// StressConfig holds configuration for registry stress benchmarks.
type StressConfig struct {
	Students          int
	ConcurrentWorkers int
	OpsPerWorker      int

	// Traffic mix (percentages, should sum to 1.0)
	SignUpRatio     float64
	UnregisterRatio float64
	ListRatio       float64
	GetRatio        float64
}

// DefaultStressConfig returns a traffic mix resembling the signup page:
// mostly listing, occasional mutations.
func DefaultStressConfig() *StressConfig {
	return &StressConfig{
		Students:          5000,
		ConcurrentWorkers: 64,
		OpsPerWorker:      500,

		SignUpRatio:     0.15,
		UnregisterRatio: 0.10,
		ListRatio:       0.60,
		GetRatio:        0.15,
	}
}

// opRecorder collects latencies for one operation kind.
type opRecorder struct {
	mu        sync.Mutex
	latencies []time.Duration
	errors    int64
}

func (r *opRecorder) record(latency time.Duration, err error) {
	if err != nil {
		atomic.AddInt64(&r.errors, 1)
	}
	r.mu.Lock()
	r.latencies = append(r.latencies, latency)
	r.mu.Unlock()
}

func (r *opRecorder) percentile(p float64) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(r.latencies))
	copy(sorted, r.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

func (r *opRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.latencies)
}

// runMixedTraffic drives the configured traffic mix against the store and
// reports per-operation latency percentiles.
func runMixedTraffic(b *testing.B, config *StressConfig) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))
	names := make([]string, 0, 9)
	for name := range DefaultCatalog() {
		names = append(names, name)
	}
	sort.Strings(names)

	emails := make([]string, config.Students)
	for i := range emails {
		emails[i] = fmt.Sprintf("stress%d@mergington.edu", i)
	}

	recorders := map[string]*opRecorder{
		"signup":     {},
		"unregister": {},
		"list":       {},
		"get":        {},
	}

	b.ResetTimer()
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < config.ConcurrentWorkers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < config.OpsPerWorker; i++ {
				name := names[rng.Intn(len(names))]
				email := emails[rng.Intn(len(emails))]
				roll := rng.Float64()

				opStart := time.Now()
				switch {
				case roll < config.SignUpRatio:
					err := store.SignUp(ctx, name, email)
					recorders["signup"].record(time.Since(opStart), err)
				case roll < config.SignUpRatio+config.UnregisterRatio:
					err := store.Unregister(ctx, name, email)
					recorders["unregister"].record(time.Since(opStart), err)
				case roll < config.SignUpRatio+config.UnregisterRatio+config.ListRatio:
					_ = store.List(ctx)
					recorders["list"].record(time.Since(opStart), nil)
				default:
					_, err := store.Get(ctx, name)
					recorders["get"].record(time.Since(opStart), err)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	elapsed := time.Since(start)
	totalOps := config.ConcurrentWorkers * config.OpsPerWorker
	b.Logf("mixed traffic: %d ops in %v (%.0f ops/sec), %d activities, %d participants",
		totalOps, elapsed, float64(totalOps)/elapsed.Seconds(),
		store.Count(ctx), store.ParticipantCount(ctx))
	for _, op := range []string{"signup", "unregister", "list", "get"} {
		rec := recorders[op]
		b.Logf("  %-10s n=%-8d p50=%-10v p99=%-10v conflicts/misses=%d",
			op, rec.count(), rec.percentile(0.50), rec.percentile(0.99),
			atomic.LoadInt64(&rec.errors))
	}
}

// BenchmarkMemStore_MixedTraffic exercises the default signup-page traffic mix.
func BenchmarkMemStore_MixedTraffic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		runMixedTraffic(b, DefaultStressConfig())
	}
}

// BenchmarkMemStore_WriteHeavy skews the mix towards roster mutations.
func BenchmarkMemStore_WriteHeavy(b *testing.B) {
	config := DefaultStressConfig()
	config.SignUpRatio = 0.40
	config.UnregisterRatio = 0.35
	config.ListRatio = 0.15
	config.GetRatio = 0.10
	for i := 0; i < b.N; i++ {
		runMixedTraffic(b, config)
	}
}

// BenchmarkMemStore_List measures snapshot cost on a full registry.
func BenchmarkMemStore_List(b *testing.B) {
	ctx := context.Background()
	store := NewMemStore(WithSeed(DefaultCatalog()))
	for i := 0; i < 200; i++ {
		_ = store.SignUp(ctx, "Gym Class", fmt.Sprintf("filler%d@mergington.edu", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.List(ctx)
	}
}
