package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	contentcache "github.com/oryosef1/contentcache"
	"github.com/oryosef1/contentcache/cache"
	"github.com/oryosef1/contentcache/config"
	"github.com/oryosef1/contentcache/metrics/prom"
	"github.com/oryosef1/contentcache/monitor"
)

// syntheticContent stands in for the external generator's output.
type syntheticContent struct {
	Kind  string         `json:"kind"`
	Level int            `json:"level"`
	Body  map[string]any `json:"body"`
}

func benchCmd() *cobra.Command {
	var (
		cfgPath     string
		workers     int
		duration    time.Duration
		keys        int
		zipfS       float64
		seed        int64
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a synthetic generation workload against the cache",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := config.Default()
			if cfgPath != "" {
				var err error
				if cfg, err = config.Load(cfgPath); err != nil {
					return err
				}
			}

			copt, err := cfg.CacheOptions()
			if err != nil {
				return err
			}
			copt.Metrics = prom.NewCache(nil, "contentcache", "bench", nil)
			mopt := cfg.MonitorOptions()
			mopt.Sink = prom.NewMonitor(nil, "contentcache", "bench", nil)

			sys := contentcache.New(copt, mopt)
			defer func() { _ = sys.Close() }()

			if metricsAddr != "" {
				http.Handle("/metrics", promhttp.Handler())
				go func() {
					log.Printf("metrics: serving at %s", metricsAddr)
					log.Println(http.ListenAndServe(metricsAddr, nil))
				}()
			}

			ctx, cancel := context.WithTimeout(context.Background(), duration)
			defer cancel()
			sys.Start(ctx)

			contentTypes := []string{"quest", "item", "dialogue", "encounter"}
			var ops, regenerated uint64

			start := time.Now()
			g, gctx := errgroup.WithContext(ctx)
			for w := 0; w < workers; w++ {
				id := w
				g.Go(func() error {
					// Each worker gets its own RNG + Zipf (rand.Rand is
					// not goroutine-safe).
					r := rand.New(rand.NewSource(seed + int64(id)*9973))
					zipf := rand.NewZipf(r, zipfS, 1.0, uint64(keys-1))

					for gctx.Err() == nil {
						atomic.AddUint64(&ops, 1)
						ct := contentTypes[r.Intn(len(contentTypes))]
						params := map[string]any{"slot": zipf.Uint64()}
						key := cache.Fingerprint(ct, params)

						if _, ok := sys.Cache.Get(key); ok {
							continue
						}

						// Miss: "generate" and store.
						atomic.AddUint64(&regenerated, 1)
						op := sys.Monitor.RecordGenerationStart(ct, params)
						content := syntheticContent{
							Kind:  ct,
							Level: r.Intn(60),
							Body:  map[string]any{"seed": r.Int63()},
						}
						genTime := time.Duration(1+r.Intn(40)) * time.Millisecond
						sys.Monitor.RecordGenerationEnd(op, true, &monitor.Content{
							Type:           ct,
							Quality:        r.Float64(),
							GenerationTime: genTime,
						}, nil)
						sys.Cache.Set(key, content, cache.SetOptions{
							Tags: []string{"bench"},
							Metadata: cache.Metadata{
								ContentType:     ct,
								Parameters:      params,
								Quality:         r.Float64(),
								GenerationCost:  genTime,
								PlayerRelevance: r.Float64(),
							},
						})
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			elapsed := time.Since(start)

			st := sys.Cache.Stats()
			fmt.Printf("strategy=%s workers=%d keys=%d dur=%v seed=%d\n",
				cfg.Cache.EvictionStrategy, workers, keys, elapsed, seed)
			fmt.Printf("ops=%d (%.0f ops/s)  regenerated=%d\n",
				ops, float64(ops)/elapsed.Seconds(), regenerated)
			fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%  evictions=%d\n",
				st.Hits, st.Misses, st.HitRate*100, st.Evictions)
			fmt.Printf("entries=%d  memory=%d bytes\n", st.Entries, st.Memory)

			report, err := sys.Monitor.GenerateReport("5m")
			if err != nil {
				return err
			}
			printReport(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "YAML config file (optional)")
	cmd.Flags().IntVar(&workers, "workers", 2*runtime.GOMAXPROCS(0), "worker goroutines")
	cmd.Flags().DurationVar(&duration, "duration", 10*time.Second, "benchmark duration")
	cmd.Flags().IntVar(&keys, "keys", 100_000, "keyspace size")
	cmd.Flags().Float64Var(&zipfS, "zipf-s", 1.1, "Zipf s > 1 (skew)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&metricsAddr, "http", "", "serve Prometheus metrics at addr (e.g. :8080)")
	return cmd
}

func printReport(r *monitor.Report) {
	fmt.Printf("report %s period=%v samples=%d\n", r.ID, r.Period, r.Metrics.SampleCount)
	fmt.Printf("  avg-response=%v success=%.2f error=%.2f throughput=%.1f/s hit-rate=%.2f\n",
		r.Metrics.AverageResponseTime, r.Metrics.SuccessRate, r.Metrics.ErrorRate,
		r.Metrics.Throughput, r.Metrics.CacheHitRate)
	fmt.Printf("  trends: response=%s success=%s throughput=%s\n",
		r.Trends.ResponseTime.Direction, r.Trends.SuccessRate.Direction,
		r.Trends.Throughput.Direction)
	for ct, b := range r.ContentTypes {
		fmt.Printf("  %s: requests=%d avg=%v\n", ct, b.Requests, b.AverageGenerationTime)
	}
	for _, rec := range r.Recommendations {
		fmt.Printf("  recommendation: %s\n", rec)
	}
	fmt.Printf("  alerts in period: %d\n", len(r.Alerts))
}
