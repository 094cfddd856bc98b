package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	contentcache "github.com/oryosef1/contentcache"
	"github.com/oryosef1/contentcache/cache"
	"github.com/oryosef1/contentcache/config"
	"github.com/oryosef1/contentcache/event"
	"github.com/oryosef1/contentcache/monitor"
)

func demoCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a short scripted workload and print the resulting report",
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
			sys := contentcache.New(copt, cfg.MonitorOptions())
			defer func() { _ = sys.Close() }()
			sys.Start(context.Background())

			sys.Bus.Subscribe(event.AlertRaised, func(e event.Event) {
				a := e.Payload.(monitor.Alert)
				fmt.Printf("alert [%s] %s\n", a.Severity, a.Message)
			})

			for i := 0; i < 50; i++ {
				params := map[string]any{"slot": i % 10}
				key := cache.Fingerprint("quest", params)
				if _, ok := sys.Cache.Get(key); ok {
					continue
				}
				op := sys.Monitor.RecordGenerationStart("quest", params)
				time.Sleep(2 * time.Millisecond) // stand-in for generation work
				sys.Monitor.RecordGenerationEnd(op, true, nil, nil)
				sys.Cache.Set(key, map[string]any{"quest": i}, cache.SetOptions{
					Metadata: cache.Metadata{
						ContentType:    "quest",
						Parameters:     params,
						Quality:        0.8,
						GenerationCost: 2 * time.Millisecond,
					},
				})
			}

			report, err := sys.Monitor.GenerateReport("1m")
			if err != nil {
				return err
			}
			printReport(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "YAML config file (optional)")
	return cmd
}
