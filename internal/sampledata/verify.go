package sampledata

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/concal/pkg/logger"
)

// Verify checks a running service for internal consistency: every facet
// label count matches the filtered event total, and conflicts reported
// over a sample are symmetric.
func Verify(ctx context.Context, cfg VerifyConfig) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("verify")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "checking service health", logger.String("baseURL", cfg.BaseURL))
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	events, err := client.AllEvents(ctx)
	if err != nil {
		return stats, fmt.Errorf("event retrieval failed: %w", err)
	}
	stats.Events = len(events)

	if err := verifyFacets(ctx, client, cfg, stats); err != nil {
		return stats, err
	}
	if err := verifySymmetry(ctx, client, len(events), stats); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "verification completed",
		logger.Int("events", stats.Events),
		logger.Int("facetsChecked", stats.FacetsChecked),
		logger.Int("conflictsProbed", stats.ConflictsProbed),
		logger.String("duration", stats.Duration.String()))
	return stats, nil
}

func verifyFacets(ctx context.Context, client *Client, cfg VerifyConfig, stats *Stats) error {
	facets, err := client.Facets(ctx)
	if err != nil {
		return fmt.Errorf("facet retrieval failed: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, f := range facets {
		for _, lc := range f.Labels {
			stats.FacetsChecked++
			g.Go(func() error {
				q := url.Values{}
				q.Set(f.Name, lc.Label)
				q.Set("limit", "1")
				page, err := client.Events(gctx, q)
				if err != nil {
					return err
				}
				if page.Total != lc.Count {
					return fmt.Errorf("facet %s=%q: /facets says %d events, /events returned %d",
						f.Name, lc.Label, lc.Count, page.Total)
				}
				if cfg.Verbose {
					logger.Get().Debug(gctx, "facet label verified",
						logger.String("facet", f.Name),
						logger.String("label", lc.Label),
						logger.Int("count", lc.Count))
				}
				return nil
			})
		}
	}
	return g.Wait()
}

func verifySymmetry(ctx context.Context, client *Client, n int, stats *Stats) error {
	sample := make([]int, 0, conflictSample)
	for id := 0; id < n && len(sample) < conflictSample; id++ {
		sample = append(sample, id)
	}
	if len(sample) == 0 {
		return nil
	}
	stats.ConflictsProbed = len(sample)

	resp, err := client.Conflicts(ctx, ConflictsRequest{Candidates: sample, References: sample})
	if err != nil {
		return fmt.Errorf("conflict query failed: %w", err)
	}
	for a, others := range resp.Conflicts {
		for _, b := range others {
			if !slices.Contains(resp.Conflicts[b], a) {
				return fmt.Errorf("conflict between %d and %d is not symmetric", a, b)
			}
		}
	}
	return nil
}
