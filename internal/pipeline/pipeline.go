package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/AnyUserName/blurhash-cli/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/preview"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	Workers   int
	Verbose   bool
	Previews  bool // render placeholder images next to the manifest

	// Previous, when set, is the manifest of an earlier build.  Assets whose
	// source bytes and settings are unchanged are carried over.
	Previous *manifest.Manifest
}

// Pipeline orchestrates placeholder generation.
type Pipeline struct {
	cfg      Config
	codec    *blurhash.Codec
	registry *preview.Registry
}

// New creates a configured pipeline.  Images are spread across cfg.Workers
// goroutines, so each transform runs on a single row worker.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	codec, err := blurhash.New(blurhash.WithWorkers(max(runtime.GOMAXPROCS(0)/cfg.Workers, 1)))
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:      cfg,
		codec:    codec,
		registry: preview.NewRegistry(),
	}, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[blurhash] "+format+"\n", args...)
	}
}

// Run executes the full build pipeline and returns the manifest.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	if p.cfg.Previews {
		p.logf("%s", p.registry.String())
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.logf("found %d images", len(sources))

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		var prev *manifest.Asset
		if p.cfg.Previous != nil {
			if a, ok := p.cfg.Previous.Assets[src.Key]; ok {
				prev = &a
			}
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i] = processResult{key: src.Key, err: fmt.Errorf("%s: %w", src.RelPath, err)}
				return
			}
			select {
			case sem <- struct{}{}: // acquire
			case <-ctx.Done():
				results[i] = processResult{key: src.Key, err: fmt.Errorf("%s: %w", src.RelPath, ctx.Err())}
				return
			}
			defer func() { <-sem }() // release

			p.logf("processing: %s", src.Key)
			results[i] = processImage(src, prev, p.cfg, p.codec, p.registry)

			if r := results[i]; r.err == nil {
				if r.reused {
					p.logf("reused: %s", src.Key)
				} else {
					p.logf("done: %s (%s)", src.Key, r.asset.BlurHash)
				}
			}
		}()
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)

	var errs []error
	reused := 0
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Assets[r.key] = r.asset
		if r.reused {
			reused++
		}
	}

	// Report errors but don't fail the entire build for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[blurhash] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[blurhash] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers:      p.cfg.Workers,
		CodecWorkers: p.codec.Workers(),
		WorkSize:     p.cfg.Profile.WorkSize,
	}
	m.Stats.Reused = reused
	m.ComputeStats()
	return m, nil
}
