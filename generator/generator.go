package generator

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/iulianpascalau/hydra-monitoring/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("generator")

// ErrNilPipeline signals that a nil pipeline implementation was provided
var ErrNilPipeline = errors.New("nil pipeline")

// ErrInvalidGeneratorArgs signals a misconfigured generator
var ErrInvalidGeneratorArgs = errors.New("invalid generator arguments")

// ArgsGenerator defines the synthetic sample generator arguments
type ArgsGenerator struct {
	Pipeline   Pipeline
	Hosts      []string
	Interval   time.Duration
	MaxBackoff time.Duration
}

// generator fabricates plausible telemetry samples for a fixed set of hosts on a
// periodic schedule and feeds them through the ingestion pipeline. Persistence
// failures are logged and retried on the next tick with exponential backoff, the
// loop never crashes on transient store outages.
type generator struct {
	pipeline   Pipeline
	hosts      []string
	interval   time.Duration
	maxBackoff time.Duration
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	rnd        *rand.Rand
}

// NewGenerator creates a new synthetic sample generator
func NewGenerator(args ArgsGenerator) (*generator, error) {
	if check.IfNil(args.Pipeline) {
		return nil, ErrNilPipeline
	}
	if len(args.Hosts) == 0 {
		return nil, errors.Join(ErrInvalidGeneratorArgs, errors.New("no hosts configured"))
	}
	if args.Interval <= 0 {
		return nil, errors.Join(ErrInvalidGeneratorArgs, errors.New("interval must be positive"))
	}
	if args.MaxBackoff < args.Interval {
		args.MaxBackoff = args.Interval
	}

	return &generator{
		pipeline:   args.Pipeline,
		hosts:      args.Hosts,
		interval:   args.Interval,
		maxBackoff: args.MaxBackoff,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Start launches the periodic loop
func (g *generator) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	g.cancelFunc = cancel

	g.wg.Add(1)
	go g.run(ctx)

	log.Info("synthetic sample generator started", "hosts", len(g.hosts), "interval", g.interval)
}

func (g *generator) run(ctx context.Context) {
	defer g.wg.Done()

	delay := g.interval
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		err := g.emitSamples(ctx)
		if err != nil && ctx.Err() == nil {
			delay = delay * 2
			if delay > g.maxBackoff {
				delay = g.maxBackoff
			}
			log.Warn("failed to ingest synthetic samples, backing off", "error", err, "next attempt in", delay)
		} else {
			delay = g.interval
		}

		timer.Reset(delay)
	}
}

// emitSamples fabricates one sample per configured host. A failing host does not
// prevent the remaining hosts from being sampled.
func (g *generator) emitSamples(ctx context.Context) error {
	now := time.Now().UTC()

	var lastErr error
	for _, host := range g.hosts {
		metric := common.Metric{
			Host:        host,
			CPUUsage:    round2(5 + g.rnd.Float64()*90),
			MemoryUsage: round2(10 + g.rnd.Float64()*85),
			Latency:     round2(10 + g.rnd.Float64()*290),
			Timestamp:   now,
		}

		_, err := g.pipeline.Ingest(ctx, metric)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Close stops the periodic loop and waits for it to finish
func (g *generator) Close() error {
	if g.cancelFunc != nil {
		g.cancelFunc()
	}
	g.wg.Wait()
	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (g *generator) IsInterfaceNil() bool {
	return g == nil
}
