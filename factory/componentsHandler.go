package factory

import (
	"time"

	"github.com/iulianpascalau/hydra-monitoring/alerter"
	"github.com/iulianpascalau/hydra-monitoring/api"
	"github.com/iulianpascalau/hydra-monitoring/config"
	"github.com/iulianpascalau/hydra-monitoring/generator"
	"github.com/iulianpascalau/hydra-monitoring/process"
	"github.com/iulianpascalau/hydra-monitoring/storage"
	"github.com/multiversx/mx-chain-core-go/core/check"
)

type componentsHandler struct {
	store     api.Storage
	evaluator ThresholdsHandler
	pipeline  api.Pipeline
	server    Server
	generator Generator
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(dbPath string, cfg config.Config) (*componentsHandler, error) {
	store, err := storage.NewSQLiteStorage(dbPath, cfg.RetentionSeconds)
	if err != nil {
		return nil, err
	}

	evaluator, err := alerter.NewEvaluator(alerter.Thresholds{
		CPUUsage:    cfg.Thresholds.CPUUsage,
		MemoryUsage: cfg.Thresholds.MemoryUsage,
		Latency:     cfg.Thresholds.Latency,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	pipeline, err := process.NewPipeline(store, evaluator)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	serverArgs := api.ArgsWebServer{
		ListenAddress:     cfg.ListenAddress,
		Storage:           store,
		Pipeline:          pipeline,
		DefaultQueryLimit: cfg.Query.DefaultLimit,
		MaxQueryLimit:     cfg.Query.MaxLimit,
		GeneralHandler:    api.CORSMiddleware,
	}

	server, err := api.NewServer(serverArgs)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	handler := &componentsHandler{
		store:     store,
		evaluator: evaluator,
		pipeline:  pipeline,
		server:    server,
	}

	if cfg.Generator.Enabled {
		gen, errGen := generator.NewGenerator(generator.ArgsGenerator{
			Pipeline:   pipeline,
			Hosts:      cfg.Generator.Hosts,
			Interval:   time.Duration(cfg.Generator.IntervalSeconds) * time.Second,
			MaxBackoff: time.Duration(cfg.Generator.MaxBackoffSeconds) * time.Second,
		})
		if errGen != nil {
			_ = store.Close()
			return nil, errGen
		}
		handler.generator = gen
	}

	return handler, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() api.Storage {
	return ch.store
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// GetPipeline returns the ingestion pipeline component
func (ch *componentsHandler) GetPipeline() api.Pipeline {
	return ch.pipeline
}

// UpdateThresholds forwards new cutoffs to the evaluator, used on config reloads
func (ch *componentsHandler) UpdateThresholds(thresholds config.ThresholdsConfig) {
	ch.evaluator.UpdateThresholds(alerter.Thresholds{
		CPUUsage:    thresholds.CPUUsage,
		MemoryUsage: thresholds.MemoryUsage,
		Latency:     thresholds.Latency,
	})
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.server.Start()
	if !check.IfNil(ch.generator) {
		ch.generator.Start()
	}
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	if !check.IfNil(ch.generator) {
		_ = ch.generator.Close()
	}
	_ = ch.server.Close()
	_ = ch.store.Close()
}
