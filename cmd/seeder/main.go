package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/iulianpascalau/hydra-monitoring/common"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	healthPollInterval = time.Second
	requestTimeout     = 10 * time.Second
)

var (
	log = logger.GetOrCreate("seeder")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name:  "log-level",
		Usage: "This flag specifies the logger `level(s)`.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// serviceURL points at the running monitoring service
	serviceURL = cli.StringFlag{
		Name:  "url",
		Usage: "Base `URL` of the monitoring service.",
		Value: "http://127.0.0.1:8080",
	}
	// samplesFile optionally provides a JSON document with samples to push
	samplesFile = cli.StringFlag{
		Name:  "samples-file",
		Usage: "Optional `path` to a JSON file with samples. When absent, samples are synthesized for the --hosts list.",
		Value: "",
	}
	// hostsList drives the synthetic history when no samples file is given
	hostsList = cli.StringFlag{
		Name:  "hosts",
		Usage: "Comma-separated host `names` used when synthesizing samples.",
		Value: "dev-host-1,dev-host-2,dev-host-3",
	}
	// numSamples is the per-host history length when synthesizing
	numSamples = cli.IntFlag{
		Name:  "num-samples",
		Usage: "Number of synthesized samples `per host`.",
		Value: 50,
	}
	// waitTimeout bounds the initial health wait
	waitTimeout = cli.IntFlag{
		Name:  "wait-timeout",
		Usage: "Maximum `seconds` to wait for the service to report healthy.",
		Value: 30,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "Telemetry seeder"
	app.Usage = "Waits for the monitoring service to become healthy and pushes telemetry samples into it"
	app.Flags = []cli.Flag{
		logLevel,
		serviceURL,
		samplesFile,
		hostsList,
		numSamples,
		waitTimeout,
	}
	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	baseURL := strings.TrimRight(ctx.GlobalString(serviceURL.Name), "/")
	client := &http.Client{Timeout: requestTimeout}

	timeout := time.Duration(ctx.GlobalInt(waitTimeout.Name)) * time.Second
	err = waitForHealthy(context.Background(), client, baseURL, timeout)
	if err != nil {
		return err
	}

	samples, err := gatherSamples(ctx)
	if err != nil {
		return err
	}

	log.Info("Pushing samples", "count", len(samples), "url", baseURL)

	numFailed := 0
	for _, sample := range samples {
		errPush := pushSample(context.Background(), client, baseURL, sample)
		if errPush != nil {
			numFailed++
			log.Warn("failed to push sample", "host", sample.Host, "error", errPush)
		}
	}

	log.Info("Seeding done", "pushed", len(samples)-numFailed, "failed", numFailed)

	return nil
}

func gatherSamples(ctx *cli.Context) ([]common.Metric, error) {
	filePath := ctx.GlobalString(samplesFile.Name)
	if len(filePath) > 0 {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read samples file '%s': %w", filePath, err)
		}

		return parseSamples(data)
	}

	hosts := splitHosts(ctx.GlobalString(hostsList.Name))
	if len(hosts) == 0 {
		return nil, errNoHostsAndFile
	}

	return synthesizeSamples(hosts, ctx.GlobalInt(numSamples.Name), time.Now().UTC()), nil
}

func splitHosts(raw string) []string {
	hosts := make([]string, 0)
	for _, host := range strings.Split(raw, ",") {
		host = strings.TrimSpace(host)
		if len(host) > 0 {
			hosts = append(hosts, host)
		}
	}

	return hosts
}

func waitForHealthy(ctx context.Context, client *http.Client, baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			return err
		}

		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				log.Info("service is healthy", "url", baseURL)
				return nil
			}
			log.Debug("service not healthy yet", "status", resp.StatusCode)
		} else {
			log.Debug("service not reachable yet", "error", err)
		}

		time.Sleep(healthPollInterval)
	}

	return fmt.Errorf("%w after %v", errServiceNotUp, timeout)
}

func pushSample(ctx context.Context, client *http.Client, baseURL string, sample common.Metric) error {
	body, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/metrics", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w, status code: %d", errStatusNotOK, resp.StatusCode)
	}

	return nil
}
