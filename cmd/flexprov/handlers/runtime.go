// Package handlers implements the CLI commands.
//
// Handlers load the configuration, build the runtime with its backends and
// run the orchestration command. Backend constructors are package variables
// so that tests can replace them.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imamik/flexprov/internal/config"
	"github.com/imamik/flexprov/internal/events"
	"github.com/imamik/flexprov/internal/log"
	"github.com/imamik/flexprov/internal/orchestration"
	"github.com/imamik/flexprov/internal/platform/azure"
	"github.com/imamik/flexprov/internal/platform/hcloud"
	"github.com/imamik/flexprov/internal/platform/s3"
	"github.com/imamik/flexprov/internal/provider"
)

// Options holds the flags shared by every command.
type Options struct {
	ConfigPath     string
	SubscriptionID string
	SettingsPath   string
	LogLevel       string
	MetricsFile    string
	ArchiveBucket  string
	Yes            bool
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig  = config.LoadFile
	loadSecrets = config.LoadSecrets

	// newAzureClient creates the Azure backend.
	newAzureClient = func(cfg *config.Config, opts Options, t *config.Timeouts) (provider.Cloud, error) {
		var sub *config.Subscription
		subscriptionID := opts.SubscriptionID
		if subscriptionID == "" {
			subscriptionID = cfg.Provider.Azure.SubscriptionID
		}
		if opts.SettingsPath != "" {
			settings, err := config.LoadPublishSettings(opts.SettingsPath)
			if err != nil {
				return nil, err
			}
			if sub, err = settings.Subscription(subscriptionID); err != nil {
				return nil, err
			}
			subscriptionID = sub.ID
		}

		cred, err := azure.NewCredential(sub, cfg.Provider.Azure.TenantID, cfg.Provider.Azure.ClientID)
		if err != nil {
			return nil, err
		}
		return azure.NewClient(azure.Options{
			SubscriptionID: subscriptionID,
			ResourceGroup:  cfg.Provider.Azure.ResourceGroup,
			Location:       cfg.Provider.Azure.Location,
			Credential:     cred,
			Timeouts:       t,
		})
	}

	// newHCloudClient creates the Hetzner compute backend.
	newHCloudClient = func(token, location string, t *config.Timeouts) provider.Compute {
		return hcloud.NewClient(token, hcloud.WithLocation(location), hcloud.WithTimeouts(t))
	}

	// newArchiveStore creates the object store of the run archive.
	newArchiveStore = func(ctx context.Context, cfg config.ArchiveConfig) (s3.ObjectStore, error) {
		return s3.NewClient(ctx, s3.Options{Endpoint: cfg.Endpoint, Region: cfg.Region})
	}

	stdout io.Writer = os.Stdout
)

// backends selects what a command needs.
type backends int

const (
	// needCloud builds the full resource backend.
	needCloud backends = iota
	// needCompute builds only the VM backend.
	needCompute
)

// session is everything a handler needs to run one command.
type session struct {
	rt     *config.Runtime
	opts   Options
	runner *orchestration.Runner
}

// setup initializes logging, loads the configuration and builds the
// runtime with the backends the command needs.
func setup(ctx context.Context, opts Options, need backends) (*session, error) {
	log.Init(log.Config{Level: opts.LogLevel, Format: log.FormatAuto})

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	secrets, err := loadSecrets()
	if err != nil {
		return nil, err
	}
	timeouts, err := config.LoadTimeouts()
	if err != nil {
		return nil, err
	}

	rtOpts := []config.RuntimeOption{config.WithSecrets(secrets), config.WithTimeouts(timeouts)}

	var azureClient provider.Cloud
	if need == needCloud || cfg.Provider.Compute == config.ComputeAzure {
		if azureClient, err = newAzureClient(cfg, opts, timeouts); err != nil {
			return nil, err
		}
	}
	if need == needCloud {
		rtOpts = append(rtOpts, config.WithCloud(azureClient))
	}

	switch cfg.Provider.Compute {
	case config.ComputeHCloud:
		token := os.Getenv(cfg.Provider.HCloud.TokenEnv)
		if token == "" {
			return nil, config.Invalid(cfg.Provider.HCloud.TokenEnv, "environment variable is not set")
		}
		rtOpts = append(rtOpts, config.WithCompute(newHCloudClient(token, cfg.Provider.HCloud.Location, timeouts)))
	default:
		rtOpts = append(rtOpts, config.WithCompute(azureClient))
	}

	rt, err := config.NewRuntime(cfg, rtOpts...)
	if err != nil {
		return nil, err
	}

	runOpts := []orchestration.Option{orchestration.WithConsole(events.NewConsole(stdout))}
	archiveCfg := cfg.Archive
	if opts.ArchiveBucket != "" {
		archiveCfg.Bucket = opts.ArchiveBucket
	}
	if archiveCfg.Bucket != "" {
		store, err := newArchiveStore(ctx, archiveCfg)
		if err != nil {
			return nil, err
		}
		runOpts = append(runOpts, orchestration.WithArchive(s3.NewArchive(store, archiveCfg.Bucket, archiveCfg.Prefix, rt.Metrics)))
	}

	return &session{rt: rt, opts: opts, runner: orchestration.NewRunner(rt, runOpts...)}, nil
}

// finish writes the metrics file and turns the report into the command
// result.
func (s *session) finish(report orchestration.Report, success string) error {
	if err := s.rt.Metrics.WriteFile(s.opts.MetricsFile); err != nil {
		log.Logger.Warn().Err(err).Msg("failed to write metrics")
	}
	if report.Err != nil {
		return report.Err
	}
	_, _ = fmt.Fprintf(stdout, "%s (run %s)\n", success, report.RunID)
	return nil
}
