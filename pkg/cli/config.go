package cli

import (
	"context"
	"crypto/tls"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"go.temporal.io/sdk/client"

	"github.com/k-shimizu/callbrief/pkg/adapter"
	"github.com/k-shimizu/callbrief/pkg/usecase/discovery"
	"github.com/k-shimizu/callbrief/pkg/usecase/docsync"
	"github.com/k-shimizu/callbrief/pkg/usecase/intel"
	"github.com/k-shimizu/callbrief/pkg/usecase/locate"
	"github.com/k-shimizu/callbrief/pkg/usecase/summary"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
	"github.com/k-shimizu/callbrief/pkg/workflow"
)

// config holds configuration values
type config struct {
	logLevel   string
	tuningPath string

	vendorName   string
	vendorDomain string

	// Recording platform
	gongAccessKey    string
	gongSecretKey    string
	gongPrimaryUsers string

	// LLM
	llmProvider     string
	anthropicAPIKey string
	anthropicModel  string
	geminiProject   string
	geminiLocation  string

	// Document store
	googleCredentials  string
	accountsRootFolder string

	// Workflow engine
	temporalAddress   string
	temporalNamespace string
	temporalAPIKey    string
	taskQueue         string
}

// globalFlags returns flags shared across all commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("CALLBRIEF_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "tuning",
			Usage:       "Path to discovery/summary tuning YAML file",
			Sources:     cli.EnvVars("CALLBRIEF_TUNING"),
			Destination: &cfg.tuningPath,
		},
		&cli.StringFlag{
			Name:        "vendor-name",
			Usage:       "Vendor company name used in prompts",
			Sources:     cli.EnvVars("VENDOR_NAME"),
			Destination: &cfg.vendorName,
		},
		&cli.StringFlag{
			Name:        "vendor-domain",
			Usage:       "Vendor email domain, excluded from external-participant lists",
			Sources:     cli.EnvVars("VENDOR_DOMAIN"),
			Destination: &cfg.vendorDomain,
		},
	}
}

func gongFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gong-access-key",
			Usage:       "Gong API access key",
			Sources:     cli.EnvVars("GONG_ACCESS_KEY"),
			Destination: &cfg.gongAccessKey,
		},
		&cli.StringFlag{
			Name:        "gong-secret-key",
			Usage:       "Gong API secret key",
			Sources:     cli.EnvVars("GONG_SECRET_KEY"),
			Destination: &cfg.gongSecretKey,
		},
		&cli.StringFlag{
			Name:        "gong-primary-users",
			Usage:       "Comma-separated Gong user IDs to scope searches to",
			Sources:     cli.EnvVars("GONG_PRIMARY_USER_IDS"),
			Destination: &cfg.gongPrimaryUsers,
		},
	}
}

func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider (claude or gemini)",
			Value:       "claude",
			Sources:     cli.EnvVars("LLM_PROVIDER"),
			Destination: &cfg.llmProvider,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("ANTHROPIC_API_KEY"),
			Destination: &cfg.anthropicAPIKey,
		},
		&cli.StringFlag{
			Name:        "anthropic-model",
			Usage:       "Anthropic model ID",
			Sources:     cli.EnvVars("ANTHROPIC_MODEL"),
			Destination: &cfg.anthropicModel,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
	}
}

func googleFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "google-credentials",
			Usage:       "Path to Google service account credentials JSON",
			Sources:     cli.EnvVars("GOOGLE_APPLICATION_CREDENTIALS"),
			Destination: &cfg.googleCredentials,
		},
		&cli.StringFlag{
			Name:        "accounts-root-folder",
			Usage:       "Drive folder ID holding the A-Z account letter folders",
			Sources:     cli.EnvVars("GOOGLE_DRIVE_ACCOUNTS_ROOT_FOLDER_ID"),
			Destination: &cfg.accountsRootFolder,
		},
	}
}

func temporalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "temporal-address",
			Usage:       "Temporal frontend address",
			Value:       "localhost:7233",
			Sources:     cli.EnvVars("TEMPORAL_ADDRESS"),
			Destination: &cfg.temporalAddress,
		},
		&cli.StringFlag{
			Name:        "temporal-namespace",
			Usage:       "Temporal namespace",
			Value:       "default",
			Sources:     cli.EnvVars("TEMPORAL_NAMESPACE"),
			Destination: &cfg.temporalNamespace,
		},
		&cli.StringFlag{
			Name:        "temporal-api-key",
			Usage:       "Temporal Cloud API key",
			Sources:     cli.EnvVars("TEMPORAL_API_KEY"),
			Destination: &cfg.temporalAPIKey,
		},
		&cli.StringFlag{
			Name:        "task-queue",
			Usage:       "Task queue name",
			Value:       workflow.DefaultTaskQueue,
			Sources:     cli.EnvVars("TEMPORAL_TASK_QUEUE"),
			Destination: &cfg.taskQueue,
		},
	}
}

// configureLogger installs the default logger at the configured
// level. Called at the top of every command action, once flags are
// parsed.
func (cfg *config) configureLogger() {
	logging.SetDefault(logging.New(cfg.logLevel, os.Stderr))
}

func (cfg *config) validateVendor() error {
	if cfg.vendorName == "" {
		return goerr.New("vendor-name is required")
	}
	if cfg.vendorDomain == "" {
		return goerr.New("vendor-domain is required")
	}
	return nil
}

// newGong creates the recording platform client
func (cfg *config) newGong() (adapter.Gong, error) {
	if cfg.gongAccessKey == "" || cfg.gongSecretKey == "" {
		return nil, goerr.New("gong-access-key and gong-secret-key are required")
	}
	return adapter.NewGong(cfg.gongAccessKey, cfg.gongSecretKey), nil
}

// newLLM creates the configured completion client
func (cfg *config) newLLM(ctx context.Context) (adapter.LLM, error) {
	switch cfg.llmProvider {
	case "claude", "":
		if cfg.anthropicAPIKey == "" {
			return nil, goerr.New("anthropic-api-key is required")
		}
		var opts []adapter.ClaudeOption
		if cfg.anthropicModel != "" {
			opts = append(opts, adapter.WithClaudeModel(cfg.anthropicModel))
		}
		return adapter.NewClaude(cfg.anthropicAPIKey, opts...), nil

	case "gemini":
		if cfg.geminiProject == "" {
			return nil, goerr.New("gemini-project is required")
		}
		return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation)

	default:
		return nil, goerr.New("unknown llm provider", goerr.V("provider", cfg.llmProvider))
	}
}

func (cfg *config) newDocs(ctx context.Context) (adapter.Docs, error) {
	if cfg.googleCredentials == "" {
		return nil, goerr.New("google-credentials is required")
	}
	return adapter.NewDocs(ctx, cfg.googleCredentials)
}

func (cfg *config) newDrive(ctx context.Context) (adapter.Drive, error) {
	if cfg.googleCredentials == "" {
		return nil, goerr.New("google-credentials is required")
	}
	return adapter.NewDrive(ctx, cfg.googleCredentials)
}

// newTemporalClient dials the workflow engine. An API key switches the
// connection to TLS for Temporal Cloud.
func (cfg *config) newTemporalClient(ctx context.Context) (client.Client, error) {
	opts := client.Options{
		HostPort:  cfg.temporalAddress,
		Namespace: cfg.temporalNamespace,
	}
	if cfg.temporalAPIKey != "" {
		opts.Credentials = client.NewAPIKeyStaticCredentials(cfg.temporalAPIKey)
		opts.ConnectionOptions = client.ConnectionOptions{
			TLS: &tls.Config{},
		}
	}

	c, err := client.DialContext(ctx, opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to temporal",
			goerr.V("address", cfg.temporalAddress), goerr.V("namespace", cfg.temporalNamespace))
	}
	return c, nil
}

// newDiscovery builds the discovery use case with tuning applied
func (cfg *config) newDiscovery(gong adapter.Gong, llm adapter.LLM, tuning *Tuning) *discovery.UseCase {
	opts := []discovery.Option{
		discovery.WithVendorDomain(cfg.vendorDomain),
	}
	if cfg.gongPrimaryUsers != "" {
		opts = append(opts, discovery.WithPrimaryUserIDs(discovery.ParsePrimaryUserIDs(cfg.gongPrimaryUsers)))
	}
	opts = append(opts, tuning.discoveryOptions()...)
	return discovery.New(gong, llm, opts...)
}

// newActivities wires every use case behind the workflow activities.
func (cfg *config) newActivities(ctx context.Context) (*workflow.Activities, error) {
	if err := cfg.validateVendor(); err != nil {
		return nil, err
	}
	if cfg.accountsRootFolder == "" {
		return nil, goerr.New("accounts-root-folder is required")
	}

	tuning, err := LoadTuning(cfg.tuningPath)
	if err != nil {
		return nil, err
	}

	gong, err := cfg.newGong()
	if err != nil {
		return nil, err
	}
	llm, err := cfg.newLLM(ctx)
	if err != nil {
		return nil, err
	}
	docsSvc, err := cfg.newDocs(ctx)
	if err != nil {
		return nil, err
	}
	driveSvc, err := cfg.newDrive(ctx)
	if err != nil {
		return nil, err
	}

	summaryOpts := []summary.Option{summary.WithVendor(cfg.vendorName, cfg.vendorDomain)}
	if tuning.Summary.TargetWords > 0 {
		summaryOpts = append(summaryOpts, summary.WithTargetWords(tuning.Summary.TargetWords))
	}

	return workflow.NewActivities(
		cfg.newDiscovery(gong, llm, tuning),
		locate.New(driveSvc, llm, cfg.accountsRootFolder),
		summary.New(gong, llm, summaryOpts...),
		docsync.New(docsSvc),
		intel.New(llm, intel.WithVendorName(cfg.vendorName)),
	), nil
}
