// Command intentguard runs the trust-debt analysis pipeline, reports
// pipeline/scheduler status, and shows the current signed identity vector.
package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/intentguard/core/pkg/api"
	"github.com/intentguard/core/pkg/category"
	igconfig "github.com/intentguard/core/pkg/config"
	"github.com/intentguard/core/pkg/fim"
	"github.com/intentguard/core/pkg/index"
	"github.com/intentguard/core/pkg/llmclassifier"
	"github.com/intentguard/core/pkg/models"
	"github.com/intentguard/core/pkg/pipeline"
	"github.com/intentguard/core/pkg/scheduler"
	"github.com/intentguard/core/pkg/sign"
)

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	os.Exit(run())
}

func run() int {
	var configDir string
	var dataDir string

	root := &cobra.Command{
		Use:   "intentguard",
		Short: "Trust-debt analysis pipeline and proactive scheduler",
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", getEnv("CONFIG_DIR", "./config"), "path to configuration directory")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", getEnv("DATA_DIR", "./data"), "path to run artifacts / corpus data")

	var fromStep, toStep int
	runPipelineCmd := &cobra.Command{
		Use:   "run-pipeline",
		Short: "Run the 8-step analysis pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdRunPipeline(cmd.Context(), configDir, dataDir, fromStep, toStep)
		},
	}
	runPipelineCmd.Flags().IntVar(&fromStep, "from", 0, "first step to run (0-7)")
	runPipelineCmd.Flags().IntVar(&toStep, "to", 7, "last step to run (0-7)")

	statusCmd := &cobra.Command{
		Use:   "pipeline-status",
		Short: "Show the most recent pipeline run's summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdPipelineStatus(dataDir)
		},
	}

	identityCmd := &cobra.Command{
		Use:   "identity-show",
		Short: "Print the most recent signed identity vector",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdIdentityShow(dataDir)
		},
	}

	schedulerCmd := &cobra.Command{
		Use:   "run-scheduler",
		Short: "Start the proactive scheduler and block until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdRunScheduler(cmd.Context(), configDir, dataDir)
		},
	}

	var checkTool string
	var checkThreshold float64
	checkPermissionCmd := &cobra.Command{
		Use:   "check-permission",
		Short: "Evaluate the current identity against one tool's action requirement",
		RunE: func(cmd *cobra.Command, args []string) error {
			var thresholdOverride *float64
			if cmd.Flags().Changed("threshold") {
				thresholdOverride = &checkThreshold
			}
			return cmdCheckPermission(configDir, dataDir, checkTool, thresholdOverride)
		},
	}
	checkPermissionCmd.Flags().StringVar(&checkTool, "tool", "", "tool name to check against the default requirement registry")
	checkPermissionCmd.Flags().Float64Var(&checkThreshold, "threshold", fim.DefaultThreshold, "overlap threshold override (defaults to the configured fim.threshold)")
	_ = checkPermissionCmd.MarkFlagRequired("tool")

	apiServerCmd := &cobra.Command{
		Use:   "api-server",
		Short: "Serve the read-only report API over the indexed run history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdAPIServer(cmd.Context(), configDir)
		},
	}

	var reindexRun string
	reindexCmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the Postgres index from a completed run's file-tree artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdReindex(cmd.Context(), configDir, dataDir, reindexRun)
		},
	}
	reindexCmd.Flags().StringVar(&reindexRun, "run", "", "run ID to index (defaults to the most recent run)")

	root.AddCommand(runPipelineCmd, statusCmd, identityCmd, schedulerCmd, checkPermissionCmd, apiServerCmd, reindexCmd)

	envPath := filepath.Join(configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Debug("no .env file loaded", "path", envPath, "error", err)
	}

	if err := root.Execute(); err != nil {
		if fe, ok := err.(*fatalConfigError); ok {
			slog.Error("fatal configuration error", "error", fe.err)
			return 1
		}
		slog.Error("command failed", "error", err)
		return 2
	}
	return 0
}

// fatalConfigError distinguishes exit code 1 (bad config, never ran
// anything) from exit code 2 (ran, but one or more steps failed).
type fatalConfigError struct{ err error }

func (e *fatalConfigError) Error() string { return e.err.Error() }

func cmdRunPipeline(ctx context.Context, configDir, dataDir string, from, to int) error {
	cfg, err := igconfig.Initialize(configDir)
	if err != nil {
		return &fatalConfigError{err}
	}

	signer, err := newSigner()
	if err != nil {
		return &fatalConfigError{err}
	}

	pipelineCfg := pipeline.DefaultConfig(dataDir)
	if cfg.FIM.MaxTrustDebtUnits > 0 {
		pipelineCfg.TotalTrustDebtUnits = cfg.FIM.MaxTrustDebtUnits
	}
	pipelineCfg.CategoryWeights = make(map[category.Category]float64, len(category.All))
	for _, c := range category.All {
		pipelineCfg.CategoryWeights[c] = cfg.ResolveCategoryWeight(c)
	}

	providers := &pipeline.Providers{
		Corpus: pipeline.NewFSCorpusProvider(dataDir, nil, nil, filepath.Join(dataDir, "voice-memos")),
		Signer: signer,
	}

	result, err := pipeline.RunPipeline(ctx, dataDir, pipelineCfg, providers, from, to)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	slog.Info("pipeline run complete", "run_id", result.RunID, "run_dir", result.RunDir)

	recordPipelineRun(ctx, cfg, dataDir, result)

	for _, step := range result.Summary.Steps {
		if step.Status == models.StepStatusFailed {
			return fmt.Errorf("step %d failed: %s", step.StepNum, step.Error)
		}
	}
	return nil
}

// recordPipelineRun indexes a completed run into Postgres when the index
// is enabled (§3 DATA MODEL, C5 additive scope). Indexing never gates or
// fails the pipeline run itself — every error here is logged, not returned.
func recordPipelineRun(ctx context.Context, cfg *igconfig.Config, dataDir string, result *pipeline.PipelineResult) {
	if !cfg.Index.Enabled {
		return
	}

	idx, err := openIndexClient(cfg)
	if err != nil {
		slog.Warn("run-pipeline: failed to open index, skipping record", "error", err)
		return
	}
	defer idx.Close()

	if err := indexRun(ctx, idx, dataDir, result.RunID, result.Summary); err != nil {
		slog.Warn("run-pipeline: failed to index run", "run_id", result.RunID, "error", err)
	}
}

// indexRun writes a run's summary, step results, and identity snapshot
// into idx. Shared by cmdRunPipeline's post-run hook and the reindex
// subcommand.
func indexRun(ctx context.Context, idx *index.Client, dataDir, runID string, summary models.PipelineSummary) error {
	steps := make([]index.StepResultRecord, len(summary.Steps))
	for i, s := range summary.Steps {
		steps[i] = index.StepResultRecord{
			StepNum:    s.StepNum,
			Status:     string(s.Status),
			DurationMS: s.DurationMS,
			Error:      s.Error,
		}
	}

	if err := idx.RecordRun(ctx, index.RunSummary{ID: runID, Status: string(overallStatus(summary))}, steps); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	identity, err := loadIdentity(dataDir, runID)
	if err != nil {
		return fmt.Errorf("load identity for snapshot: %w", err)
	}
	if err := idx.RecordIdentitySnapshot(ctx, runID, identity); err != nil {
		return fmt.Errorf("record identity snapshot: %w", err)
	}
	return nil
}

// overallStatus reduces a run's per-step statuses to one worst-case
// status: failed beats warning beats ok.
func overallStatus(summary models.PipelineSummary) models.StepStatus {
	worst := models.StepStatusOK
	for _, s := range summary.Steps {
		switch s.Status {
		case models.StepStatusFailed:
			return models.StepStatusFailed
		case models.StepStatusWarning:
			worst = models.StepStatusWarning
		}
	}
	return worst
}

// openIndexClient opens a Postgres-backed index.Client from the indexing
// section of cfg.
func openIndexClient(cfg *igconfig.Config) (*index.Client, error) {
	idxCfg := index.DefaultConfig()
	idxCfg.Host = cfg.Index.Host
	idxCfg.Port = cfg.Index.Port
	idxCfg.User = cfg.Index.User
	idxCfg.Password = cfg.Index.Password
	idxCfg.Database = cfg.Index.Database
	idxCfg.SSLMode = cfg.Index.SSLMode

	idx, err := index.NewClient(idxCfg)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return idx, nil
}

func cmdPipelineStatus(dataDir string) error {
	latest, err := latestRunDir(dataDir)
	if err != nil {
		return err
	}

	summaryPath := filepath.Join(pipeline.RunDir(dataDir, latest), "pipeline-summary.json")
	data, err := os.ReadFile(summaryPath)
	if err != nil {
		return fmt.Errorf("read summary: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

func cmdIdentityShow(dataDir string) error {
	latest, err := latestRunDir(dataDir)
	if err != nil {
		return err
	}

	identity, err := loadIdentity(dataDir, latest)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func cmdRunScheduler(ctx context.Context, configDir, dataDir string) error {
	cfg, err := igconfig.Initialize(configDir)
	if err != nil {
		return &fatalConfigError{err}
	}

	schedCfg := scheduler.DefaultAutonomousConfig()
	schedCfg.HeartbeatInterval = time.Duration(cfg.Scheduler.HeartbeatMs) * time.Millisecond
	schedCfg.MinIdle = time.Duration(cfg.Scheduler.MinIdleMs) * time.Millisecond
	schedCfg.MaxTasksPerHour = cfg.Scheduler.MaxTasksPerHour
	schedCfg.Enabled = cfg.Scheduler.Enabled

	idleness, err := scheduler.NewFSIdlenessProvider([]string{dataDir})
	if err != nil {
		return fmt.Errorf("start idleness watcher: %w", err)
	}
	defer idleness.Close()

	providers := scheduler.Providers{
		Idleness: idleness,
		Sovereignty: scheduler.IdentitySovereigntyProvider{
			Loader: func(ctx context.Context) (models.IdentityVector, error) {
				latest, err := latestRunDir(dataDir)
				if err != nil {
					return models.IdentityVector{}, err
				}
				return loadIdentity(dataDir, latest)
			},
		},
		Classifier: llmclassifier.StubClassifier{},
		Substrate: scheduler.NewLocalSubstrate(func(ctx context.Context, room, prompt string, categories []category.Category) error {
			slog.Info("scheduler: local substrate invoked task", "room", room, "categories", len(categories))
			return nil
		}),
	}

	if cfg.Index.Enabled {
		idx, err := openIndexClient(cfg)
		if err != nil {
			slog.Warn("run-scheduler: failed to open index, task executions won't be recorded", "error", err)
		} else {
			defer idx.Close()
			providers.Recorder = idx
		}
	}

	s := scheduler.New(schedCfg, providers)
	for _, t := range cfg.Tasks {
		task := taskFromConfig(t)
		s.Bind(&task)
	}
	if len(cfg.Tasks) == 0 {
		slog.Info("scheduler started with no catalog tasks configured")
	}

	s.Start(ctx)
	<-ctx.Done()
	s.Stop()
	return nil
}

// cmdCheckPermission evaluates the current signed identity vector against
// one tool's action requirement and prints the resulting
// models.PermissionDecision as JSON. A denial is a value, not an error
// (§7 "PermissionDenied ... returned as a value, never thrown"); the
// caller is this command, and it is the one responsible for appending
// the denial to the drift log (§7 "Logged to the drift log by the
// caller"). thresholdOverride is nil unless --threshold was explicitly
// set, in which case it wins over the configured fim.threshold.
func cmdCheckPermission(configDir, dataDir, toolName string, thresholdOverride *float64) error {
	cfg, err := igconfig.Initialize(configDir)
	if err != nil {
		return &fatalConfigError{err}
	}

	latest, err := latestRunDir(dataDir)
	if err != nil {
		return err
	}
	identity, err := loadIdentity(dataDir, latest)
	if err != nil {
		return err
	}

	requirement, err := fim.GetRequirement(toolName)
	if err != nil {
		return err
	}

	driftLog := fim.NewDriftLog(filepath.Join(dataDir, "fim-deny-log.jsonl"))
	driftEvents, err := driftLog.Count()
	if err != nil {
		return fmt.Errorf("count drift events: %w", err)
	}
	identity.SovereigntyScore = fim.Decay(identity.SovereigntyScore, driftEvents, cfg.FIM.KE)

	threshold := cfg.FIM.Threshold
	if thresholdOverride != nil {
		threshold = *thresholdOverride
	}

	decision := fim.CheckPermission(identity, requirement, threshold)
	tier := fim.TierOf(decision)

	if !decision.Allowed {
		now := time.Now()
		failedCats := make([]category.Category, len(decision.FailedCategories))
		failedCatNames := make([]string, len(decision.FailedCategories))
		for i, f := range decision.FailedCategories {
			failedCats[i] = f.Category
			failedCatNames[i] = string(f.Category)
		}

		if err := driftLog.RecordDenial(toolName, decision.Overlap, decision.Sovereignty, failedCats, now); err != nil {
			slog.Warn("check-permission: failed to record denial", "tool", toolName, "error", err)
		}

		if cfg.Index.Enabled {
			if idx, err := openIndexClient(cfg); err != nil {
				slog.Warn("check-permission: failed to open index, skipping drift event", "error", err)
			} else {
				if err := idx.RecordDriftEvent(context.Background(), toolName, decision.Overlap, decision.Sovereignty, failedCatNames, now); err != nil {
					slog.Warn("check-permission: failed to record drift event", "tool", toolName, "error", err)
				}
				idx.Close()
			}
		}
	}

	encoded, err := json.MarshalIndent(struct {
		models.PermissionDecision
		Tier models.Tier `json:"tier"`
	}{decision, tier}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode permission decision: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

// cmdReindex rebuilds the Postgres index from one completed run's
// file-tree artifacts (§3 DATA MODEL, C5 additive scope — "rebuildable
// from the file tree at any time"). Defaults to the most recent run.
func cmdReindex(ctx context.Context, configDir, dataDir, runID string) error {
	cfg, err := igconfig.Initialize(configDir)
	if err != nil {
		return &fatalConfigError{err}
	}

	if runID == "" {
		latest, err := latestRunDir(dataDir)
		if err != nil {
			return err
		}
		runID = latest
	}

	summaryPath := filepath.Join(pipeline.RunDir(dataDir, runID), "pipeline-summary.json")
	data, err := os.ReadFile(summaryPath)
	if err != nil {
		return fmt.Errorf("read summary: %w", err)
	}
	var summary models.PipelineSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return fmt.Errorf("decode summary: %w", err)
	}

	idx, err := openIndexClient(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := indexRun(ctx, idx, dataDir, runID, summary); err != nil {
		return fmt.Errorf("reindex run %q: %w", runID, err)
	}

	slog.Info("reindex complete", "run_id", runID)
	return nil
}

// cmdAPIServer opens the Postgres-backed index and serves the read-only
// report API until ctx is cancelled.
func cmdAPIServer(ctx context.Context, configDir string) error {
	cfg, err := igconfig.Initialize(configDir)
	if err != nil {
		return &fatalConfigError{err}
	}

	idx, err := openIndexClient(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	server := api.NewServer(idx, cfg.API.GinMode)
	slog.Info("api server starting", "addr", cfg.API.Addr)
	return server.Start(ctx, cfg.API.Addr)
}

func newSigner() (*sign.Signer, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return sign.New(key)
}

// latestRunDir returns the most recent run ID under dataDir's
// pipeline-runs tree (§3 "Pipeline Run" layout: <data>/pipeline-runs/<runId>/).
// Run IDs are timestamp-prefixed (pipeline.NewRunID), so lexical order is
// chronological order.
func latestRunDir(dataDir string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(dataDir, "pipeline-runs"))
	if err != nil {
		return "", fmt.Errorf("read pipeline-runs dir: %w", err)
	}

	var latest string
	for _, e := range entries {
		if e.IsDir() && e.Name() > latest {
			latest = e.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no runs found under %s", dataDir)
	}
	return latest, nil
}

func loadIdentity(dataDir, runID string) (models.IdentityVector, error) {
	artifact, err := loadStep4Artifact(dataDir, runID)
	if err != nil {
		return models.IdentityVector{}, err
	}
	return artifact.Identity, nil
}

func loadStep4Artifact(dataDir, runID string) (pipeline.Step4Artifact, error) {
	artifactPath := filepath.Join(pipeline.RunDir(dataDir, runID), "4-grades-statistics", "4-grades-statistics.json")
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return pipeline.Step4Artifact{}, fmt.Errorf("read identity artifact: %w", err)
	}

	var artifact pipeline.Step4Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return pipeline.Step4Artifact{}, fmt.Errorf("decode identity artifact: %w", err)
	}
	return artifact, nil
}

// taskFromConfig builds an always-eligible scheduler.Task from a static
// YAML catalog entry. ShouldRun/Prompt here carry no domain logic beyond
// "always eligible, fixed prompt text" — operators wanting conditional
// eligibility register a scheduler.Task in code instead of YAML.
func taskFromConfig(t igconfig.TaskYAMLConfig) scheduler.Task {
	categories := make([]category.Category, 0, len(t.Categories))
	for _, c := range t.Categories {
		categories = append(categories, category.Category(c))
	}

	return scheduler.Task{
		Name:       t.Name,
		Room:       t.Room,
		Cooldown:   time.Duration(t.CooldownMs) * time.Millisecond,
		ShouldRun:  func(ctx context.Context) bool { return true },
		Prompt:     func(ctx context.Context) (string, error) { return "scheduled task: " + t.Name, nil },
		Categories: categories,
	}
}
