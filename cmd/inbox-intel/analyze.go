// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/inbox-intel/internal/assess"
	"github.com/pdiddy/inbox-intel/internal/compose"
	"github.com/pdiddy/inbox-intel/internal/engine"
	"github.com/pdiddy/inbox-intel/internal/history"
	"github.com/pdiddy/inbox-intel/internal/reasoning"
	"github.com/pdiddy/inbox-intel/internal/research"
	"github.com/pdiddy/inbox-intel/internal/trace"
	"github.com/pdiddy/inbox-intel/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze an email: decide, research, and draft a reply",
	Long: `Analyze classifies the provided entities, assesses which ones need
external research, searches the ones that clear the budget, and composes a
reply draft grounded in the findings.

Interrupting a run (Ctrl-C) returns the decisions made so far as a partial
result instead of an error.`,
	RunE: runAnalyze,
}

// entitiesFile is the YAML shape of the --entities input.
type entitiesFile struct {
	Entities []types.Entity `yaml:"entities"`
}

func init() {
	analyzeCmd.Flags().String("email", "", "path to the email body file (use - for stdin)")
	analyzeCmd.Flags().String("entities", "", "path to the extracted-entities YAML file")
	analyzeCmd.Flags().String("subject", "", "email subject line")
	analyzeCmd.Flags().String("self", "", "own party name, never researched")
	analyzeCmd.Flags().Int("budget", 0, "search budget override (default from config)")
	analyzeCmd.Flags().Bool("json", false, "output the full analysis bundle as JSON")
	analyzeCmd.Flags().Bool("save", false, "save the run to the analysis history")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	emailPath, _ := cmd.Flags().GetString("email")
	entitiesPath, _ := cmd.Flags().GetString("entities")
	if emailPath == "" || entitiesPath == "" {
		return fmt.Errorf("both --email and --entities are required")
	}

	body, err := readEmail(emailPath)
	if err != nil {
		return err
	}

	entities, err := readEntities(entitiesPath)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		return fmt.Errorf("no entities in %s", entitiesPath)
	}

	subject, _ := cmd.Flags().GetString("subject")
	selfParty, _ := cmd.Flags().GetString("self")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")

	cfg := analysisConfig(cmd)

	if cfg.Assess.APIKey == "" {
		return fmt.Errorf("reasoning API key missing: set .secrets/groq-api-key or INBOX_INTEL_GROQ_API_KEY")
	}
	if cfg.Research.APIKey == "" {
		return fmt.Errorf("search API key missing: set .secrets/linkup-api-key or INBOX_INTEL_LINKUP_API_KEY")
	}

	logger := zap.NewNop()
	if !jsonOutput {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()
	}

	eng := buildEngine(cfg)
	if jsonOutput {
		eng.Out = os.Stderr
	} else {
		eng.Out = os.Stdout
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := eng.Analyze(ctx, trace.New(logger), engine.Request{
		EmailContent: body,
		Subject:      subject,
		SelfParty:    selfParty,
		Entities:     entities,
	})
	if err != nil {
		return err
	}

	if save {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved run %s\n", result.RunID)
	}

	if jsonOutput {
		return writeJSON(os.Stdout, result)
	}
	renderResult(os.Stdout, result)
	return nil
}

// analysisConfig layers flag and viper overrides onto the defaults.
func analysisConfig(cmd *cobra.Command) types.AnalysisConfig {
	cfg := types.DefaultAnalysisConfig()

	if model := viper.GetString("model"); model != "" {
		cfg.Assess.Model = model
		cfg.Compose.Model = model
	}
	if dir := viper.GetString("history_dir"); dir != "" {
		cfg.History.Dir = dir
	}

	cfg.Assess.APIKey = secretDefault("groq-api-key", viper.GetString("groq_api_key"))
	cfg.Compose.APIKey = cfg.Assess.APIKey
	cfg.Research.APIKey = secretDefault("linkup-api-key", viper.GetString("linkup_api_key"))

	if budget, _ := cmd.Flags().GetInt("budget"); budget > 0 {
		cfg.Research.SearchBudget = budget
	}
	return cfg
}

func buildEngine(cfg types.AnalysisConfig) *engine.Engine {
	assessClient := &reasoning.Client{
		Config:     cfg.Assess.AIConfig,
		HTTPClient: &http.Client{},
	}
	composeClient := &reasoning.Client{
		Config:     cfg.Compose.AIConfig,
		HTTPClient: &http.Client{},
	}
	searcher := &research.LinkupBackend{
		Config: cfg.Research,
		Client: &http.Client{},
	}

	return &engine.Engine{
		Assessor: &assess.Assessor{
			Backend: &assess.GroqBackend{Client: assessClient},
			Config:  cfg.Assess,
		},
		Searcher: searcher,
		Composer: &compose.Composer{
			Generator: &compose.GroqGenerator{Client: composeClient},
			Config:    cfg.Compose,
		},
		Config: cfg,
	}
}

func readEmail(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading email from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading email: %w", err)
	}
	return string(data), nil
}

func readEntities(path string) ([]types.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading entities: %w", err)
	}
	var f entitiesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing entities: %w", err)
	}
	return f.Entities, nil
}
