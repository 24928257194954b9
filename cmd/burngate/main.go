package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zen-systems/burngate/pkg/attest"
	"github.com/zen-systems/burngate/pkg/budget"
	"github.com/zen-systems/burngate/pkg/compare"
	"github.com/zen-systems/burngate/pkg/config"
	"github.com/zen-systems/burngate/pkg/crypto"
	"github.com/zen-systems/burngate/pkg/evidence"
	"github.com/zen-systems/burngate/pkg/narrator"
	"github.com/zen-systems/burngate/pkg/normalize"
	"github.com/zen-systems/burngate/pkg/report"
	"github.com/zen-systems/burngate/pkg/store"
	"github.com/zen-systems/burngate/pkg/study"
	"github.com/zen-systems/burngate/pkg/x402"
)

var version = "dev"

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "burngate",
		Short: "Experiment engine measuring whether reliability pre-checks reduce wasted API spend",
		Long: `Burngate runs controlled experiments against paid x402 data endpoints.
	It compares an agent that queries endpoints blindly against one that pays
	for a Zauth reliability pre-check first, and reports whether the check
	fees buy back more than they cost in avoided burn.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(endpointsCmd())
	rootCmd.AddCommand(balanceCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(narrateCmd())
	rootCmd.AddCommand(attestCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}

func runCmd() *cobra.Command {
	var (
		trials      int
		cycles      int
		seed        int64
		budgetUsdc  float64
		live        bool
		rosterFile  string
		formatFlag  string
		evidenceDir string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a matched-pair study of the two conditions",
		Long: `Runs paired trials: each pair executes the same query cycles once
	without the Zauth pre-check and once with it, under the same seed in
	simulation. The verdict reports burn reduction with a paired t-test,
	confidence interval and effect size.

	Simulation is the default; pass --live to spend real USDC. Interrupting
	a run (Ctrl-C) stops at the next trial boundary and analyzes the
	completed pairs as a partial result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyRunDefaults(cfg, &trials, &cycles, &seed, &budgetUsdc)

			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			roster, err := loadRoster(rosterFile)
			if err != nil {
				return err
			}
			if len(roster) == 0 {
				if live {
					return fmt.Errorf("live runs need --roster with real endpoints")
				}
				roster = defaultSimRoster()
			}

			tracker, err := budget.NewTracker(budgetUsdc)
			if err != nil {
				return err
			}

			factory, err := buildTransportFactory(cfg, live)
			if err != nil {
				return err
			}

			runner, err := study.NewRunner(factory, study.Options{
				TrialsPerCondition: trials,
				CyclesPerTrial:     cycles,
				BaseSeed:           seed,
				Endpoints:          roster,
				Budget:             tracker,
				PriceFloor:         cfg.Study.PriceFloor,
				Heuristics:         cfg.Heuristics,
				Stats: study.StatsParams{
					ZauthCheckCost: cfg.Study.ZauthCheckCost,
					ChecksPerCycle: len(roster),
					AvgQueryCost:   cfg.Study.AvgQueryCost,
				},
				Logger: func(format string, args ...any) {
					fmt.Fprintf(os.Stderr, format+"\n", args...)
				},
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			runID := evidence.NewRunID()
			mode := "study"
			fmt.Fprintf(os.Stderr, "Starting run %s: %d trials x %d cycles, budget %.2f USDC\n",
				runID, trials, cycles, budgetUsdc)

			result, err := runner.Run(ctx)
			if err != nil {
				// Nothing analyzable, but whatever partial trials exist still
				// get written out before reporting the failure.
				if result != nil {
					_ = exportStudy(cfg, evidenceDir, runID, mode, seed, budgetUsdc, result)
				}
				return err
			}
			result.Verdict.RunID = runID

			if err := exportStudy(cfg, evidenceDir, runID, mode, seed, budgetUsdc, result); err != nil {
				return err
			}

			return report.RenderStudy(os.Stdout, result.Verdict, format)
		},
	}

	cmd.Flags().IntVar(&trials, "trials", 0, "trials per condition (default from config)")
	cmd.Flags().IntVar(&cycles, "cycles", 0, "query cycles per trial (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base seed for simulated transports (default from config)")
	cmd.Flags().Float64Var(&budgetUsdc, "budget", 0, "total budget cap in USDC (default from config)")
	cmd.Flags().BoolVar(&live, "live", false, "query real endpoints and spend real USDC")
	cmd.Flags().StringVar(&rosterFile, "roster", "", "path to a YAML endpoint roster")
	cmd.Flags().StringVar(&formatFlag, "format", "table", "output format (table, json, csv, markdown)")
	cmd.Flags().StringVar(&evidenceDir, "evidence-dir", "", "evidence bundle directory (default <config dir>/evidence)")

	return cmd
}

func applyRunDefaults(cfg *config.Config, trials, cycles *int, seed *int64, budgetUsdc *float64) {
	if *trials == 0 {
		*trials = cfg.Study.TrialsPerCondition
	}
	if *cycles == 0 {
		*cycles = cfg.Study.CyclesPerTrial
	}
	if *seed == 0 {
		*seed = cfg.Study.BaseSeed
	}
	if *budgetUsdc == 0 {
		*budgetUsdc = cfg.Study.BudgetUsdc
	}
}

// buildTransportFactory picks live or simulated collaborators. Live
// transports ignore the per-pair seed; the seed discipline only buys
// determinism when the world itself is deterministic.
func buildTransportFactory(cfg *config.Config, live bool) (study.TransportFactory, error) {
	if live {
		payment, err := x402.NewHTTPPaymentClient(cfg.PaymentToken, cfg.Study.PriceFloor)
		if err != nil {
			return nil, err
		}
		zauth, err := x402.NewZauthClient(cfg.Services.ZauthURL, cfg.ZauthAPIKey, cfg.Study.ZauthCheckCost, cfg.Study.SkipThreshold)
		if err != nil {
			return nil, err
		}
		transport := study.Transport{Payment: payment, Checker: zauth}
		return func(int64) study.Transport { return transport }, nil
	}

	profile := x402.DefaultSimProfile()
	profile.CheckCost = cfg.Study.ZauthCheckCost
	profile.SkipThreshold = cfg.Study.SkipThreshold
	profile.PriceFloor = cfg.Study.PriceFloor
	profile.Reliability = simReliabilityOverrides()
	return func(seed int64) study.Transport {
		return study.Transport{
			Payment: x402.NewSimulatedTransport(seed, profile),
			Checker: x402.NewSimulatedChecker(profile),
		}
	}, nil
}

func exportStudy(cfg *config.Config, evidenceDir, runID, mode string, seed int64, budgetUsdc float64, result *study.Result) error {
	writer, err := evidence.NewWriter(resolveEvidenceDir(cfg, evidenceDir), runID)
	if err != nil {
		return err
	}
	record := evidence.RunRecord{
		ID:        runID,
		Timestamp: nowUTC(),
		Mode:      mode,
		BaseSeed:  seed,
		BudgetCap: budgetUsdc,
	}
	if err := writer.WriteRun(record); err != nil {
		return err
	}
	for i := range result.NoZauth {
		if err := writer.WriteTrial(i, result.NoZauth[i]); err != nil {
			return err
		}
	}
	for i := range result.WithZauth {
		if err := writer.WriteTrial(i, result.WithZauth[i]); err != nil {
			return err
		}
	}
	if result.Verdict == nil {
		return nil
	}
	if err := writer.WriteVerdict(result.Verdict); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Evidence bundle: %s\n", writer.RunDir())

	history, err := store.Open(historyPath(cfg))
	if err != nil {
		return err
	}
	defer history.Close()
	return history.SaveStudy(record, result.Verdict)
}

func compareCmd() *cobra.Command {
	var (
		budgetUsdc  float64
		maxPrice    float64
		rosterFile  string
		formatFlag  string
		evidenceDir string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare conditions endpoint by endpoint against the live catalog",
		Long: `Discovers paid endpoints, splits the budget across the pool, whale and
	sentiment categories, and queries each affordable endpoint twice back to
	back: once blind, once behind the Zauth pre-check. Cheapest endpoints go
	first; an endpoint whose pair cost would overrun its category's
	sub-budget ends that category.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if budgetUsdc == 0 {
				budgetUsdc = cfg.Compare.BudgetUsdc
			}
			if maxPrice == 0 {
				maxPrice = cfg.Compare.MaxPrice
			}

			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			endpoints, err := resolveEndpoints(cmd.Context(), cfg, rosterFile, maxPrice)
			if err != nil {
				return err
			}

			tracker, err := budget.NewTracker(budgetUsdc)
			if err != nil {
				return err
			}

			payment, err := x402.NewHTTPPaymentClient(cfg.PaymentToken, cfg.Study.PriceFloor)
			if err != nil {
				return err
			}
			zauth, err := x402.NewZauthClient(cfg.Services.ZauthURL, cfg.ZauthAPIKey, cfg.Study.ZauthCheckCost, cfg.Study.SkipThreshold)
			if err != nil {
				return err
			}

			engine, err := compare.NewEngine(payment, zauth, compare.Options{
				Budget: tracker,
				CategoryWeights: map[x402.Category]float64{
					x402.CategoryPool:      cfg.Compare.PoolWeight,
					x402.CategoryWhale:     cfg.Compare.WhaleWeight,
					x402.CategorySentiment: cfg.Compare.SentimentWeight,
				},
				PriceFloor: cfg.Study.PriceFloor,
				Heuristics: cfg.Heuristics,
				Logger: func(format string, args ...any) {
					fmt.Fprintf(os.Stderr, format+"\n", args...)
				},
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			runID := evidence.NewRunID()
			fmt.Fprintf(os.Stderr, "Starting comparison %s: %d endpoints, budget %.2f USDC\n",
				runID, len(endpoints), budgetUsdc)

			result, err := engine.Run(ctx, endpoints)
			if err != nil {
				return err
			}
			result.Summary.RunID = runID

			writer, err := evidence.NewWriter(resolveEvidenceDir(cfg, evidenceDir), runID)
			if err != nil {
				return err
			}
			record := evidence.RunRecord{
				ID:        runID,
				Timestamp: nowUTC(),
				Mode:      "compare",
				BudgetCap: budgetUsdc,
			}
			if err := writer.WriteRun(record); err != nil {
				return err
			}
			if err := writer.WriteComparisons(result.Comparisons); err != nil {
				return err
			}
			if err := writer.WriteSummary(result.Summary); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Evidence bundle: %s\n", writer.RunDir())

			history, err := store.Open(historyPath(cfg))
			if err != nil {
				return err
			}
			defer history.Close()
			if err := history.SaveComparison(record, result.Summary); err != nil {
				return err
			}

			return report.RenderComparison(os.Stdout, result.Summary, format)
		},
	}

	cmd.Flags().Float64Var(&budgetUsdc, "budget", 0, "total budget cap in USDC (default from config)")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "skip endpoints above this declared price")
	cmd.Flags().StringVar(&rosterFile, "roster", "", "YAML roster instead of catalog discovery")
	cmd.Flags().StringVar(&formatFlag, "format", "table", "output format (table, json, csv, markdown)")
	cmd.Flags().StringVar(&evidenceDir, "evidence-dir", "", "evidence bundle directory (default <config dir>/evidence)")

	return cmd
}

// resolveEndpoints loads a roster file when given, otherwise pages through
// the discovery catalog.
func resolveEndpoints(ctx context.Context, cfg *config.Config, rosterFile string, maxPrice float64) ([]x402.Endpoint, error) {
	if rosterFile != "" {
		roster, err := loadRoster(rosterFile)
		if err != nil {
			return nil, err
		}
		if len(roster) == 0 {
			return nil, fmt.Errorf("roster %s contains no endpoints", rosterFile)
		}
		return roster, nil
	}

	if cfg.Services.DiscoveryURL == "" {
		return nil, fmt.Errorf("no discovery_url configured and no --roster given")
	}
	discovery, err := x402.NewHTTPDiscovery(cfg.Services.DiscoveryURL, 0)
	if err != nil {
		return nil, err
	}
	endpoints, err := x402.ListAll(ctx, discovery, x402.DiscoveryFilter{MaxPrice: maxPrice, PaidOnly: true})
	if err != nil {
		return nil, err
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("catalog returned no paid endpoints")
	}
	return endpoints, nil
}

func endpointsCmd() *cobra.Command {
	var (
		categoryFlag string
		maxPrice     float64
	)

	cmd := &cobra.Command{
		Use:   "endpoints",
		Short: "List paid endpoints from the discovery catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Services.DiscoveryURL == "" {
				return fmt.Errorf("no discovery_url configured")
			}

			discovery, err := x402.NewHTTPDiscovery(cfg.Services.DiscoveryURL, 0)
			if err != nil {
				return err
			}
			filter := x402.DiscoveryFilter{
				Category: x402.Category(categoryFlag),
				MaxPrice: maxPrice,
				PaidOnly: true,
			}
			endpoints, err := x402.ListAll(cmd.Context(), discovery, filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORY\tPRICE\tURL")
			for _, ep := range endpoints {
				fmt.Fprintf(w, "%s\t%s\t%.4f\t%s\n", ep.Name, ep.Category, ep.DeclaredPrice, ep.URL)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&categoryFlag, "category", "", "filter by category (pool, whale, sentiment)")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "filter out endpoints above this price")

	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the wallet's USDC balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Services.WalletURL == "" {
				return fmt.Errorf("no wallet_url configured")
			}

			wallet, err := x402.NewHTTPWallet(cfg.Services.WalletURL, cfg.PaymentToken)
			if err != nil {
				return err
			}
			balance, err := wallet.Balance(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%.4f USDC\n", balance)
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			history, err := store.Open(historyPath(cfg))
			if err != nil {
				return err
			}
			defer history.Close()

			runs, err := history.ListRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tWHEN\tMODE\tSTATE\tBUDGET\tSPENT")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.4f\n",
					run.ID, run.Timestamp.Format("2006-01-02 15:04"), run.Mode, run.State,
					run.BudgetCap, run.SpentUsdc)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to list")

	return cmd
}

func showCmd() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Render a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			history, err := store.Open(historyPath(cfg))
			if err != nil {
				return err
			}
			defer history.Close()

			if verdict, err := history.GetStudy(args[0]); err == nil {
				return report.RenderStudy(os.Stdout, verdict, format)
			}
			summary, err := history.GetComparison(args[0])
			if err != nil {
				return err
			}
			return report.RenderComparison(os.Stdout, summary, format)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "table", "output format (table, json, csv, markdown)")

	return cmd
}

func narrateCmd() *cobra.Command {
	var backendFlag string

	cmd := &cobra.Command{
		Use:   "narrate [run-id]",
		Short: "Summarize a stored study verdict in plain language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			history, err := store.Open(historyPath(cfg))
			if err != nil {
				return err
			}
			defer history.Close()

			verdict, err := history.GetStudy(args[0])
			if err != nil {
				return err
			}

			n, err := buildNarrator(cfg, backendFlag)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Narrating with %s\n", n.Name())

			summary, err := n.Narrate(cmd.Context(), verdict)
			if err != nil {
				return err
			}
			fmt.Println(summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&backendFlag, "backend", "", "narration backend (anthropic, openai, google, mock)")

	return cmd
}

// buildNarrator honors an explicit backend choice, otherwise takes the first
// configured provider and falls back to the mock.
func buildNarrator(cfg *config.Config, backend string) (narrator.Narrator, error) {
	if backend == "" {
		switch {
		case cfg.HasNarrator("anthropic"):
			backend = "anthropic"
		case cfg.HasNarrator("openai"):
			backend = "openai"
		case cfg.HasNarrator("google"):
			backend = "google"
		default:
			backend = "mock"
		}
	}
	switch backend {
	case "anthropic":
		return narrator.NewAnthropicNarrator(cfg.AnthropicAPIKey)
	case "openai":
		return narrator.NewOpenAINarrator(cfg.OpenAIAPIKey)
	case "google":
		return narrator.NewGoogleNarrator(cfg.GoogleAPIKey)
	case "mock":
		return narrator.NewMockNarrator(), nil
	default:
		return nil, fmt.Errorf("unknown narration backend %q", backend)
	}
}

func attestCmd() *cobra.Command {
	var keyID string

	cmd := &cobra.Command{
		Use:   "attest [run-dir]",
		Short: "Sign an evidence bundle",
		Long: `Hashes every file in a run's evidence bundle and writes a signed
	attestation next to them, so a verdict quoted elsewhere can be checked
	against the bundle that produced it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			att, err := attest.Build(args[0])
			if err != nil {
				return err
			}

			signer, err := crypto.NewSigner(keyID)
			if err != nil {
				return err
			}
			if err := att.Sign(signer); err != nil {
				return err
			}

			path, err := att.Write(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Attested run %s (%d files) -> %s\n", att.RunID, len(att.Hashes), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyID, "key", "default", "signing key id")

	return cmd
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [run-dir]",
		Short: "Verify an evidence bundle against its attestation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			att, err := attest.Load(args[0])
			if err != nil {
				return err
			}
			if err := att.VerifySignature(); err != nil {
				return err
			}
			if err := attest.VerifyBundle(args[0], att); err != nil {
				return err
			}
			fmt.Printf("Run %s verified: %d files match, signature valid (key %s)\n",
				att.RunID, len(att.Hashes), att.Signature.PubKeyID)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the burngate version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("burngate %s\n", version)
		},
	}
}

// rosterEntry is the YAML shape of one roster endpoint.
type rosterEntry struct {
	URL       string  `yaml:"url"`
	Name      string  `yaml:"name"`
	Category  string  `yaml:"category"`
	Price     float64 `yaml:"price"`
	SchemaKey string  `yaml:"schema_key,omitempty"`
	DataField string  `yaml:"data_field,omitempty"`
}

func loadRoster(path string) ([]x402.Endpoint, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	var entries []rosterEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}

	endpoints := make([]x402.Endpoint, 0, len(entries))
	for _, entry := range entries {
		ep := x402.Endpoint{
			URL:           entry.URL,
			Name:          entry.Name,
			Category:      x402.Category(entry.Category),
			DeclaredPrice: entry.Price,
		}
		if entry.SchemaKey != "" || entry.DataField != "" {
			ep.Schema = &normalize.Schema{Kind: entry.SchemaKey, DataField: entry.DataField}
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil
}

// defaultSimRoster models a marketplace with a mix of solid and flaky
// services in every category.
func defaultSimRoster() []x402.Endpoint {
	return []x402.Endpoint{
		{Name: "sim-pools-stable", Category: x402.CategoryPool, DeclaredPrice: 0.01},
		{Name: "sim-pools-flaky", Category: x402.CategoryPool, DeclaredPrice: 0.008},
		{Name: "sim-whales-stable", Category: x402.CategoryWhale, DeclaredPrice: 0.012},
		{Name: "sim-whales-flaky", Category: x402.CategoryWhale, DeclaredPrice: 0.009},
		{Name: "sim-sentiment-stable", Category: x402.CategorySentiment, DeclaredPrice: 0.005},
		{Name: "sim-sentiment-flaky", Category: x402.CategorySentiment, DeclaredPrice: 0.004},
	}
}

func simReliabilityOverrides() map[string]float64 {
	return map[string]float64{
		"sim-pools-stable":     0.95,
		"sim-pools-flaky":      0.35,
		"sim-whales-stable":    0.92,
		"sim-whales-flaky":     0.30,
		"sim-sentiment-stable": 0.97,
		"sim-sentiment-flaky":  0.25,
	}
}

func resolveEvidenceDir(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(cfg.ConfigDir, "evidence")
}

func historyPath(cfg *config.Config) string {
	return filepath.Join(cfg.ConfigDir, "history.db")
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
