package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jaredtewodros/recallBridge/internal/classify"
	"github.com/jaredtewodros/recallBridge/internal/config"
	"github.com/jaredtewodros/recallBridge/internal/csvio"
	"github.com/jaredtewodros/recallBridge/internal/domain"
	"github.com/jaredtewodros/recallBridge/internal/observability"
	"github.com/jaredtewodros/recallBridge/internal/provider"
	"github.com/jaredtewodros/recallBridge/internal/ratelimit"
	"github.com/jaredtewodros/recallBridge/internal/runner"
)

type runOptions struct {
	policy   string
	touch    string
	mode     string
	onlyMode string
	dryRun   bool
	force    bool
	validate bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <input.csv>",
		Short: "Classify every record and dispatch eligible sends",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCampaign(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.policy, "policy", "single", "eligibility policy: single, twotouch, or followup")
	cmd.Flags().StringVar(&opts.touch, "touch", "t1", "two-touch pass: t1 or t2")
	cmd.Flags().StringVar(&opts.mode, "mode", "link", "default message mode: link or manual (rows may override)")
	cmd.Flags().StringVar(&opts.onlyMode, "only-mode", "", "follow-up class filter: initial, no-click, or clicked-no-book")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "compose and print only; no provider calls")
	cmd.Flags().BoolVar(&opts.force, "force", false, "bypass validation failure and the already-sent skip")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "validate the input and exit")

	return cmd
}

func runCampaign(cmd *cobra.Command, path string, opts *runOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	policy, err := classify.ParsePolicyFromString(opts.policy)
	if err != nil {
		return err
	}
	touch, ok := domain.ParseTouchFromString(opts.touch)
	if !ok || (touch != domain.TouchT1 && touch != domain.TouchT2) {
		return fmt.Errorf("%w: --touch must be t1 or t2", domain.ErrValidation)
	}
	mode := domain.ParseModeFromString(opts.mode)
	if mode == "" {
		return fmt.Errorf("%w: --mode must be link or manual", domain.ErrValidation)
	}
	var only domain.Touch
	if opts.onlyMode != "" {
		only, ok = domain.ParseTouchFromString(opts.onlyMode)
		if !ok || (only != domain.TouchInitial && only != domain.TouchNoClick && only != domain.TouchClickedNoBook) {
			return fmt.Errorf("%w: --only-mode must be initial, no-click, or clicked-no-book", domain.ErrValidation)
		}
	}

	f, report, err := loadAndValidate(cmd, path, policy, cfg.StrictTimestamps)
	if err != nil {
		return err
	}

	if opts.validate {
		return report.Err()
	}
	if rerr := report.Err(); rerr != nil && !opts.force {
		return fmt.Errorf("aborting: %w (use --force to override)", rerr)
	}
	for _, w := range f.Warnings {
		logger.Warn("data quality", zap.String("detail", w.String()))
	}

	var p provider.Provider
	if !opts.dryRun {
		if err := cfg.RequireCredentials(); err != nil {
			return err
		}
		p, err = provider.NewTwilioProvider(cfg.TwilioAccountSID, cfg.TwilioAuthToken)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	r, err := runner.New(runner.Config{
		Policy:              policy,
		Touch:               touch,
		DefaultMode:         mode,
		DryRun:              opts.dryRun,
		Force:               opts.force,
		Only:                only,
		PracticeName:        cfg.PracticeName,
		OfficePhone:         cfg.OfficePhone,
		BookingURL:          cfg.BookingURL,
		MessagingServiceSID: cfg.MessagingServiceSID,
		QuietStartHour:      cfg.QuietStartHour,
		QuietEndHour:        cfg.QuietEndHour,
		Location:            loc,
	}, p, ratelimit.NewInterval(cfg.SendRatePerSec), logger)
	if err != nil {
		return err
	}
	r.SetMetrics(observability.NewMetrics())

	summary, err := r.Run(cmd.Context(), f.Records)
	if err != nil {
		return err
	}

	printSummary(cmd, summary)
	return nil
}

func loadAndValidate(cmd *cobra.Command, path string, policy classify.Policy, strict bool) (*csvio.File, *csvio.Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	defer file.Close()

	f, err := csvio.Read(file)
	if err != nil {
		return nil, nil, err
	}

	report := f.Validate(policy, csvio.DefaultPreviewRows, strict)
	fmt.Fprint(cmd.OutOrStdout(), report.String())
	return f, report, nil
}

func printSummary(cmd *cobra.Command, summary *runner.Summary) {
	out := cmd.OutOrStdout()
	label := "sent"
	if summary.DryRun {
		label = "would send"
	}
	fmt.Fprintf(out, "\nRUN SUMMARY (%s):\n", summary.RunID)
	fmt.Fprintf(out, "  %s: %d\n", label, summary.Sent)
	fmt.Fprintf(out, "  skipped: %d\n", summary.Skipped)
	fmt.Fprintf(out, "  errors: %d\n", summary.Errors)
	for _, rc := range summary.RankedSkipReasons() {
		fmt.Fprintf(out, "    %s: %d\n", rc.Reason, rc.Count)
	}
}
