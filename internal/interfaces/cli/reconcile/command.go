// Package reconcile runs the lifecycle passes once from the command line,
// for backfills and for operators who cannot wait for the next trigger.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadhub/leadhub/internal/application/subscription/usecases"
	"github.com/leadhub/leadhub/internal/infrastructure/database"
	"github.com/leadhub/leadhub/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/leadhub/leadhub/internal/interfaces/http"
	"github.com/leadhub/leadhub/internal/shared/biztime"
	"github.com/leadhub/leadhub/internal/shared/constants"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

const (
	PassReminder   = "reminder"
	PassExpiration = "expiration"
	PassHeal       = "heal"
	PassAll        = "all"
)

var (
	env        string
	configPath string
	pass       string
	asOf       string
)

// ErrUnknownPass is returned for a --pass value outside the supported set.
var ErrUnknownPass = errors.New("unknown pass")

// PassRunner is implemented by the lifecycle service.
type PassRunner interface {
	RunReminderPass(ctx context.Context) (*usecases.PassResult, error)
	RunExpirationPass(ctx context.Context) ([]*usecases.PassResult, error)
	RunQuotaHeal(ctx context.Context) (*usecases.PassResult, error)
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run lifecycle passes once",
		Long: `Run the renewal reminder pass, the expiration pass (with the quota heal
sweep) or the heal sweep alone, outside the daily schedule.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the config file")
	cmd.Flags().StringVarP(&pass, "pass", "p", PassAll, "Pass to run: reminder, expiration, heal or all")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Reconcile as of this instant (RFC3339 or YYYY-MM-DD, UTC)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if err := validatePass(pass); err != nil {
		return err
	}

	var opts []httpRouter.ContainerOption
	if asOf != "" {
		at, err := ParseAsOf(asOf)
		if err != nil {
			return err
		}
		opts = append(opts, httpRouter.WithClock(biztime.NewFixedClock(at)))
	}

	cfg, log, err := bootstrap.Init(env, configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	container, err := httpRouter.NewContainer(database.Get(), cfg, log, opts...)
	if err != nil {
		return fmt.Errorf("failed to build application container: %w", err)
	}
	defer container.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Scheduler.PassTimeout)
	defer cancel()

	log.Infow("running lifecycle passes", "pass", pass, "as_of", asOf)

	return RunPasses(ctx, container.LifecycleService(), pass, cmd.OutOrStdout())
}

func validatePass(name string) error {
	switch name {
	case PassReminder, PassExpiration, PassHeal, PassAll:
		return nil
	default:
		return fmt.Errorf("%w %q: want reminder, expiration, heal or all", ErrUnknownPass, name)
	}
}

// ParseAsOf accepts RFC3339 or a bare date, which means midnight UTC.
func ParseAsOf(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid --as-of %q: want RFC3339 or YYYY-MM-DD", value)
}

// RunPasses runs the selected passes in schedule order and prints one row per
// pass. All selected passes run even when an earlier one fails.
func RunPasses(ctx context.Context, runner PassRunner, name string, out io.Writer) error {
	if err := validatePass(name); err != nil {
		return err
	}

	var (
		results []*usecases.PassResult
		errs    []error
	)

	if name == PassReminder || name == PassAll {
		result, err := runner.RunReminderPass(ctx)
		results = append(results, result)
		errs = append(errs, err)
	}

	switch name {
	case PassExpiration, PassAll:
		passResults, err := runner.RunExpirationPass(ctx)
		results = append(results, passResults...)
		errs = append(errs, err)
	case PassHeal:
		result, err := runner.RunQuotaHeal(ctx)
		results = append(results, result)
		errs = append(errs, err)
	}

	printResults(out, results)
	return errors.Join(errs...)
}

func printResults(out io.Writer, results []*usecases.PassResult) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PASS\tRUN\tCANDIDATES\tDONE\tSKIPPED\tFAILED\tDURATION")
	for _, r := range results {
		if r == nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.Pass, r.RunID, r.Candidates, r.Done, r.Skipped, r.Failed, r.Duration.Round(time.Millisecond))
	}
	_ = w.Flush()
}
