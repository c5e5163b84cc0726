package schema

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/exograph/exoschema/diff"
	"github.com/exograph/exoschema/internal/color"
	"github.com/exograph/exoschema/internal/fingerprint"
	"github.com/exograph/exoschema/internal/prompt"
	"github.com/exograph/exoschema/internal/refine"
	"github.com/exograph/exoschema/internal/xerrors"
	"github.com/exograph/exoschema/plan"
	"github.com/spf13/cobra"
)

var (
	migrateModel            string
	migrateConn             connectionFlags
	migrateAllowDestructive bool
	migrateInteractive      bool
	migrateAutoApprove      bool
	migrateNoColor          bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Diff the live database against the model and apply the result",
	Long:  "Introspect the live database, diff it against the desired model, optionally refine the diff interactively, and apply the resulting plan in a single transaction.",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateModel, "model", "", "Path to the desired-state model (JSON)")
	migrateCmd.Flags().BoolVar(&migrateAllowDestructive, "allow-destructive", false, "Permit a plan that contains destructive statements")
	migrateCmd.Flags().BoolVar(&migrateInteractive, "interactive", false, "Prompt to disambiguate renames instead of treating them as drop+create")
	migrateCmd.Flags().BoolVar(&migrateAutoApprove, "auto-approve", false, "Apply without prompting for confirmation")
	migrateCmd.Flags().BoolVar(&migrateNoColor, "no-color", false, "Disable colored output")
	registerConnectionFlags(migrateCmd, &migrateConn)
	migrateCmd.MarkFlagRequired("model")
	Cmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dsn, err := migrateConn.resolveDSN()
	if err != nil {
		return err
	}
	ctx := context.Background()
	exec, err := connectExecutor(ctx, dsn)
	if err != nil {
		return err
	}
	defer exec.Close()

	src, err := introspectSchema(ctx, exec, &migrateConn)
	if err != nil {
		return err
	}
	sourceFingerprint, err := fingerprint.Compute(src)
	if err != nil {
		return err
	}

	target, err := loadModelSchema(migrateModel)
	if err != nil {
		return err
	}

	ops := diff.Diff(src, target)

	var prompter refine.Prompter = prompt.AlwaysDecline{}
	if migrateInteractive {
		prompter = prompt.Interactive{}
	}
	ops, err = refine.Refine(src, target, ops, prompter)
	if err != nil {
		return err
	}

	migrationPlan, err := plan.Build(ops, migrateConn.scope())
	if err != nil {
		return err
	}

	c := color.New(!migrateNoColor)
	printPlan(c, migrationPlan)

	if migrationPlan.Summary.Total == 0 {
		fmt.Println("No changes to apply. Database schema is already up to date.")
		return nil
	}

	if migrationPlan.Summary.Destructive > 0 && !migrateAllowDestructive {
		return &xerrors.DestructiveNotPermitted{Count: migrationPlan.Summary.Destructive}
	}

	if !migrateAutoApprove {
		approved, err := confirmApply()
		if err != nil {
			return err
		}
		if !approved {
			return &xerrors.OperatorAborted{Reason: "declined confirmation prompt"}
		}
	}

	// Re-check the source fingerprint immediately before executing, in
	// case another session altered the database while the plan was
	// being reviewed or the operator was answering the confirmation
	// prompt.
	currentSrc, err := introspectSchema(ctx, exec, &migrateConn)
	if err != nil {
		return err
	}
	currentFingerprint, err := fingerprint.Compute(currentSrc)
	if err != nil {
		return err
	}
	if err := fingerprint.Compare(sourceFingerprint, currentFingerprint); err != nil {
		return err
	}

	statements := make([]string, len(migrationPlan.Statements))
	for i, s := range migrationPlan.Statements {
		statements[i] = s.SQL
	}
	if err := exec.ExecuteInTransaction(ctx, statements); err != nil {
		return err
	}
	fmt.Println(c.Safe("Changes applied."))
	return nil
}

func confirmApply() (bool, error) {
	fmt.Print("\nApply these changes? (yes/no): ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y", nil
}
