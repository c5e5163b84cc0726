package schema

import (
	"context"
	"fmt"

	"github.com/exograph/exoschema/diff"
	"github.com/exograph/exoschema/internal/color"
	"github.com/spf13/cobra"
)

var (
	verifyModel string
	verifyConn  connectionFlags
	verifyQuiet bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Report drift between the live database and the model without applying anything",
	Long:  "Diff the live database against the desired model and exit nonzero if they differ, without producing or applying a plan.",
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyModel, "model", "", "Path to the desired-state model (JSON)")
	verifyCmd.Flags().BoolVar(&verifyQuiet, "quiet", false, "Suppress the drift listing, only report via exit code")
	registerConnectionFlags(verifyCmd, &verifyConn)
	verifyCmd.MarkFlagRequired("model")
	Cmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	dsn, err := verifyConn.resolveDSN()
	if err != nil {
		return err
	}
	ctx := context.Background()
	exec, err := connectExecutor(ctx, dsn)
	if err != nil {
		return err
	}
	defer exec.Close()

	src, err := introspectSchema(ctx, exec, &verifyConn)
	if err != nil {
		return err
	}
	target, err := loadModelSchema(verifyModel)
	if err != nil {
		return err
	}

	ops := diff.Diff(src, target)
	if len(ops) == 0 {
		fmt.Println("No drift detected.")
		return nil
	}

	if !verifyQuiet {
		c := color.New(true)
		fmt.Println(c.Destructive(fmt.Sprintf("Drift detected: %d operation(s) would be applied.", len(ops))))
		for _, op := range ops {
			fmt.Printf("  - %s\n", op.Kind)
		}
	}
	return fmt.Errorf("%w: %d operation(s) pending", errDrift, len(ops))
}
