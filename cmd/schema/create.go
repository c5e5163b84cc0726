package schema

import (
	"context"
	"fmt"
	"os"

	"github.com/exograph/exoschema/diff"
	"github.com/exograph/exoschema/internal/color"
	"github.com/exograph/exoschema/ir"
	"github.com/exograph/exoschema/plan"
	"github.com/spf13/cobra"
)

var (
	createModel  string
	createOutput string
	createConn   connectionFlags
	createApply  bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Render DDL that bootstraps an empty database from the model",
	Long:  "Diff an empty schema against the desired model and render the resulting DDL, optionally applying it to a fresh database.",
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createModel, "model", "", "Path to the desired-state model (JSON)")
	createCmd.Flags().StringVar(&createOutput, "output", "", "Write rendered DDL to this file instead of stdout")
	createCmd.Flags().BoolVar(&createApply, "apply", false, "Execute the rendered DDL against --db")
	registerConnectionFlags(createCmd, &createConn)
	createCmd.MarkFlagRequired("model")
	Cmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	target, err := loadModelSchema(createModel)
	if err != nil {
		return err
	}

	ops := diff.Diff(ir.NewSchema(), target)
	migrationPlan, err := plan.Build(ops, createConn.scope())
	if err != nil {
		return err
	}

	c := color.New(true)
	printPlan(c, migrationPlan)

	if !createApply {
		return writeStatements(migrationPlan, createOutput)
	}

	dsn, err := createConn.resolveDSN()
	if err != nil {
		return err
	}
	ctx := context.Background()
	exec, err := connectExecutor(ctx, dsn)
	if err != nil {
		return err
	}
	defer exec.Close()

	statements := make([]string, len(migrationPlan.Statements))
	for i, s := range migrationPlan.Statements {
		statements[i] = s.SQL
	}
	if err := exec.ExecuteInTransaction(ctx, statements); err != nil {
		return err
	}
	fmt.Println(c.Safe("Database created."))
	return nil
}

// printPlan writes the summary line and per-statement listing to stderr,
// keeping stdout free for piping rendered SQL (e.g. `exo schema create
// --model m.json | psql`).
func printPlan(c *color.Color, p *plan.Plan) {
	fmt.Fprintln(os.Stderr, c.FormatSummaryLine(p.Summary.Total, p.Summary.Safe, p.Summary.Destructive))
	for _, s := range p.Statements {
		fmt.Fprintln(os.Stderr, c.FormatStatementLine(s.SQL, s.Destructive, s.Rationale))
	}
}

func writeStatements(p *plan.Plan, outputPath string) error {
	var out *os.File
	if outputPath == "" {
		out = os.Stdout
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}
		defer f.Close()
		out = f
	}
	for _, s := range p.Statements {
		fmt.Fprintf(out, "%s;\n", s.SQL)
	}
	return nil
}
