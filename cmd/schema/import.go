package schema

import (
	"context"
	"fmt"
	"os"

	"github.com/exograph/exoschema/internal/importer"
	"github.com/exograph/exoschema/internal/sqlparse"
	"github.com/spf13/cobra"
)

var (
	importConn   connectionFlags
	importOutput string
	importRawDDL string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Generate model source from an existing database",
	Long:  "Introspect the live database and render it as model source, in the naming and ordering conventions the model language expects.",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importOutput, "output", "", "Write the generated source to this file instead of stdout")
	importCmd.Flags().StringVar(&importRawDDL, "ddl-file", "", "Optional raw DDL dump to scan for constructs the importer cannot render (reported as warnings)")
	registerConnectionFlags(importCmd, &importConn)
	Cmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	dsn, err := importConn.resolveDSN()
	if err != nil {
		return err
	}
	ctx := context.Background()
	exec, err := connectExecutor(ctx, dsn)
	if err != nil {
		return err
	}
	defer exec.Close()

	schema, err := introspectSchema(ctx, exec, &importConn)
	if err != nil {
		return err
	}

	var rawStatements []string
	if importRawDDL != "" {
		raw, err := os.ReadFile(importRawDDL)
		if err != nil {
			return fmt.Errorf("reading %s: %w", importRawDDL, err)
		}
		rawStatements, err = sqlparse.SplitStatements(string(raw))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", importRawDDL, err)
		}
	}

	source, warnings, err := importer.Import(schema, rawStatements)
	if err != nil {
		return err
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Object, w.Detail)
	}

	if importOutput == "" {
		fmt.Print(source)
		return nil
	}
	if err := os.WriteFile(importOutput, []byte(source), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", importOutput, err)
	}
	return nil
}
