package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	catalogDir string
	json       bool
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the SkillBridge reference tables",
		Long: `Inspect the SkillBridge job roles and courses, run a gap analysis or a
course recommendation offline, and maintain the Postgres mirror.

Examples:
  catalog jobs cloud
  catalog analyze cloud-architect --skills aws,azure,security
  catalog recommend cloud-architect --skills aws --level intermediate --sort rating
  catalog migrate && catalog seed
`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.catalogDir, "catalog-dir", "", "Read job_roles.yaml and courses.yaml from this directory instead of the embedded tables")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Output as JSON")

	cmd.AddCommand(jobsCmd(opts))
	cmd.AddCommand(jobCmd(opts))
	cmd.AddCommand(coursesCmd(opts))
	cmd.AddCommand(analyzeCmd(opts))
	cmd.AddCommand(recommendCmd(opts))
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(seedCmd(opts))

	return cmd
}
