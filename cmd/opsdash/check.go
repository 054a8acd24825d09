package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meditrak/opsdash/internal/clean"
	"github.com/meditrak/opsdash/internal/exitcode"
	"github.com/meditrak/opsdash/internal/model"
	"github.com/meditrak/opsdash/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run validation of the configured sources (no writes)",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringSliceVar(&cfg.Sources, "sources", nil, "Subset of sources to check (default: all)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := setup()

	fmt.Println("=== opsdash check ===")
	fmt.Printf("Data dir: %s\n\n", cfg.DataDir)

	failed := false
	for _, name := range cfg.Sources {
		src, _ := model.SourceByName(name)
		tbl, err := source.Load(cfg.DataDir, src)
		if err != nil {
			fmt.Printf("  %-18s FAIL: %v\n", name, err)
			failed = true
			continue
		}
		note := checkKeys(name, tbl)
		fmt.Printf("  %-18s %6d rows, %d columns%s\n", name, tbl.Len(), len(tbl.Header()), note)
	}

	if failed {
		log.Error().Msg("one or more sources failed validation")
		os.Exit(exitcode.ValidationError)
	}
	fmt.Println("\nAll sources OK")
	return nil
}

// checkKeys runs the reference-table cleaners to surface duplicate join
// keys before a refresh trips over them.
func checkKeys(name string, tbl *source.Table) string {
	var unique int
	var err error
	switch name {
	case "doctor_master":
		var refs []model.DoctorRef
		refs, err = clean.Doctors(tbl)
		unique = len(refs)
	case "code_master", "opd_group_master":
		var refs []model.ServiceGroupRef
		refs, err = clean.ServiceGroups(tbl)
		unique = len(refs)
	case "tpa_mapping":
		var refs []model.TPARef
		refs, err = clean.TPAs(tbl)
		unique = len(refs)
	case "marketing_agents":
		var refs []model.AgentRef
		refs, err = clean.Agents(tbl)
		unique = len(refs)
	default:
		return ""
	}
	if err != nil {
		return fmt.Sprintf(" (key check failed: %v)", err)
	}
	if dup := tbl.Len() - unique; dup > 0 {
		return fmt.Sprintf(" (%d unique keys, %d duplicates dropped)", unique, dup)
	}
	return fmt.Sprintf(" (%d unique keys)", unique)
}
