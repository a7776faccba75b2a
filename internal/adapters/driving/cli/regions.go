package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Manage the area-code to region mapping",
	Long: `The region mapping table resolves each record's phone area code
to a region. Records whose area code is not in the table are excluded
from the build, so keep the table current.`,
}

var regionsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a mapping CSV, replacing the current table",
	Long: `Imports an area-code mapping CSV. The file needs two columns, area
code then region identifier; a header row is detected and skipped. The
existing table is replaced in full.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegionsImport,
}

var regionsLookupCmd = &cobra.Command{
	Use:   "lookup <phone-or-area-code>",
	Short: "Resolve a phone number or area code to its region",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegionsLookup,
}

var regionsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the number of mapped area codes",
	RunE:  runRegionsCount,
}

func init() {
	regionsCmd.AddCommand(regionsImportCmd)
	regionsCmd.AddCommand(regionsLookupCmd)
	regionsCmd.AddCommand(regionsCountCmd)
	rootCmd.AddCommand(regionsCmd)
}

func runRegionsImport(cmd *cobra.Command, args []string) error {
	if regionService == nil {
		return errors.New("region service not configured")
	}

	n, err := regionService.ImportCSV(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d area-code mappings.\n", n)
	return nil
}

func runRegionsLookup(cmd *cobra.Command, args []string) error {
	if regionService == nil {
		return errors.New("region service not configured")
	}

	region, err := regionService.Lookup(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if region.IsUnresolved() {
		cmd.Printf("%s: unresolved (no mapping)\n", args[0])
		return nil
	}
	cmd.Printf("%s: %s\n", args[0], region)
	return nil
}

func runRegionsCount(cmd *cobra.Command, _ []string) error {
	if regionService == nil {
		return errors.New("region service not configured")
	}

	n, err := regionService.Count(context.Background())
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}

	cmd.Printf("%d area codes mapped.\n", n)
	return nil
}
