// Package main provides the CLI entry point for autoconsolidado.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SebasRodMag/AutoConsolidado/pkg/consolidate"
	"github.com/SebasRodMag/AutoConsolidado/pkg/consolidate/models"
	"github.com/SebasRodMag/AutoConsolidado/pkg/consolidate/report"
)

var (
	outputPath   string
	mode         string
	sourceDir    string
	configPath   string
	reportFormat string
	cacheSources bool
	pause        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "autoconsolidado [master.xlsx]",
		Short: "Fill master workbook columns from per-entity Excel files",
		Long: `autoconsolidado reads a master workbook, looks up the code in each data
row, locates the matching <code>.xlsx file and fills the configured
destination columns — with copied values (copy, stream) or with
external-reference formulas (link).`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "CONSOLIDADO_COMPLETADO.xlsx", "Output workbook path")
	rootCmd.Flags().StringVar(&mode, "mode", "copy", "Processing mode: copy, stream, link")
	rootCmd.Flags().StringVar(&sourceDir, "source-dir", "", "Directory holding <code>.xlsx files (default: master's directory)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "TOML file overriding the workbook layout")
	rootCmd.Flags().StringVar(&reportFormat, "report", "text", "Row report format: text, json")
	rootCmd.Flags().BoolVar(&cacheSources, "cache-sources", false, "Reuse opened per-entity files across rows with the same code")
	rootCmd.Flags().BoolVar(&pause, "pause", false, "Wait for ENTER before exiting")

	err := rootCmd.Execute()
	if pause {
		fmt.Print("Press ENTER to exit...")
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	masterPath := "CONSOLIDADO.xlsx"
	if len(args) == 1 {
		masterPath = args[0]
	}

	m, err := consolidate.ParseMode(mode)
	if err != nil {
		return err
	}
	if reportFormat != "text" && reportFormat != "json" {
		return fmt.Errorf("invalid report format: %q (must be text or json)", reportFormat)
	}

	cfg := consolidate.DefaultConfig()
	if configPath != "" {
		cfg, err = consolidate.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	var reports []models.RowReport
	opts := consolidate.DefaultOptions()
	opts.Mode = m
	opts.SourceDir = sourceDir
	opts.CacheSources = cacheSources
	opts.Logf = func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}
	if reportFormat == "json" {
		opts.OnRow = func(r models.RowReport) {
			reports = append(reports, r)
		}
	} else {
		opts.OnRow = func(r models.RowReport) {
			switch r.Status {
			case models.StatusHeaderPassthrough, models.StatusSkipped:
				return
			}
			fmt.Println(report.Line(r))
		}
	}

	fmt.Printf("Consolidating %s -> %s (mode: %s)\n", masterPath, outputPath, m)
	if err := consolidate.Run(masterPath, outputPath, cfg, opts); err != nil {
		return err
	}

	if reportFormat == "json" {
		if err := report.WriteJSON(os.Stdout, reports, true); err != nil {
			return err
		}
	}
	fmt.Printf("Saved %s\n", outputPath)
	return nil
}
