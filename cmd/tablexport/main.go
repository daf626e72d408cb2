// Package main provides the tablexport command line interface.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/javajack/tablexport"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tablexport",
		Short:         "Export HTML tables and structured data to CSV or XLSX",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newTableCmd(), newDataCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newTableCmd() *cobra.Command {
	var (
		tableID       string
		format        string
		outPath       string
		excludeHidden bool
		withBOM       bool
	)

	cmd := &cobra.Command{
		Use:   "table [input.html]",
		Short: "Export a table from an HTML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := tablexport.ParseDocument(f)
			if err != nil {
				return err
			}

			fmtVal, err := tablexport.ParseFormat(format)
			if err != nil {
				return err
			}
			opts := []tablexport.Option{
				tablexport.WithFormat(fmtVal),
				tablexport.WithExcludeHidden(excludeHidden),
				tablexport.WithBOM(withBOM),
			}

			out, closeOut, err := openOutput(outPath, fmtVal)
			if err != nil {
				return err
			}
			defer closeOut()

			return tablexport.ExportTable(doc, tableID, out, opts...)
		},
	}

	cmd.Flags().StringVar(&tableID, "id", "", "id of the table (or its container) to export")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout for csv)")
	cmd.Flags().BoolVar(&excludeHidden, "exclude-hidden", false, "drop hidden rows and cells")
	cmd.Flags().BoolVar(&withBOM, "bom", false, "prepend a UTF-8 BOM to csv output")
	cmd.MarkFlagRequired("id")

	return cmd
}

func newDataCmd() *cobra.Command {
	var (
		configPath string
		format     string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "data [records.json]",
		Short: "Export JSON records using a YAML export profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := os.Open(configPath)
			if err != nil {
				return err
			}
			profile, err := tablexport.LoadProfile(cf)
			cf.Close()
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var records []tablexport.Record
			if err := json.Unmarshal(raw, &records); err != nil {
				return fmt.Errorf("parse records: %w", err)
			}

			opts := profile.Options()
			fmtVal := tablexport.FormatCSV
			if profile.Format != "" {
				fmtVal, _ = tablexport.ParseFormat(profile.Format)
			}
			if format != "" {
				if fmtVal, err = tablexport.ParseFormat(format); err != nil {
					return err
				}
				opts = append(opts, tablexport.WithFormat(fmtVal))
			}

			out, closeOut, err := openOutput(outPath, fmtVal)
			if err != nil {
				return err
			}
			defer closeOut()

			if profile.IndentColumn != "" {
				return tablexport.ExportTree(profile.Columns, records, out, opts...)
			}
			return tablexport.ExportRecords(profile.Columns, records, out, opts...)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML export profile with the column layout")
	cmd.Flags().StringVar(&format, "format", "", "override the profile's format: csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout for csv)")
	cmd.MarkFlagRequired("config")

	return cmd
}

// openOutput picks the destination writer. XLSX is a binary container, so it
// always requires a file path.
func openOutput(path string, format tablexport.Format) (io.Writer, func(), error) {
	if path == "" {
		if format == tablexport.FormatXLSX {
			return nil, nil, fmt.Errorf("xlsx output requires --out")
		}
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
