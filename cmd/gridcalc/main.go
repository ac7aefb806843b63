// Package main provides the CLI entry point for gridcalc.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/store"
)

var (
	configPath  string
	verbose     bool
	sheetName   string
	outputPath  string
	pretty      bool
	mode        string
	inputPath   string
	explain     bool
	encoding    string
	delimiter   string
	recalcFirst bool
	cellWidth   int
	showInputs  bool
	dataOnly    bool
	region      string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridcalc",
		Short: "Evaluate and edit spreadsheet documents",
		Long: `gridcalc evaluates cell formulas, recalculates spreadsheet documents
and converts them between JSON, CSV and XLSX.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log recalculation details to stderr")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet", "", "Worksheet to read from XLSX input (default: first)")

	evalCmd := &cobra.Command{
		Use:   "eval FORMULA",
		Short: "Evaluate a formula or value",
		Args:  cobra.ExactArgs(1),
		RunE:  runEval,
	}
	evalCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Document whose cells the formula reads")
	evalCmd.Flags().BoolVar(&explain, "explain", false, "Print why a formula failed")
	evalCmd.Flags().StringVar(&mode, "mode", "", "Recalculation mode for --input: snapshot, ordered")

	recalcCmd := &cobra.Command{
		Use:   "recalc INPUT",
		Short: "Recalculate every formula of a document",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecalc,
	}
	recalcCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: JSON on stdout)")
	recalcCmd.Flags().StringVar(&mode, "mode", "", "Recalculation mode: snapshot, ordered")
	recalcCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	setCmd := &cobra.Command{
		Use:   "set INPUT ADDRESS VALUE",
		Short: "Set one cell and save the recalculated document",
		Args:  cobra.ExactArgs(3),
		RunE:  runSet,
	}
	setCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: overwrite INPUT)")
	setCmd.Flags().StringVar(&mode, "mode", "", "Recalculation mode: snapshot, ordered")
	setCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	showCmd := &cobra.Command{
		Use:   "show INPUT",
		Short: "Print a document as a grid",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	showCmd.Flags().IntVar(&cellWidth, "width", defaultCellWidth, "Maximum display width of a cell")
	showCmd.Flags().BoolVar(&showInputs, "formulas", false, "Show formulas instead of their results")
	showCmd.Flags().BoolVar(&dataOnly, "data", false, "Show only the region holding data")
	showCmd.Flags().StringVar(&region, "range", "", "Show only this range, e.g. A1:C10")

	exportCmd := &cobra.Command{
		Use:   "export INPUT OUTPUT",
		Short: "Convert a document to the format of OUTPUT (.json, .csv, .xlsx)",
		Args:  cobra.ExactArgs(2),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&encoding, "encoding", "", "CSV text encoding, e.g. shift_jis (default: utf-8)")
	exportCmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV field delimiter (default: ,)")
	exportCmd.Flags().BoolVar(&recalcFirst, "recalc", false, "Recalculate before exporting")
	exportCmd.Flags().StringVar(&mode, "mode", "", "Recalculation mode: snapshot, ordered")
	exportCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(evalCmd, recalcCmd, setCmd, showCmd, exportCmd)
	return rootCmd
}

// settings merges the configuration file with command line flags.
type settings struct {
	editor gridcalc.Options
	file   store.FileOptions
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	var cfg gridcalc.Config
	if configPath != "" {
		var err error
		if cfg, err = gridcalc.LoadConfig(configPath); err != nil {
			return settings{}, err
		}
	}
	if f := cmd.Flags().Lookup("mode"); f != nil && f.Changed {
		cfg.Mode = mode
	}
	if f := cmd.Flags().Lookup("pretty"); f != nil && f.Changed {
		cfg.Pretty = pretty
	}
	if f := cmd.Flags().Lookup("encoding"); f != nil && f.Changed {
		cfg.CSV.Encoding = encoding
	}
	if f := cmd.Flags().Lookup("delimiter"); f != nil && f.Changed {
		cfg.CSV.Delimiter = delimiter
	}

	opts, err := cfg.Options()
	if err != nil {
		return settings{}, err
	}
	opts.Logger = newLogger(cmd.ErrOrStderr())

	csvOpts, err := cfg.CSVOptions()
	if err != nil {
		return settings{}, err
	}
	return settings{
		editor: opts,
		file: store.FileOptions{
			Pretty:    cfg.Pretty,
			CSV:       csvOpts,
			SheetName: sheetName,
		},
	}, nil
}

func newLogger(w io.Writer) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(w, "gridcalc: ", log.LstdFlags)
}

// openEditor loads a document into a new editor session.
func openEditor(path string, st settings) (*gridcalc.Editor, error) {
	s, err := store.ReadFile(path, st.file)
	if err != nil {
		return nil, err
	}
	st.editor.Logger.Printf("[load] %s: %d cells", path, s.Len())
	e := gridcalc.NewEditor(st.editor)
	e.Load(s)
	return e, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	sheet := models.NewSheet("", 0, 0)
	if inputPath != "" {
		e, err := openEditor(inputPath, st)
		if err != nil {
			return err
		}
		e.Recalculate()
		sheet = e.Sheet()
	}

	result, evalErr := formula.Compute(args[0], sheet)
	fmt.Fprintln(cmd.OutOrStdout(), result)
	if explain && evalErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", evalErr)
		if errors.Is(evalErr, formula.ErrUnknownFunction) {
			fmt.Fprintf(cmd.ErrOrStderr(), "supported functions: %s\n", strings.Join(formula.Functions(), ", "))
		}
	}
	return nil
}

func runRecalc(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	e, err := openEditor(args[0], st)
	if err != nil {
		return err
	}
	stats := e.Recalculate()
	if stats.Errors > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d formulas failed\n", stats.Errors, stats.Formulas)
	}
	return writeResult(cmd, e.Sheet(), outputPath, st)
}

func runSet(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	e, err := openEditor(args[0], st)
	if err != nil {
		return err
	}
	if err := e.SetCellAt(args[1], args[2]); err != nil {
		return err
	}

	target := outputPath
	if target == "" {
		target = args[0]
	}
	return writeResult(cmd, e.Sheet(), target, st)
}

func runShow(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	e, err := openEditor(args[0], st)
	if err != nil {
		return err
	}
	// CSV formulas and uncached workbook formulas arrive without a
	// display value.
	e.Recalculate()
	s := e.Sheet()

	opts := gridOptions{MaxWidth: cellWidth, Formulas: showInputs}
	switch {
	case region != "":
		r, err := ref.ParseRange(region)
		if err != nil {
			return err
		}
		opts.Region = &r
	case dataOnly:
		r, ok := s.Bounds()
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), "no data")
			return nil
		}
		opts.Region = &r
	}
	if opts.Region != nil {
		st.editor.Logger.Printf("[show] %s", ref.FormatRange(*opts.Region))
	}

	w, color := terminalWriter(cmd.OutOrStdout())
	opts.Color = color
	return renderGrid(w, s, opts)
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	e, err := openEditor(args[0], st)
	if err != nil {
		return err
	}
	if recalcFirst {
		e.Recalculate()
	}
	return writeResult(cmd, e.Sheet(), args[1], st)
}

// writeResult saves the sheet to path, or prints it as JSON when path is
// empty.
func writeResult(cmd *cobra.Command, s *models.Sheet, path string, st settings) error {
	if path == "" {
		data, err := store.ToJSON(s, st.file.Pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := store.WriteFile(path, s, st.file); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	st.editor.Logger.Printf("[save] %s", path)
	return nil
}
