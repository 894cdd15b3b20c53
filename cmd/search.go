package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aguepe1/Fleet-Simulator/core/model"
	"github.com/aguepe1/Fleet-Simulator/core/search"
	"github.com/aguepe1/Fleet-Simulator/pkg/export"
)

var searchOpts struct {
	jsonPath   string
	csvPath    string
	distPath   string
	htmlPath   string
	maxReserve int
	seed       uint64
	quiet      bool
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for the minimum and perfect reserve fleet",
	Long: `search evaluates reserve sizes 0, 1, 2, ... until three consecutive
sizes reach a 100% service level. Ctrl-C stops the search after the current
repetition and still reports the sizes evaluated so far.`,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchOpts.jsonPath, "json", "", "write the full result as JSON to this file")
	f.StringVar(&searchOpts.csvPath, "csv", "", "write the search history as CSV to this file")
	f.StringVar(&searchOpts.distPath, "dist-csv", "", "write the distribution summaries as CSV to this file")
	f.StringVar(&searchOpts.htmlPath, "html", "", "write an HTML report with charts to this file")
	f.IntVar(&searchOpts.maxReserve, "max-reserve", 0, "stop after this reserve size (overrides search.max_reserve)")
	f.Uint64Var(&searchOpts.seed, "seed", 0, "random seed (overrides search.seed)")
	f.BoolVarP(&searchOpts.quiet, "quiet", "q", false, "print only the final summary")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := *cfg
	if cmd.Flags().Changed("max-reserve") {
		c.Search.MaxReserve = searchOpts.maxReserve
	}
	if cmd.Flags().Changed("seed") {
		c.Search.Seed = searchOpts.seed
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	svc, release, err := newService(&c)
	if err != nil {
		return err
	}
	defer release()

	out := cmd.OutOrStdout()
	printed := 0
	progress := func(p search.Progress) {
		if searchOpts.quiet {
			return
		}
		printed = printLines(out, p.Log, printed)
	}
	rec, err := svc.Search(ctx, progress)
	if err != nil {
		return err
	}
	res := rec.Result
	if searchOpts.quiet {
		fmt.Fprintln(out, summaryLine(res))
	} else {
		printLines(out, res.Log, printed)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "run %s stored\n", rec.ID)

	if err := exportTo(searchOpts.jsonPath, func(w io.Writer) error { return export.WriteJSON(w, res) }); err != nil {
		return err
	}
	if err := exportTo(searchOpts.csvPath, func(w io.Writer) error { return export.WriteHistoryCSV(w, res.History) }); err != nil {
		return err
	}
	if err := exportTo(searchOpts.distPath, func(w io.Writer) error { return export.WriteDistributionsCSV(w, res.Distributions) }); err != nil {
		return err
	}
	return exportTo(searchOpts.htmlPath, func(w io.Writer) error { return export.WriteHTMLReport(w, res) })
}

// printLines writes the lines after the first n and returns the new count.
func printLines(w io.Writer, lines []string, n int) int {
	for _, l := range lines[min(n, len(lines)):] {
		fmt.Fprintln(w, l)
	}
	return max(n, len(lines))
}

func summaryLine(res model.SearchResult) string {
	return fmt.Sprintf("state=%s minimum=%d perfect=%d trials=%d", res.State, res.MinimumReserve, res.PerfectReserve, len(res.History))
}

func exportTo(path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

