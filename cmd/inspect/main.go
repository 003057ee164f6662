package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aletheia-lab/researchd/internal/reportstore"
	"github.com/aletheia-lab/researchd/internal/review"
)

// #endregion imports

// #region main

func main() {
	dbPath := flag.String("db", "research_assistant.db", "path to the assistant database")
	last := flag.Int("last", 20, "show N most recent entries")
	reportID := flag.Int64("report", 0, "show single report detail (with a fresh review)")
	runs := flag.Bool("runs", false, "show the pipeline run log instead of reports")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	store := reportstore.NewStore(*dbPath)
	defer store.Close()
	if !store.Connected() {
		fmt.Fprintf(os.Stderr, "cannot open %s\n", *dbPath)
		os.Exit(1)
	}

	var err error
	switch {
	case *reportID != 0:
		err = showReport(store, *reportID, *jsonOut)
	case *runs:
		err = showRuns(store, *last, *jsonOut)
	default:
		err = showReports(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region report-detail

func showReport(store *reportstore.Store, id int64, jsonOut bool) error {
	rep, err := store.GetReport(id)
	if err != nil {
		return err
	}
	rev := review.Review(rep.Content, rep.Topic)

	if jsonOut {
		return printJSON(map[string]any{
			"id":         rep.ID,
			"topic":      rep.Topic,
			"content":    rep.Content,
			"created_at": rep.CreatedAt,
			"review":     rev,
		})
	}
	fmt.Printf("Report %d: %s (created %s)\n", rep.ID, rep.Topic, rep.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Println(strings.Repeat("-", 50))
	fmt.Println(rep.Content)
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("Review: %d/100 (%s)\n", rev.QualityScore, rev.OverallAssessment)
	for _, f := range rev.Feedback {
		fmt.Printf("  ! %s\n", f)
	}
	for _, s := range rev.Suggestions {
		fmt.Printf("  * %s\n", s)
	}
	return nil
}

// #endregion report-detail

// #region report-list

func showReports(store *reportstore.Store, last int, jsonOut bool) error {
	reports, err := store.ListReports()
	if err != nil {
		return err
	}
	if last > 0 && len(reports) > last {
		reports = reports[:last]
	}
	if jsonOut {
		return printJSON(reports)
	}
	if len(reports) == 0 {
		fmt.Println("no reports")
		return nil
	}
	for _, r := range reports {
		fmt.Printf("%4d  %-19s  %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Topic)
	}
	return nil
}

// #endregion report-list

// #region run-list

func showRuns(store *reportstore.Store, last int, jsonOut bool) error {
	runs, err := store.ListRuns(last)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %-12s  score=%3d  %6dms  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Depth, r.QualityScore, r.DurationMS, r.Topic)
	}
	return nil
}

// #endregion run-list

// #region helpers

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

// #endregion helpers
