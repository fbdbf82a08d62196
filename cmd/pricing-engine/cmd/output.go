package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/donaldgifford/pricing-engine/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printRecommendationsTable(recs []domain.Recommendation) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("PRODUCT\tNAME\tCURRENT\tRECOMMENDED\tCOMPETITOR\tΔPROFIT\tNOTES\n")
	for i := range recs {
		r := &recs[i]
		competitor := "-"
		if r.CompetitorMedian != nil {
			competitor = fmt.Sprintf("$%.2f", *r.CompetitorMedian)
		}
		tw.writef("%s\t%s\t$%.2f\t$%.2f\t%s\t$%.2f\t%s\n",
			r.ProductID,
			truncate(r.Name, 24),
			r.CurrentPrice,
			r.RecommendedPrice,
			competitor,
			r.ExpectedProfitDelta,
			truncate(r.Notes, 48),
		)
	}
	return tw.finish()
}

func printTrainingTable(scores []domain.TrainingScore) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("PRODUCT\tSAMPLES\tR2\n")
	for i := range scores {
		tw.writef("%s\t%d\t%.4f\n",
			scores[i].ProductID,
			scores[i].Samples,
			scores[i].R2,
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
