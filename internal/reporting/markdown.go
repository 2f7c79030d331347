package reporting

import (
	"fmt"
	"strings"
	"time"

	"trader-sentiment-lab/internal/cleaning"
)

// ModelReport summarizes one evaluation of the two predictive models.
type ModelReport struct {
	GeneratedAt time.Time

	TrainRows int
	TestRows  int

	ClassifierAccuracy float64
	RegressorMSE       float64
	RegressorR2        float64

	ClusterCount int
	Silhouette   float64
}

// RenderRunMarkdown renders the run summary: row-loss accounting and model
// evaluation.
func RenderRunMarkdown(trade, sentiment cleaning.Report, model *ModelReport) string {
	var sb strings.Builder

	sb.WriteString("# Run Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", model.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Data Quality\n\n")
	sb.WriteString("| Table | Input | Output | Empty | Duplicates | Bad Timestamps | Missing Account | Nulled Numeric |\n")
	sb.WriteString("|-------|-------|--------|-------|------------|----------------|-----------------|----------------|\n")
	writeReportRow(&sb, "trades", trade)
	writeReportRow(&sb, "sentiment", sentiment)
	sb.WriteString("\n")

	sb.WriteString("## Models\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Train Rows | %d |\n", model.TrainRows))
	sb.WriteString(fmt.Sprintf("| Test Rows | %d |\n", model.TestRows))
	sb.WriteString(fmt.Sprintf("| Classifier Accuracy | %.4f |\n", model.ClassifierAccuracy))
	sb.WriteString(fmt.Sprintf("| Regressor MSE | %.4f |\n", model.RegressorMSE))
	sb.WriteString(fmt.Sprintf("| Regressor R2 | %.4f |\n", model.RegressorR2))
	sb.WriteString(fmt.Sprintf("| Clusters | %d |\n", model.ClusterCount))
	sb.WriteString(fmt.Sprintf("| Silhouette | %.4f |\n", model.Silhouette))

	return sb.String()
}

func writeReportRow(sb *strings.Builder, name string, r cleaning.Report) {
	sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %d | %d | %d |\n",
		name, r.InputRows, r.OutputRows, r.EmptyRowsDropped, r.DuplicatesDropped,
		r.BadTimestampRows, r.MissingAccount, r.NulledNumeric))
}
