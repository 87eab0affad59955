package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"renalscan/internal/analyze"
	"renalscan/internal/meta"
)

// MarkdownWriter outputs a scan report in Markdown format, for saving next
// to the annotated image or sharing with a reviewer.
type MarkdownWriter struct {
	output io.Writer

	// Now is the clock used for the report timestamp; overridable in tests.
	Now func() time.Time
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output, Now: time.Now}
}

// Write renders the analysis result, the narrative summary and any image
// metadata as a Markdown document.
func (w *MarkdownWriter) Write(source string, res analyze.Result, narrative string, tags []meta.Tag) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Kidney Stone Detection Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source image", "`" + source + "`"},
			{"Analyzed", w.Now().Format("2006-01-02 15:04:05 MST")},
			{"Stone detected", strconv.FormatBool(res.StoneDetected)},
		},
	})
	md.PlainText("")

	if res.StoneDetected {
		md.H2("Findings")
		md.PlainText("")
		rows := [][]string{
			{"Estimated size", fmt.Sprintf("%d px", res.SizePixels)},
			{"Anatomical location", string(res.Location)},
			{"Confidence", fmt.Sprintf("%.1f%%", res.Confidence*100)},
			{"Candidate regions", strconv.Itoa(res.RegionCount)},
			{"Boundary circularity", fmt.Sprintf("%.2f", res.Circularity)},
		}
		if res.Center != nil {
			rows = append(rows, []string{"Center", fmt.Sprintf("(%d, %d)", res.Center.X, res.Center.Y)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Finding", "Value"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(tags) > 0 {
		md.H2("Image Metadata")
		md.PlainText("")
		rows := make([][]string, 0, len(tags))
		for _, t := range tags {
			rows = append(rows, []string{t.Name, t.Value})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Tag", "Value"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	md.H2("Clinical Summary")
	md.PlainText("")
	md.PlainText(narrative)

	return md.Build()
}
