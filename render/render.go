// Package render turns analysis results into text, JSON, CSV or
// markdown. It is a pure formatting layer over the analyzer's flat
// records; nothing here reaches back into the graph.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fieldlens/fieldlens/analyzer"
)

// Format names an output encoding.
type Format string

const (
	Text     Format = "text"
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
)

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case Text:
		return Text, nil
	case JSON:
		return JSON, nil
	case CSV:
		return CSV, nil
	case Markdown:
		return Markdown, nil
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// Impact renders impact or dependency edges.
func Impact(edges []analyzer.ImpactEdge, format Format) (string, error) {
	switch format {
	case JSON:
		return marshal(edges)
	case CSV, Markdown:
		rows := make([][]string, 0, len(edges))
		for _, edge := range edges {
			rows = append(rows, []string{
				strconv.Itoa(edge.Depth),
				edge.AffectedUnit,
				edge.AffectedField,
				strings.Join(edge.PathFields, " > "),
			})
		}
		return table([]string{"depth", "affectedUnit", "affectedField", "pathFields"}, rows, format)
	default:
		if len(edges) == 0 {
			return "no impact found\n", nil
		}
		var out bytes.Buffer
		w := tabwriter.NewWriter(&out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DEPTH\tAFFECTED UNIT\tOUTPUT FIELD\tVIA")
		for _, edge := range edges {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				edge.Depth, edge.AffectedUnit, edge.AffectedField,
				strings.Join(edge.PathFields, " > "))
		}
		w.Flush()
		return out.String(), nil
	}
}

// Paths renders dependency paths.
func Paths(paths []analyzer.Path, format Format) (string, error) {
	switch format {
	case JSON:
		return marshal(paths)
	case CSV, Markdown:
		rows := make([][]string, 0, len(paths))
		for _, path := range paths {
			rows = append(rows, []string{
				strconv.Itoa(path.Length),
				path.Description,
			})
		}
		return table([]string{"length", "path"}, rows, format)
	default:
		if len(paths) == 0 {
			return "no path found\n", nil
		}
		var out strings.Builder
		for _, path := range paths {
			fmt.Fprintf(&out, "[%d] %s\n", path.Length, path.Description)
		}
		return out.String(), nil
	}
}

// Fields renders the ranked critical fields.
func Fields(fields []analyzer.FieldImpact, format Format) (string, error) {
	switch format {
	case JSON:
		return marshal(fields)
	case CSV, Markdown:
		rows := make([][]string, 0, len(fields))
		for _, field := range fields {
			rows = append(rows, []string{
				field.Field,
				strconv.Itoa(field.ProducerCount),
				strconv.Itoa(field.ConsumerCount),
				strconv.FormatFloat(field.ImpactRatio, 'f', 2, 64),
				string(field.Risk),
			})
		}
		return table([]string{"field", "producers", "consumers", "ratio", "risk"}, rows, format)
	default:
		if len(fields) == 0 {
			return "no eligible fields\n", nil
		}
		var out bytes.Buffer
		w := tabwriter.NewWriter(&out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tPRODUCERS\tCONSUMERS\tRATIO\tRISK")
		for _, field := range fields {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%s\n",
				field.Field, field.ProducerCount, field.ConsumerCount,
				field.ImpactRatio, field.Risk)
		}
		w.Flush()
		return out.String(), nil
	}
}

// Distribution renders the consumer-count bands.
func Distribution(bands []analyzer.Band, format Format) (string, error) {
	switch format {
	case JSON:
		return marshal(bands)
	case CSV, Markdown:
		rows := make([][]string, 0, len(bands))
		for _, band := range bands {
			rows = append(rows, []string{
				band.Label,
				strconv.Itoa(band.Count),
				strconv.FormatFloat(band.Percent, 'f', 1, 64),
			})
		}
		return table([]string{"consumers", "fields", "percent"}, rows, format)
	default:
		var out bytes.Buffer
		w := tabwriter.NewWriter(&out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CONSUMERS\tFIELDS\tPERCENT")
		for _, band := range bands {
			fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", band.Label, band.Count, band.Percent)
		}
		w.Flush()
		return out.String(), nil
	}
}

// Summary renders the system report.
func Summary(report *analyzer.SystemReport, format Format) (string, error) {
	switch format {
	case JSON:
		return marshal(report)
	case CSV:
		rows := [][]string{
			{"units", strconv.Itoa(report.Stats.Units)},
			{"fields", strconv.Itoa(report.Stats.Fields)},
			{"edges", strconv.Itoa(report.Stats.Edges)},
			{"highImpactFields", strconv.Itoa(report.HighImpactFields)},
			{"fragility", string(report.Fragility)},
		}
		return table([]string{"metric", "value"}, rows, CSV)
	default:
		var out strings.Builder
		heading := func(title string) {
			if format == Markdown {
				fmt.Fprintf(&out, "## %s\n\n", title)
			} else {
				fmt.Fprintf(&out, "%s\n%s\n", title, strings.Repeat("-", len(title)))
			}
		}
		heading("System")
		fmt.Fprintf(&out, "units: %d\nfields: %d\nedges: %d\n", report.Stats.Units, report.Stats.Fields, report.Stats.Edges)
		fmt.Fprintf(&out, "avg inputs: %.2f (max %d)\n", report.Stats.AvgInputs, report.Stats.MaxInputs)
		fmt.Fprintf(&out, "avg outputs: %.2f (max %d)\n", report.Stats.AvgOutputs, report.Stats.MaxOutputs)
		fmt.Fprintf(&out, "connected components: %d (assumed, not measured)\n\n", report.Components)

		heading("Most connected units")
		for _, unit := range report.TopUnits {
			fmt.Fprintf(&out, "%s: %d fields\n", unit.Unit, unit.Fields)
		}
		out.WriteString("\n")

		heading("Field distribution")
		for _, band := range report.Distribution {
			fmt.Fprintf(&out, "%s consumers: %d fields (%.1f%%)\n", band.Label, band.Count, band.Percent)
		}
		out.WriteString("\n")

		heading("Fragility")
		fmt.Fprintf(&out, "high-impact fields: %d\nrating: %s\n\n", report.HighImpactFields, report.Fragility)
		for i, action := range report.Actions {
			fmt.Fprintf(&out, "%d. %s\n", i+1, action)
		}
		return out.String(), nil
	}
}

func marshal(value any) (string, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// table renders header+rows as CSV or a markdown table.
func table(header []string, rows [][]string, format Format) (string, error) {
	if format == CSV {
		var out bytes.Buffer
		w := csv.NewWriter(&out)
		if err := w.Write(header); err != nil {
			return "", err
		}
		if err := w.WriteAll(rows); err != nil {
			return "", err
		}
		return out.String(), nil
	}
	var out strings.Builder
	out.WriteString("| " + strings.Join(header, " | ") + " |\n")
	out.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		out.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return out.String(), nil
}
