package writing

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ChartDescriptor is the structured chart a generator may attach to a
// data-description question.
type ChartDescriptor struct {
	ChartType    string         `json:"chartType"`
	ChartData    map[string]any `json:"chartData"`
	ChartOptions map[string]any `json:"chartOptions,omitempty"`
}

var chartBlockRe = regexp.MustCompile("(?s)```json\\s*(.*?)```")

var chartSchemaDef = map[string]any{
	"type":     "object",
	"required": []any{"chartType", "chartData"},
	"properties": map[string]any{
		"chartType":    map[string]any{"type": "string"},
		"chartData":    map[string]any{"type": "object"},
		"chartOptions": map[string]any{"type": "object"},
	},
}

var (
	chartSchemaOnce sync.Once
	chartSchema     *jsonschema.Schema
	chartSchemaErr  error
)

func compiledChartSchema() (*jsonschema.Schema, error) {
	chartSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		const url = "schema://chart-descriptor.json"
		if err := c.AddResource(url, chartSchemaDef); err != nil {
			chartSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		chartSchema, chartSchemaErr = c.Compile(url)
	})
	return chartSchema, chartSchemaErr
}

// splitChart removes the first fenced json block from text and parses it.
// A block that fails to parse or validate is still removed; the chart is
// nil in that case.
func splitChart(text string) (string, *ChartDescriptor) {
	loc := chartBlockRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, nil
	}
	body := text[loc[2]:loc[3]]
	rest := text[:loc[0]] + text[loc[1]:]
	return rest, parseChart(body)
}

func parseChart(body string) *ChartDescriptor {
	var raw any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil
	}
	schema, err := compiledChartSchema()
	if err != nil {
		return nil
	}
	if err := schema.Validate(raw); err != nil {
		return nil
	}

	var chart ChartDescriptor
	if err := json.Unmarshal([]byte(body), &chart); err != nil {
		return nil
	}
	return &chart
}

// chartSeries is the labels + datasets shape used by every supported chart.
type chartSeries struct {
	Labels   []string
	Datasets []chartDataset
}

type chartDataset struct {
	Label string
	Data  []float64
}

func (c *ChartDescriptor) series() chartSeries {
	var s chartSeries
	if labels, ok := c.ChartData["labels"].([]any); ok {
		for _, l := range labels {
			s.Labels = append(s.Labels, fmt.Sprint(l))
		}
	}
	sets, _ := c.ChartData["datasets"].([]any)
	for _, raw := range sets {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		ds := chartDataset{}
		if l, ok := m["label"].(string); ok {
			ds.Label = l
		}
		values, _ := m["data"].([]any)
		for _, v := range values {
			f, _ := toFloat(v)
			ds.Data = append(ds.Data, f)
		}
		s.Datasets = append(s.Datasets, ds)
	}
	return s
}

// Title returns chartOptions.title when present.
func (c *ChartDescriptor) Title() string {
	if c == nil {
		return ""
	}
	if t, ok := c.ChartOptions["title"].(string); ok {
		return t
	}
	if p, ok := c.ChartOptions["plugins"].(map[string]any); ok {
		if t, ok := p["title"].(map[string]any); ok {
			if s, ok := t["text"].(string); ok {
				return s
			}
		}
	}
	return ""
}

// RenderChart draws the chart as plain text at most width columns wide.
// Unknown chart types render a notice instead of failing.
func RenderChart(c *ChartDescriptor, width int) string {
	if c == nil {
		return ""
	}
	if width < 30 {
		width = 30
	}

	var b strings.Builder
	if title := c.Title(); title != "" {
		b.WriteString(title)
		b.WriteString("\n\n")
	}

	s := c.series()
	switch strings.ToLower(c.ChartType) {
	case "bar":
		renderBars(&b, s, width)
	case "line":
		renderLine(&b, s)
	case "pie", "doughnut":
		renderPie(&b, s, width)
	default:
		fmt.Fprintf(&b, "Unsupported chart type: %s", c.ChartType)
	}
	return strings.TrimRight(b.String(), "\n")
}

func labelWidth(labels []string) int {
	w := 0
	for _, l := range labels {
		w = max(w, len([]rune(l)))
	}
	return min(w, 18)
}

func padLabel(l string, w int) string {
	r := []rune(l)
	if len(r) > w {
		return string(r[:w])
	}
	return l + strings.Repeat(" ", w-len(r))
}

// barLen scales part/whole onto [0, barMax] cells.
func barLen(part, whole float64, barMax int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return min(int(part/whole*float64(barMax)), barMax)
}

// Negative values are drawn with a lighter glyph, scaled by magnitude.
func renderBars(b *strings.Builder, s chartSeries, width int) {
	lw := labelWidth(s.Labels)
	peak := 0.0
	for _, ds := range s.Datasets {
		for _, v := range ds.Data {
			peak = max(peak, math.Abs(v))
		}
	}
	barMax := max(width-lw-12, 1)
	for _, ds := range s.Datasets {
		if ds.Label != "" && len(s.Datasets) > 1 {
			b.WriteString(ds.Label)
			b.WriteString("\n")
		}
		for i, label := range s.Labels {
			v := 0.0
			if i < len(ds.Data) {
				v = ds.Data[i]
			}
			glyph := "█"
			if v < 0 {
				glyph = "░"
			}
			bar := strings.Repeat(glyph, barLen(math.Abs(v), peak, barMax))
			fmt.Fprintf(b, "%s │%s %s\n", padLabel(label, lw), bar, formatValue(v))
		}
		b.WriteString("\n")
	}
}

func renderLine(b *strings.Builder, s chartSeries) {
	lw := labelWidth(s.Labels)
	fmt.Fprintf(b, "%s", padLabel("", lw))
	for _, ds := range s.Datasets {
		fmt.Fprintf(b, "  %10s", padLabel(ds.Label, 10))
	}
	b.WriteString("\n")
	for i, label := range s.Labels {
		b.WriteString(padLabel(label, lw))
		for _, ds := range s.Datasets {
			v := 0.0
			if i < len(ds.Data) {
				v = ds.Data[i]
			}
			fmt.Fprintf(b, "  %10s", formatValue(v))
		}
		b.WriteString("\n")
	}
}

func renderPie(b *strings.Builder, s chartSeries, width int) {
	if len(s.Datasets) == 0 {
		return
	}
	ds := s.Datasets[0]
	// A slice cannot be negative; such values count as empty.
	total := 0.0
	for _, v := range ds.Data {
		total += max(v, 0)
	}
	lw := labelWidth(s.Labels)
	barMax := max(width-lw-12, 1)
	for i, label := range s.Labels {
		v := 0.0
		if i < len(ds.Data) {
			v = max(ds.Data[i], 0)
		}
		pct := 0.0
		if total > 0 {
			pct = v / total * 100
		}
		bar := strings.Repeat("▒", barLen(v, total, barMax))
		fmt.Fprintf(b, "%s │%s %.1f%%\n", padLabel(label, lw), bar, pct)
	}
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
