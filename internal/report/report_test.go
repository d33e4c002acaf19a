package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/runway/internal/config"
	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
	"github.com/theirongolddev/runway/internal/source"
)

func testRun(t *testing.T) *pipeline.RunResult {
	t.Helper()
	history := source.SeedHistory()
	history[1].FundingRound = model.FundingSeed
	run, err := pipeline.Run(pipeline.Request{
		StartupID:      "acme",
		History:        history,
		Initial:        model.InitialState{Users: 100, Cash: 10000, MarketSize: 100000, TeamSize: 3},
		ForecastMonths: 6,
		Sim:            config.DefaultSimulation(),
	})
	if err != nil {
		t.Fatalf("pipeline.Run() error: %v", err)
	}
	return run
}

func TestMarkdown(t *testing.T) {
	run := testRun(t)
	md := Markdown(run, "Acme outlook")

	for _, want := range []string{
		"# Acme outlook",
		"## Key metrics",
		"| Final users |",
		"## Historical months",
		"## Forecast months",
		"_Forecast 1_",
		"+$500,000",
		"## Quarters",
		run.RunID,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestHTML_RendersTables(t *testing.T) {
	html, err := HTML(Markdown(testRun(t), "A <b> title"), "A <b> title")
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Error("HTML output has no <table>; GFM tables not enabled")
	}
	if !strings.Contains(html, "<title>A &lt;b&gt; title</title>") {
		t.Error("title not escaped")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	run := testRun(t)

	mdPath := filepath.Join(dir, "out.md")
	if err := WriteFile(mdPath, run, ""); err != nil {
		t.Fatalf("WriteFile(md) error: %v", err)
	}
	data, _ := os.ReadFile(mdPath)
	if !strings.HasPrefix(string(data), "# Growth Simulation") {
		t.Errorf("md file starts with %q", string(data[:20]))
	}

	htmlPath := filepath.Join(dir, "out.html")
	if err := WriteFile(htmlPath, run, "x"); err != nil {
		t.Fatalf("WriteFile(html) error: %v", err)
	}
	data, _ = os.ReadFile(htmlPath)
	if !strings.HasPrefix(string(data), "<!doctype html>") {
		t.Error("html file is not an HTML document")
	}
}
