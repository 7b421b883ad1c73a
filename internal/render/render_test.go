package render

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/dnamatch/internal/domain/search/result"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/state"
)

func tiger(score float64) result.Result {
	return result.New(result.HeaderInfo{
		PrimaryID: "MT001",
		Kingdom:   "Animalia",
		Phylum:    "Chordata",
		Class:     "Mammalia",
		Order:     "Carnivora",
		Family:    "Felidae",
		Genus:     "Panthera",
		Species:   "Panthera tigris",
	}, "ATGCATGCAA", score)
}

func TestRender_Idle(t *testing.T) {
	v := Render(state.Idle())
	if v.Kind != state.KindIdle || v.Prompt != PromptText {
		t.Errorf("view = %+v", v)
	}
	if len(v.Records) != 0 || v.Error != "" {
		t.Errorf("idle view carries data: %+v", v)
	}
}

func TestRender_Searching(t *testing.T) {
	v := Render(state.Searching("id"))
	if v.Kind != state.KindSearching || v.Progress != ProgressText {
		t.Errorf("view = %+v", v)
	}
	if len(v.Records) != 0 {
		t.Errorf("searching view has %d records", len(v.Records))
	}
}

func TestRender_FailedUsesMessageVerbatim(t *testing.T) {
	msg := "Error fetching results: Failed to fetch results (status 500)"
	v := Render(state.Failed("id", msg, errors.New("x")))
	if v.Kind != state.KindFailed || v.Error != msg {
		t.Errorf("view = %+v", v)
	}
	if len(v.Records) != 0 || v.ExecutionTime != "" {
		t.Errorf("failed view has results: %+v", v)
	}
}

func TestRender_EmptySuccess(t *testing.T) {
	v := Render(state.Succeeded("id", result.NewResponse(nil, 0.0)))
	if v.Kind != state.KindSuccess {
		t.Fatalf("Kind = %q", v.Kind)
	}
	if len(v.Records) != 0 {
		t.Errorf("records = %d, want 0", len(v.Records))
	}
	if v.ExecutionTime != "0.0" {
		t.Errorf("ExecutionTime = %q, want 0.0", v.ExecutionTime)
	}
}

func TestRender_ScoreFormatting(t *testing.T) {
	v := Render(state.Succeeded("id", result.NewResponse([]result.Result{tiger(0.873)}, 3.14159)))
	if len(v.Records) != 1 {
		t.Fatalf("records = %d", len(v.Records))
	}
	r := v.Records[0]
	if math.Abs(r.BarWidth-87.3) > 1e-9 {
		t.Errorf("BarWidth = %v, want 87.3", r.BarWidth)
	}
	if r.BarWidthCSS != "87.3%" {
		t.Errorf("BarWidthCSS = %q", r.BarWidthCSS)
	}
	if r.ScoreLabel != "87.3%" {
		t.Errorf("ScoreLabel = %q", r.ScoreLabel)
	}
	if v.ExecutionTime != "3.1" {
		t.Errorf("ExecutionTime = %q", v.ExecutionTime)
	}
}

func TestFormat_HalfwayRoundsUp(t *testing.T) {
	seconds := []struct {
		in   float64
		want string
	}{
		{0.25, "0.3"},
		{1.25, "1.3"},
		{2.25, "2.3"},
		{0.35, "0.3"}, // stored just below 0.35
		{1.2, "1.2"},
		{0, "0.0"},
		{-0.25, "-0.3"},
		{3.14159, "3.1"},
	}
	for _, tc := range seconds {
		if got := FormatSeconds(tc.in); got != tc.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}

	scores := []struct {
		in   float64
		want string
	}{
		{0.0025, "0.3%"},
		{0.873, "87.3%"},
		{0.95, "95.0%"},
		{1.2, "120.0%"},
	}
	for _, tc := range scores {
		if got := FormatPercent(tc.in); got != tc.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRender_ExecutionTimeHalfway(t *testing.T) {
	v := Render(state.Succeeded("id", result.NewResponse([]result.Result{tiger(0.0025)}, 1.25)))
	if v.ExecutionTime != "1.3" {
		t.Errorf("ExecutionTime = %q, want 1.3", v.ExecutionTime)
	}
	if v.Records[0].ScoreLabel != "0.3%" {
		t.Errorf("ScoreLabel = %q, want 0.3%%", v.Records[0].ScoreLabel)
	}
}

func TestRender_Scenario(t *testing.T) {
	v := Render(state.Succeeded("id", result.NewResponse([]result.Result{tiger(0.95)}, 1.2)))

	if v.ExecutionTime != "1.2" {
		t.Errorf("ExecutionTime = %q", v.ExecutionTime)
	}
	r := v.Records[0]
	if r.ScoreLabel != "95.0%" {
		t.Errorf("ScoreLabel = %q", r.ScoreLabel)
	}
	if r.Species != "Panthera tigris" || r.Family != "Felidae" || r.Genus != "Panthera" {
		t.Errorf("record = %+v", r)
	}
	if r.Sequence != "ATGCATGCAA" {
		t.Errorf("Sequence = %q", r.Sequence)
	}
	if r.LookupURL != "https://en.wikipedia.org/w/index.php?fulltext=1&search=Panthera+tigris" {
		t.Errorf("LookupURL = %q", r.LookupURL)
	}
	if len(r.Taxonomy) != 7 || r.Taxonomy[2].Label != "Class" || r.Taxonomy[2].Value != "Mammalia" {
		t.Errorf("Taxonomy = %+v", r.Taxonomy)
	}
}

func TestRender_KeepsServerOrder(t *testing.T) {
	low := result.New(result.HeaderInfo{Species: "low"}, "", 0.2)
	high := result.New(result.HeaderInfo{Species: "high"}, "", 0.9)
	v := Render(state.Succeeded("id", result.NewResponse([]result.Result{low, high}, 1)))

	if v.Records[0].Species != "low" || v.Records[1].Species != "high" {
		t.Errorf("order = %q, %q", v.Records[0].Species, v.Records[1].Species)
	}
	if v.Records[0].Rank != 1 || v.Records[1].Rank != 2 {
		t.Errorf("ranks = %d, %d", v.Records[0].Rank, v.Records[1].Rank)
	}
}

func TestRender_OutOfRangeScorePassesThrough(t *testing.T) {
	v := Render(state.Succeeded("id", result.NewResponse([]result.Result{tiger(1.25)}, 1)))
	r := v.Records[0]
	if r.ScoreLabel != "125.0%" || r.BarWidthCSS != "125%" {
		t.Errorf("record = %q / %q", r.ScoreLabel, r.BarWidthCSS)
	}
}

func TestLookupURL(t *testing.T) {
	tests := []struct {
		species string
		want    string
	}{
		{"Panthera tigris", "Panthera+tigris"},
		{"Panthera  tigris\tsumatrae", "Panthera+tigris+sumatrae"},
		{"", ""},
		{"Canis lupus & co", "Canis+lupus+%26+co"},
	}
	for _, tc := range tests {
		got := LookupURL(tc.species)
		if got != lookupBase+tc.want {
			t.Errorf("LookupURL(%q) = %q, want %q", tc.species, got, lookupBase+tc.want)
		}
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, ".........."},
		{50, "#####....."},
		{87.3, "#########."},
		{100, "##########"},
		{140, "##########"},
		{1e300, "##########"},
		{math.Inf(1), "##########"},
		{-1e300, ".........."},
		{-20, ".........."},
		{math.NaN(), ".........."},
	}
	for _, tc := range tests {
		if got := Bar(tc.percent, 10); got != tc.want {
			t.Errorf("Bar(%v) = %q, want %q", tc.percent, got, tc.want)
		}
	}
}

func TestWriteText(t *testing.T) {
	v := Render(state.Succeeded("id", result.NewResponse([]result.Result{tiger(0.95)}, 1.2)))

	var buf bytes.Buffer
	if err := WriteText(&buf, v, TextOptions{TrackWidth: 10, ShowSequence: true, ShowTaxonomy: true}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Execution time: 1.2 seconds",
		" 1. Panthera tigris",
		"Family: Felidae",
		"[##########] 95.0%",
		"Kingdom: Animalia",
		"ATGCATGCAA",
		"search=Panthera+tigris",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteText_States(t *testing.T) {
	tests := []struct {
		state state.State
		want  string
	}{
		{state.Idle(), PromptText},
		{state.Searching("id"), ProgressText},
		{state.Failed("", "DNA sequence cannot be empty", nil), "DNA sequence cannot be empty"},
		{state.Succeeded("id", result.NewResponse(nil, 0)), "No matches."},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		if err := WriteText(&buf, Render(tc.state), TextOptions{}); err != nil {
			t.Fatalf("WriteText: %v", err)
		}
		if !strings.Contains(buf.String(), tc.want) {
			t.Errorf("%s: output %q missing %q", tc.state.Kind(), buf.String(), tc.want)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriteText_ReportsWriteError(t *testing.T) {
	if err := WriteText(failingWriter{}, Render(state.Idle()), TextOptions{}); err == nil {
		t.Error("expected write error")
	}
}
