// Package render maps search lifecycle state to display data.
package render

import (
	"math"
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/dnamatch/internal/domain/search/result"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/state"
)

// Display texts.
const (
	PromptText   = `Enter the DNA sequence and K value, then click the "Search Animal" button to see the results.`
	ProgressText = "Analyzing DNA sequence..."
)

const lookupBase = "https://en.wikipedia.org/w/index.php?fulltext=1&search="

// View is everything a UI needs to draw the results area.
type View struct {
	Kind          state.Kind `json:"state"`
	Prompt        string     `json:"prompt,omitempty"`
	Progress      string     `json:"progress,omitempty"`
	Error         string     `json:"error,omitempty"`
	ExecutionTime string     `json:"execution_time,omitempty"`
	Records       []Record   `json:"results,omitempty"`
}

// Record is the display form of one candidate match.
type Record struct {
	Rank        int     `json:"rank"`
	Species     string  `json:"species"`
	Family      string  `json:"family"`
	Genus       string  `json:"genus"`
	Taxonomy    []Rank  `json:"taxonomy"`
	BarWidth    float64 `json:"bar_width"`
	BarWidthCSS string  `json:"bar_width_css"`
	ScoreLabel  string  `json:"score_label"`
	Sequence    string  `json:"sequence"`
	LookupURL   string  `json:"lookup_url"`
	PrimaryID   string  `json:"primary_id,omitempty"`
	OtherInfo   string  `json:"other_info,omitempty"`
}

// Rank is one labelled line of the taxonomy detail panel.
type Rank struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Render builds the view for s. It has no side effects.
func Render(s state.State) View {
	switch s.Kind() {
	case state.KindSearching:
		return View{Kind: state.KindSearching, Progress: ProgressText}
	case state.KindFailed:
		return View{Kind: state.KindFailed, Error: s.Message()}
	case state.KindSuccess:
		resp, _ := s.Response()
		return success(resp)
	default:
		return View{Kind: state.KindIdle, Prompt: PromptText}
	}
}

func success(resp result.Response) View {
	records := make([]Record, 0, resp.Len())
	for i, r := range resp.Results() {
		records = append(records, NewRecord(i+1, r))
	}
	return View{
		Kind:          state.KindSuccess,
		ExecutionTime: FormatSeconds(resp.ExecutionTime()),
		Records:       records,
	}
}

// NewRecord builds the display record for the candidate at 1-based rank.
func NewRecord(rank int, r result.Result) Record {
	h := r.Header()
	width := Percent(r.SimilarityScore())
	return Record{
		Rank:    rank,
		Species: h.Species,
		Family:  h.Family,
		Genus:   h.Genus,
		Taxonomy: []Rank{
			{Label: "Kingdom", Value: h.Kingdom},
			{Label: "Phylum", Value: h.Phylum},
			{Label: "Class", Value: h.Class},
			{Label: "Order", Value: h.Order},
			{Label: "Family", Value: h.Family},
			{Label: "Genus", Value: h.Genus},
			{Label: "Species", Value: h.Species},
		},
		BarWidth:    width,
		BarWidthCSS: strconv.FormatFloat(math.Round(width*1e6)/1e6, 'f', -1, 64) + "%",
		ScoreLabel:  FormatPercent(r.SimilarityScore()),
		Sequence:    r.Sequence(),
		LookupURL:   LookupURL(h.Species),
		PrimaryID:   h.PrimaryID,
		OtherInfo:   h.OtherInfo,
	}
}

// Percent converts a similarity fraction to a percentage without clamping.
func Percent(score float64) float64 {
	return score * 100
}

// FormatPercent renders a similarity fraction as "87.3%".
func FormatPercent(score float64) string {
	return formatTenths(Percent(score)) + "%"
}

// FormatSeconds renders an execution time with one decimal place.
func FormatSeconds(seconds float64) string {
	return formatTenths(seconds)
}

// formatTenths formats v with one decimal place. A value exactly halfway
// between two tenths rounds away from zero, so 0.25 gives "0.3".
func formatTenths(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}

	// v is a tie iff 20*|v| is an odd integer. 128 bits hold the product exactly.
	twenty := new(big.Float).SetPrec(128).SetFloat64(math.Abs(v))
	twenty.Mul(twenty, big.NewFloat(20))
	if !twenty.IsInt() {
		return s
	}
	n, _ := twenty.Int(nil)
	if n.Bit(0) == 0 {
		return s
	}

	tenths := n.Add(n, big.NewInt(1))
	tenths.Rsh(tenths, 1)
	whole, frac := new(big.Int).QuoRem(tenths, big.NewInt(10), new(big.Int))
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + whole.String() + "." + frac.String()
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// LookupURL builds the encyclopedia search link for a species name.
// Whitespace runs become '+'; everything else is query-escaped.
func LookupURL(species string) string {
	parts := whitespaceRun.Split(species, -1)
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return lookupBase + strings.Join(parts, "+")
}
