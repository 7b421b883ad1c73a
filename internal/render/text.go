package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/kailas-cloud/dnamatch/internal/domain/search/state"
)

// DefaultTrackWidth is the terminal bar length in cells.
const DefaultTrackWidth = 30

// TextOptions tunes terminal output.
type TextOptions struct {
	TrackWidth   int  // cells in the similarity bar, DefaultTrackWidth if <= 0
	ShowSequence bool // print each matched reference sequence
	ShowTaxonomy bool // print the full taxonomy detail panel
}

// WriteText draws v for a terminal.
func WriteText(w io.Writer, v View, opts TextOptions) error {
	track := opts.TrackWidth
	if track <= 0 {
		track = DefaultTrackWidth
	}
	p := &printer{w: w}

	switch v.Kind {
	case state.KindSearching:
		p.printf("%s\n", v.Progress)
	case state.KindFailed:
		p.printf("%s\n", v.Error)
	case state.KindSuccess:
		p.printf("Execution time: %s seconds\n", v.ExecutionTime)
		if len(v.Records) == 0 {
			p.printf("No matches.\n")
		}
		for _, r := range v.Records {
			p.printf("\n%2d. %s\n", r.Rank, r.Species)
			p.printf("    Family: %s\n", r.Family)
			p.printf("    Genus:  %s\n", r.Genus)
			p.printf("    [%s] %s\n", Bar(r.BarWidth, track), r.ScoreLabel)
			if opts.ShowTaxonomy {
				for _, t := range r.Taxonomy {
					p.printf("    %-8s %s\n", t.Label+":", t.Value)
				}
			}
			p.printf("    %s\n", r.LookupURL)
			if opts.ShowSequence {
				p.printf("    %s\n", r.Sequence)
			}
		}
	default:
		p.printf("%s\n", v.Prompt)
	}
	return p.err
}

// Bar draws a fixed-width bar filled in proportion to percent.
// Out-of-range values are clamped to the track for drawing only.
func Bar(percent float64, track int) string {
	if math.IsNaN(percent) {
		percent = 0
	}
	percent = max(0, min(100, percent))
	filled := int(math.Round(percent / 100 * float64(track)))
	filled = max(0, min(track, filled))
	return strings.Repeat("#", filled) + strings.Repeat(".", track-filled)
}

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
