package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/tickerdash/pkg/dash/pipeline"
	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// Renderer renders a dashboard result to an output writer.
type Renderer interface {
	Render(w io.Writer, res pipeline.Result, opts RenderOptions) error
}

type RenderOptions struct {
	Color      bool
	PrettyJSON bool
	// MaxColWidth wraps table cells; 0 means 40.
	MaxColWidth int
	// Width is the terminal width; 0 means unknown.
	Width int
	// ChartHeight is the plot height in rows; 0 means 15.
	ChartHeight int
}

// Output formats accepted by New.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatHTML  = "html"
	FormatPlain = "plain"
)

var Formats = []string{FormatTable, FormatJSON, FormatHTML, FormatPlain}

// New returns the renderer for an output format name.
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTable:
		return NewTableRenderer(), nil
	case FormatJSON:
		return NewJSONRenderer(), nil
	case FormatHTML:
		return NewHTMLRenderer(), nil
	case FormatPlain:
		return NewPlainRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// timeLayout picks how bar timestamps are labelled for an interval.
func timeLayout(i types.Interval) string {
	if i == types.Interval1d || i == "" {
		return "2006-01-02"
	}
	return "2006-01-02 15:04"
}
