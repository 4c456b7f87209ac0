package render

import (
	"encoding/json"
	"io"

	"github.com/komsit37/tickerdash/pkg/dash/pipeline"
)

// JSONRenderer writes the whole result (status, message, warnings and
// dashboard) as one JSON document.
type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, res pipeline.Result, opts RenderOptions) error {
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}
