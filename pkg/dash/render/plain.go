package render

import (
	"fmt"
	"io"

	"github.com/komsit37/tickerdash/pkg/dash/pipeline"
)

// plainRenderer prints one tab-separated "table, label, value" line per
// metric, for scripts and grep.
type plainRenderer struct{}

func NewPlainRenderer() Renderer {
	return plainRenderer{}
}

func (plainRenderer) Render(w io.Writer, res pipeline.Result, _ RenderOptions) error {
	if !res.OK() {
		return nil
	}
	for _, t := range res.Dashboard.Tables {
		for _, r := range t.Rows {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, r.Label, r.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
