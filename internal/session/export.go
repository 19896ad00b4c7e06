package session

import (
	"context"

	"github.com/philipparndt/guideline/pkg/annotation"
)

// FileExporter writes the document to a fixed path
type FileExporter struct {
	Path string
}

// Export writes doc as JSON to the exporter's path
func (e FileExporter) Export(ctx context.Context, doc annotation.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return annotation.SaveDocument(e.Path, doc)
}
