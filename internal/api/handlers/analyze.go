package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/docportal/docportal/pkg/domain"
)

// Analyze accepts one uploaded document and returns its extracted
// metadata.
func (d *Deps) Analyze(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, d.Logger, "analysis",
			fmt.Errorf("%w: missing file upload: %v", domain.ErrInvalidInput, err))
		return
	}

	upload := newUpload(header)

	tmpDir, err := os.MkdirTemp("", "portal_analyze_")
	if err != nil {
		respondError(c, d.Logger, "analysis", err)
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	path, err := saveUpload(upload, tmpDir)
	if err != nil {
		respondError(c, d.Logger, "analysis", err)
		return
	}

	pages, err := d.Loader.Load(path)
	if err != nil {
		respondError(c, d.Logger, "analysis", err)
		return
	}
	if len(pages) == 0 {
		respondError(c, d.Logger, "analysis",
			fmt.Errorf("%w: document has no extractable text", domain.ErrInvalidInput))
		return
	}

	meta, err := d.Analyzer.Analyze(c.Request.Context(), combinePages(pages))
	if err != nil {
		respondError(c, d.Logger, "analysis", err)
		return
	}

	c.JSON(http.StatusOK, meta)
}
