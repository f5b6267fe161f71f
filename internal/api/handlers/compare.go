package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docportal/docportal/pkg/domain"
)

// comparisonSubdir keeps comparison sessions apart from chat sessions
// under the upload base.
const comparisonSubdir = "document_comparison"

// Compare saves a reference and an actual document into a fresh
// comparison session, diffs their text through the generator, and prunes
// old comparison sessions.
func (d *Deps) Compare(c *gin.Context) {
	refHeader, err := c.FormFile("reference")
	if err != nil {
		respondError(c, d.Logger, "comparison",
			fmt.Errorf("%w: missing reference upload: %v", domain.ErrInvalidInput, err))
		return
	}
	actHeader, err := c.FormFile("actual")
	if err != nil {
		respondError(c, d.Logger, "comparison",
			fmt.Errorf("%w: missing actual upload: %v", domain.ErrInvalidInput, err))
		return
	}

	reference := newUpload(refHeader)
	actual := newUpload(actHeader)
	for _, u := range []domain.UploadedFile{reference, actual} {
		if !strings.HasSuffix(strings.ToLower(u.Name()), ".pdf") {
			respondError(c, d.Logger, "comparison",
				fmt.Errorf("%w: comparison accepts PDF files only, got %s", domain.ErrUnsupportedFormat, u.Name()))
			return
		}
	}

	base := d.comparisonBase()
	sessionID, sessionDir, err := d.Sessions.Resolve(base, "", true)
	if err != nil {
		respondError(c, d.Logger, "comparison", err)
		return
	}

	texts := make([]string, 0, 2)
	for _, u := range []domain.UploadedFile{reference, actual} {
		path, err := saveUpload(u, sessionDir)
		if err != nil {
			respondError(c, d.Logger, "comparison", err)
			return
		}
		pages, err := d.Loader.Load(path)
		if err != nil {
			respondError(c, d.Logger, "comparison", err)
			return
		}
		texts = append(texts, fmt.Sprintf("Document: %s\n%s", u.Name(), combinePages(pages)))
	}

	rows, err := d.Comparator.Compare(c.Request.Context(), texts[0], texts[1])
	if err != nil {
		respondError(c, d.Logger, "comparison", err)
		return
	}
	if rows == nil {
		rows = []domain.ComparisonRow{}
	}

	if err := d.Sessions.Prune(base, d.Cfg.Sessions.KeepLatest); err != nil {
		d.Logger.Warn("pruning comparison sessions failed", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":       rows,
		"session_id": sessionID,
	})
}

func (d *Deps) comparisonBase() string {
	return filepath.Join(d.Cfg.Storage.UploadBase, comparisonSubdir)
}
