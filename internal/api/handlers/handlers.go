// Package handlers implements the portal's HTTP endpoints.
package handlers

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/docportal/docportal/pkg/analyzer"
	"github.com/docportal/docportal/pkg/chunker"
	"github.com/docportal/docportal/pkg/comparator"
	"github.com/docportal/docportal/pkg/config"
	"github.com/docportal/docportal/pkg/domain"
	"github.com/docportal/docportal/pkg/index"
	"github.com/docportal/docportal/pkg/loader"
	"github.com/docportal/docportal/pkg/prompt"
	"github.com/docportal/docportal/pkg/providers"
	"github.com/docportal/docportal/pkg/session"
)

// Deps bundles the services the handlers are constructed with. Everything
// is wired once at startup; handlers hold no mutable state of their own.
type Deps struct {
	Cfg        *config.Config
	Logger     *slog.Logger
	Gateway    *providers.Gateway
	Loader     *loader.Service
	Chunker    *chunker.Service
	Sessions   *session.Manager
	Locks      *session.Locks
	Indexes    *index.Manager
	Prompts    *prompt.Manager
	Analyzer   *analyzer.Service
	Comparator *comparator.Service
}

// combinePages renders page records the way the portal stores combined
// document text: a per-page header followed by the page body.
func combinePages(pages []domain.PageRecord) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, fmt.Sprintf(" --- Page %d --- \n%s", p.Page, p.Text))
	}
	return strings.Join(parts, "\n")
}
