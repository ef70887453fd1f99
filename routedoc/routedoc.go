// Package routedoc generates an OpenAPI document from the routing code and doc
// comments of a Go project.
package routedoc

import (
	"context"
	"fmt"

	"github.com/Zachacious/go-routedoc/internal/analyzer"
	"github.com/Zachacious/go-routedoc/internal/assembler"
	"github.com/Zachacious/go-routedoc/internal/config"
	"github.com/Zachacious/go-routedoc/internal/graph"
	"github.com/Zachacious/go-routedoc/internal/schema"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-hclog"
	"github.com/samber/lo"
)

// Generate analyzes the project at projectPath and assembles its document.
func Generate(ctx context.Context, projectPath string, cfg *config.Config, logger hclog.Logger) (*openapi3.T, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	a, err := analyzer.New(ctx, projectPath, cfg, logger.Named("analyzer"))
	if err != nil {
		return nil, err
	}
	g, err := a.BuildGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("building call graph: %w", err)
	}
	logger.Debug("call graph built", "nodes", g.Len())

	routes := graph.NewCollector(g, logger.Named("graph")).Collect()
	logger.Info("routes collected", "routes", len(routes))

	overrides := lo.MapValues(cfg.WellKnownTypes, func(t config.WellKnownType, _ string) schema.Fixed {
		return schema.Fixed{Type: t.Type, Format: t.Format, Nullable: t.Nullable}
	})
	gen := schema.New(a, overrides, logger.Named("schema"))

	doc, err := assembler.BuildSpec(routes, cfg, gen, logger.Named("assembler"))
	if err != nil {
		return nil, fmt.Errorf("assembling document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		logger.Warn("generated document does not validate", "error", err)
	}
	return doc, nil
}

// Write writes doc to path, choosing JSON or YAML from the extension.
func Write(doc *openapi3.T, path string) error {
	return assembler.Write(doc, path)
}
