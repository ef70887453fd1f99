// Package analyzer loads Go packages and turns routing call sites, handler
// bodies and their comments into call graph nodes.
package analyzer

import (
	"context"
	"fmt"
	"go/ast"
	"os"
	"runtime"
	"sort"

	"github.com/Zachacious/go-routedoc/internal/config"
	"github.com/Zachacious/go-routedoc/internal/doccomment"
	"github.com/Zachacious/go-routedoc/internal/graph"
	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedDeps | packages.NeedTypes |
	packages.NeedSyntax | packages.NeedTypesInfo

// Analyzer holds the loaded packages and everything derived from them that is
// shared by the per-file scans. It is read-only once New returns.
type Analyzer struct {
	projectPath string
	cfg         *config.Config
	logger      hclog.Logger
	parser      *doccomment.Parser

	pkgs     []*packages.Package
	files    []*sourceFile
	universe *Universe
	types    *typeIndex
	routers  []*ResolvedType
}

// New loads the packages of the project at projectPath. Failing to load is
// fatal; errors inside individual packages are logged and analysis continues
// with whatever type information is available.
func New(ctx context.Context, projectPath string, cfg *config.Config, logger hclog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	a := &Analyzer{
		projectPath: projectPath,
		cfg:         cfg,
		logger:      logger,
		parser:      doccomment.NewParser(logger.Named("doccomment")),
	}

	patterns := cfg.Packages
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	pkgs, err := packages.Load(&packages.Config{Context: ctx, Dir: projectPath, Mode: loadMode}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found in %s", projectPath)
	}
	if err := packageErrors(pkgs); err != nil {
		logger.Warn("packages contain errors, results may be incomplete", "error", err)
	}
	a.pkgs = pkgs

	a.collectFiles()
	a.indexTypes()
	if err := a.resolveConfigTypes(); err != nil {
		return nil, err
	}
	a.discoverUniverse()
	return a, nil
}

func packageErrors(pkgs []*packages.Package) error {
	var result *multierror.Error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, err := range pkg.Errors {
			result = multierror.Append(result, err)
		}
	})
	return result.ErrorOrNil()
}

// collectFiles lists the syntax of the root packages in a stable order.
func (a *Analyzer) collectFiles() {
	for _, pkg := range a.pkgs {
		if pkg.TypesInfo == nil {
			continue
		}
		for i, file := range pkg.Syntax {
			if file == nil || i >= len(pkg.CompiledGoFiles) {
				continue
			}
			a.files = append(a.files, &sourceFile{path: pkg.CompiledGoFiles[i], ast: file, pkg: pkg})
		}
	}
	sort.Slice(a.files, func(i, j int) bool { return a.files[i].path < a.files[j].path })
}

// BuildGraph scans every file concurrently and links the results once all
// scans have finished.
func (a *Analyzer) BuildGraph(ctx context.Context) (*graph.Graph, error) {
	results := make([]*graph.FileGraph, len(a.files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range a.files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(f.path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.path, err)
			}
			results[i] = graph.BuildFile(f.path, a.scanFile(f, src))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := graph.NewBuilder(a.logger.Named("graph"))
	for _, fg := range results {
		if err := b.Add(fg); err != nil {
			return nil, err
		}
	}
	return b.Link(), nil
}

// scanFile walks one file depth first and returns the nodes it declares.
func (a *Analyzer) scanFile(f *sourceFile, src []byte) []model.Node {
	s := newFileScan(a, f, src)
	var stack []ast.Node
	ast.Inspect(f.ast, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		stack = append(stack, n)

		switch n := n.(type) {
		case *ast.FuncDecl:
			s.enterFunc(n)
		case *ast.AssignStmt:
			s.trackAssign(n, stack)
		case *ast.ValueSpec:
			s.trackValueSpec(n, stack)
		case *ast.CallExpr:
			s.visitCall(n, stack)
		}
		return true
	})
	a.logger.Trace("scanned file", "file", f.path, "nodes", len(s.nodes))
	return s.nodes
}

func (s *fileScan) visitCall(call *ast.CallExpr, stack []ast.Node) {
	if sel, _, kind := s.routerMethod(call); kind != methodUnknown {
		s.processRouteCall(call, sel, kind, stack)
		return
	}
	if s.processHandlerCall(call, stack) {
		return
	}
	s.processHelperCall(call, stack)
}

// processHelperCall emits a Function node for calls passing a router to a
// function declared in the loaded packages, such as registerUsers(r).
func (s *fileScan) processHelperCall(call *ast.CallExpr, stack []ast.Node) {
	arg, ok := s.hasRouterArg(call)
	if !ok {
		return
	}
	fd, ok := s.a.lookupFunc(objectOf(s.info, call.Fun))
	if !ok {
		return
	}
	sc := s.scopeOf(arg)
	s.emit(&model.Function{
		At:       s.file.coords(call),
		Decl:     fd.coords,
		Name:     fd.decl.Name.Name,
		Docs:     model.Merge(s.docsAt(stack), sc.scopeFields()),
		Detached: s.detached(sc),
	})
}
