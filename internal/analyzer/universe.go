package analyzer

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/Zachacious/go-routedoc/internal/model"
	"golang.org/x/tools/go/packages"
)

// sourceFile is one parsed file of a loaded package.
type sourceFile struct {
	path string
	ast  *ast.File
	pkg  *packages.Package
}

func (f *sourceFile) info() *types.Info { return f.pkg.TypesInfo }

func (f *sourceFile) fset() *token.FileSet { return f.pkg.Fset }

// coords returns the byte range of n within the file.
func (f *sourceFile) coords(n ast.Node) model.Coords {
	return model.Coords{
		File:  f.path,
		Start: f.fset().Position(n.Pos()).Offset,
		End:   f.fset().Position(n.End()).Offset,
	}
}

// funcDecl is a function or method declared in the loaded packages.
type funcDecl struct {
	decl   *ast.FuncDecl
	file   *sourceFile
	coords model.Coords
}

// Universe contains every top-level function declaration of the project, keyed
// by its types.Object.
type Universe struct {
	Functions map[types.Object]*funcDecl
}

// discoverUniverse records every function and method declaration.
func (a *Analyzer) discoverUniverse() {
	a.universe = &Universe{Functions: make(map[types.Object]*funcDecl)}
	for _, f := range a.files {
		for _, decl := range f.ast.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok {
				a.registerFunction(f, fn)
			}
		}
	}
	a.logger.Debug("discovered project universe", "functions", len(a.universe.Functions), "files", len(a.files))
}

func (a *Analyzer) registerFunction(f *sourceFile, fn *ast.FuncDecl) {
	if fn.Name == nil || fn.Body == nil {
		return
	}
	obj := f.info().Defs[fn.Name]
	if obj == nil {
		return
	}
	a.universe.Functions[obj] = &funcDecl{decl: fn, file: f, coords: f.coords(fn)}
}

// lookupFunc returns the declaration of a project function or method.
func (a *Analyzer) lookupFunc(obj types.Object) (*funcDecl, bool) {
	if obj == nil {
		return nil, false
	}
	fd, ok := a.universe.Functions[obj]
	return fd, ok
}

// funcDocs parses the doc comment of a declaration.
func (a *Analyzer) funcDocs(fd *funcDecl) []model.Field {
	if fd.decl.Doc == nil {
		return nil
	}
	return a.parser.Parse(fd.decl.Doc.Text(), fd.file.pkg.PkgPath)
}
