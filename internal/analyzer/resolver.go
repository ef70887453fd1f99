package analyzer

import (
	"errors"
	"go/types"
	"sort"
	"strings"

	"github.com/Zachacious/go-routedoc/internal/config"
	"github.com/Zachacious/go-routedoc/internal/model"
	"github.com/hashicorp/go-set/v3"
	"golang.org/x/tools/go/packages"
)

// ResolvedType is a router type from the config resolved to its canonical
// go/types object.
type ResolvedType struct {
	Object     *types.TypeName
	Definition *config.RouterDefinition
}

// typeIndex finds named types across the whole package graph by qualified name,
// by short name and by package name plus short name.
type typeIndex struct {
	byName  map[string]*types.TypeName
	byShort map[string][]string
}

// resolveConfigTypes resolves the router types named in the config.
func (a *Analyzer) resolveConfigTypes() error {
	for i := range a.cfg.RouterDefinitions {
		def := &a.cfg.RouterDefinitions[i]
		name := strings.TrimPrefix(def.Type, "*")
		tn, ok := a.types.byName[name]
		if !ok {
			a.logger.Debug("router type not found in the loaded packages", "type", def.Type)
			continue
		}
		a.logger.Debug("resolved router type", "type", def.Type)
		a.routers = append(a.routers, &ResolvedType{Object: tn, Definition: def})
	}
	if len(a.routers) == 0 {
		return errors.New("could not resolve any router types from config; check routerDefinitions and that the router package is a dependency")
	}
	return nil
}

// indexTypes walks the package import graph depth first and records every
// package level named type.
func (a *Analyzer) indexTypes() {
	a.types = &typeIndex{
		byName:  make(map[string]*types.TypeName),
		byShort: make(map[string][]string),
	}
	visited := set.New[*packages.Package](len(a.pkgs))
	var walk func(pkg *packages.Package)
	walk = func(pkg *packages.Package) {
		if !visited.Insert(pkg) {
			return
		}
		if pkg.Types != nil {
			a.types.addScope(pkg.Types)
		}
		paths := make([]string, 0, len(pkg.Imports))
		for path := range pkg.Imports {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			walk(pkg.Imports[path])
		}
	}
	for _, pkg := range a.pkgs {
		walk(pkg)
	}
}

func (idx *typeIndex) addScope(pkg *types.Package) {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		qualified := pkg.Path() + "." + name
		if _, seen := idx.byName[qualified]; seen {
			continue
		}
		idx.byName[qualified] = tn
		idx.byShort[name] = append(idx.byShort[name], qualified)
		short := pkg.Name() + "." + name
		if short != qualified {
			idx.byShort[short] = append(idx.byShort[short], qualified)
		}
	}
}

// LookupType resolves a type name written in documentation. Qualified names
// match exactly; otherwise a unique match on the unqualified or package
// qualified short name is accepted.
func (a *Analyzer) LookupType(name string) (types.Type, bool) {
	if tn, ok := a.types.byName[name]; ok {
		return tn.Type(), true
	}

	candidates := a.types.byShort[name]
	if len(candidates) == 0 && strings.Contains(name, "/") {
		candidates = a.types.byShort[model.ShortName(name)]
	}
	switch len(candidates) {
	case 0:
		return nil, false
	case 1:
		return a.types.byName[candidates[0]].Type(), true
	}
	a.logger.Warn("ambiguous type name", "type", name, "candidates", candidates)
	return nil, false
}

// routerDef returns the router definition matching t, ignoring pointers.
func (a *Analyzer) routerDef(t types.Type) *config.RouterDefinition {
	if t == nil {
		return nil
	}
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil
	}
	obj := named.Origin().Obj()
	for _, r := range a.routers {
		if r.Object == obj {
			return r.Definition
		}
	}
	return nil
}
