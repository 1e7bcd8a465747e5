// Package noexit reports calls that terminate the process where an error
// should be returned instead.
package noexit

import (
	"go/ast"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzer flags os.Exit inside main.main, where it skips deferred storage
// shutdown, and any os.Exit or log.Fatal* call in non-main packages.
var Analyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "prohibits os.Exit in main.main and process exits in library packages",
	Run:  run,
}

var logExits = map[string]bool{
	"Fatal":   true,
	"Fatalf":  true,
	"Fatalln": true,
}

func exitKind(pass *analysis.Pass, call *ast.CallExpr) string {
	fn := typeutil.StaticCallee(pass.TypesInfo, call)
	if fn == nil || fn.Pkg() == nil {
		return ""
	}

	switch {
	case fn.Pkg().Path() == "os" && fn.Name() == "Exit":
		return "os.Exit"
	case fn.Pkg().Path() == "log" && logExits[fn.Name()]:
		return "log." + fn.Name()
	}

	return ""
}

func run(pass *analysis.Pass) (interface{}, error) {
	isMain := pass.Pkg.Name() == "main"

	for _, file := range pass.Files {
		filename := pass.Fset.File(file.Pos()).Name()
		if isGoBuildCacheFile(filename) || strings.HasSuffix(filename, "_test.go") {
			continue
		}

		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Body == nil {
				continue
			}
			inMainFunc := isMain && fn.Name.Name == "main" && fn.Recv == nil

			ast.Inspect(fn.Body, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}

				kind := exitKind(pass, call)
				switch {
				case kind == "":
				case inMainFunc && kind == "os.Exit":
					pass.Reportf(call.Pos(), "avoid using os.Exit in main.main")
				case !isMain:
					pass.Reportf(call.Pos(), "%s in library code, return an error instead", kind)
				}

				return true
			})
		}
	}

	return nil, nil
}

func isGoBuildCacheFile(path string) bool {
	path = filepath.ToSlash(path)
	return strings.Contains(path, "/go-build/")
}
