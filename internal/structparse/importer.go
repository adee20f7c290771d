package structparse

import (
	"go/ast"
	"path"
	"strconv"
	"strings"
)

// extractImports 提取文件中的导入信息
// 未显式指定别名时以路径最后一段作为引用名，去掉 gopkg.in 风格的 .vN 后缀与 go- 前缀
func extractImports(file *ast.File) []ImportInfo {
	var imports []ImportInfo
	for _, imp := range file.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		info := ImportInfo{ImportPath: importPath}
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			info.Alias = imp.Name.Name
			info.PackageName = imp.Name.Name
		} else {
			info.PackageName = guessPackageName(importPath)
		}
		imports = append(imports, info)
	}
	return imports
}

// guessPackageName 根据导入路径推测包名
func guessPackageName(importPath string) string {
	name := path.Base(importPath)
	// github.com/Masterminds/sprig/v3 -> sprig
	if len(name) > 1 && name[0] == 'v' && strings.Trim(name[1:], "0123456789") == "" {
		name = path.Base(path.Dir(importPath))
	}
	// gopkg.in/yaml.v3 -> yaml
	if i := strings.Index(name, ".v"); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.ReplaceAll(name, "-", "")
}
