package structparse

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/donutnomad/unwrapgen/internal/xast"
)

// ParseStruct 解析指定文件中的结构体
func ParseStruct(filename, structName string) (*StructInfo, error) {
	return ParseStructSource(filename, nil, structName)
}

// ParseStructSource 解析给定源码中的结构体，src 为 nil 时读取 filename
func ParseStructSource(filename string, src any, structName string) (*StructInfo, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("解析文件失败: %w", err)
	}

	typeSpec, genDecl := findTypeSpec(node, structName)
	if typeSpec == nil {
		return nil, fmt.Errorf("未找到结构体 %s", structName)
	}
	structType, ok := typeSpec.Type.(*ast.StructType)
	if !ok {
		return nil, fmt.Errorf("类型 %s 不是结构体", structName)
	}

	structInfo := &StructInfo{
		Name:        structName,
		PackageName: node.Name.Name,
		FilePath:    filename,
		Doc:         docText(typeSpec.Doc, genDecl),
		TypeParams:  parseTypeParams(typeSpec.TypeParams),
		Imports:     extractImports(node),
	}
	structInfo.Fields = parseStructFields(structType.Fields)

	return structInfo, nil
}

// findTypeSpec 查找目标类型声明
func findTypeSpec(file *ast.File, name string) (*ast.TypeSpec, *ast.GenDecl) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			if typeSpec, ok := spec.(*ast.TypeSpec); ok && typeSpec.Name.Name == name {
				return typeSpec, genDecl
			}
		}
	}
	return nil, nil
}

// docText 优先使用 TypeSpec 上的注释，单独声明时注释挂在 GenDecl 上
func docText(specDoc *ast.CommentGroup, decl *ast.GenDecl) string {
	if specDoc != nil {
		return specDoc.Text()
	}
	if decl != nil && decl.Doc != nil {
		return decl.Doc.Text()
	}
	return ""
}

// parseTypeParams 展开 [K, V any] 形式的泛型参数
func parseTypeParams(list *ast.FieldList) []TypeParam {
	if list == nil {
		return nil
	}
	var params []TypeParam
	for _, field := range list.List {
		constraint := xast.GetFieldType(field.Type)
		for _, name := range field.Names {
			params = append(params, TypeParam{Name: name.Name, Constraint: constraint})
		}
	}
	return params
}
