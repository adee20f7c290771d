// Package xast 提供生成器共用的 AST 辅助函数
package xast

import (
	"go/ast"
	"go/parser"
	"go/types"

	"github.com/samber/lo"
)

// OptionTypeName 可选类型约定的类型名，如 mo.Option[T]
const OptionTypeName = "Option"

// GetFieldType 返回字段类型表达式的源码文本
func GetFieldType(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	return types.ExprString(expr)
}

// ParseType 将类型文本解析为表达式
func ParseType(typ string) (ast.Expr, error) {
	return parser.ParseExpr(typ)
}

// OptionInfo 描述一个 Option[T] 类型
type OptionInfo struct {
	Qualifier string // 包限定符，如 mo；未限定时为空
	Inner     string // 内部类型文本
}

// AsOption 判断类型文本是否为单参数的 Option 泛型
// 只匹配最后一段名称，与导入别名无关
func AsOption(typ string) (OptionInfo, bool) {
	expr, err := ParseType(typ)
	if err != nil {
		return OptionInfo{}, false
	}
	return AsOptionExpr(expr)
}

// AsOptionExpr 同 AsOption，直接作用于表达式
func AsOptionExpr(expr ast.Expr) (OptionInfo, bool) {
	idx, ok := expr.(*ast.IndexExpr)
	if !ok {
		return OptionInfo{}, false
	}
	switch x := idx.X.(type) {
	case *ast.Ident:
		if x.Name == OptionTypeName {
			return OptionInfo{Inner: GetFieldType(idx.Index)}, true
		}
	case *ast.SelectorExpr:
		pkg, ok := x.X.(*ast.Ident)
		if ok && x.Sel.Name == OptionTypeName {
			return OptionInfo{Qualifier: pkg.Name, Inner: GetFieldType(idx.Index)}, true
		}
	}
	return OptionInfo{}, false
}

// IsSlice 类型文本是否为切片
func IsSlice(typ string) bool {
	expr, err := ParseType(typ)
	if err != nil {
		return false
	}
	arr, ok := expr.(*ast.ArrayType)
	return ok && arr.Len == nil
}

// IsMap 类型文本是否为 map
func IsMap(typ string) bool {
	expr, err := ParseType(typ)
	if err != nil {
		return false
	}
	_, ok := expr.(*ast.MapType)
	return ok
}

// Qualifiers 收集表达式中出现的包限定符（pkg.Name 中的 pkg）
// 文本无法解析时返回 nil
func Qualifiers(src string) []string {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil
	}
	var out []string
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok {
			out = append(out, id.Name)
		}
		return true
	})
	return lo.Uniq(out)
}
