package unwrapgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
)

// render 逐个渲染声明，声明之间空一行
// jen 渲染时会 gofmt，语法错误在此暴露为生成错误
func render(decls []*jen.Statement) (string, error) {
	var sb strings.Builder
	for i, decl := range decls {
		var buf bytes.Buffer
		if err := decl.Render(&buf); err != nil {
			return "", fmt.Errorf("渲染生成代码失败: %w", err)
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.TrimSpace(buf.String()))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
