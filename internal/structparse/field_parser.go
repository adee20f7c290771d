package structparse

import (
	"go/ast"
	"strings"

	"github.com/donutnomad/unwrapgen/internal/xast"
)

// parseStructFields 按声明顺序解析字段
func parseStructFields(fieldList *ast.FieldList) []FieldInfo {
	if fieldList == nil {
		return nil
	}

	var fields []FieldInfo
	for _, field := range fieldList.List {
		fieldType := xast.GetFieldType(field.Type)

		var fieldTag string
		if field.Tag != nil {
			fieldTag = field.Tag.Value
		}

		var doc string
		if field.Doc != nil {
			doc = strings.TrimSpace(field.Doc.Text())
		}

		if len(field.Names) == 0 {
			// 匿名字段 (嵌入字段)
			fields = append(fields, FieldInfo{
				Name:     embeddedName(fieldType),
				Type:     fieldType,
				Tag:      fieldTag,
				Embedded: true,
				Doc:      doc,
			})
			continue
		}

		for _, name := range field.Names {
			fields = append(fields, FieldInfo{
				Name: name.Name,
				Type: fieldType,
				Tag:  fieldTag,
				Doc:  doc,
			})
		}
	}

	return fields
}

// embeddedName 嵌入字段的隐式名称: *pkg.Base[T] -> Base
func embeddedName(typ string) string {
	typ = strings.TrimPrefix(typ, "*")
	if i := strings.Index(typ, "["); i >= 0 {
		typ = typ[:i]
	}
	if i := strings.LastIndex(typ, "."); i >= 0 {
		typ = typ[i+1:]
	}
	return typ
}
