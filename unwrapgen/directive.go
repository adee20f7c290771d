package unwrapgen

import (
	"fmt"
	"go/parser"
	"strings"

	"github.com/donutnomad/unwrapgen/internal/structparse"
	"github.com/donutnomad/unwrapgen/internal/xast"
	"github.com/donutnomad/unwrapgen/plugin"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// 字段指令键
const (
	directiveSkip    = "skip"
	directiveDefault = "default"
	directiveTag     = "tag"
)

// ParseDirective 从原始结构体标签中解析 dir 方向的字段指令
// 格式: unwrapped:"skip" / wrapped:"default=18,tag=validate:\"required\""
// 值中的逗号用 \, 转义
func ParseDirective(dir Direction, tag string) (FieldDirective, error) {
	var d FieldDirective

	pairs, err := xast.ParseTag(tag)
	if err != nil {
		return d, err
	}
	value, ok := xast.LookupTag(pairs, dir.TagKey())
	if !ok {
		return d, nil
	}

	for _, kv := range plugin.SplitPairs(value) {
		switch strings.ToLower(kv.Key) {
		case directiveSkip:
			if kv.Value == "" {
				d.Skip = true
				continue
			}
			skip, err := cast.ToBoolE(strings.TrimSpace(kv.Value))
			if err != nil {
				return d, fmt.Errorf("%s 指令 skip=%q 无效", dir.TagKey(), kv.Value)
			}
			d.Skip = skip
		case directiveDefault:
			expr := strings.TrimSpace(kv.Value)
			if err := checkExpr(expr); err != nil {
				return d, fmt.Errorf("%s 指令 default: %w", dir.TagKey(), err)
			}
			d.Default = expr
		case directiveTag:
			extra := strings.TrimSpace(kv.Value)
			if _, err := xast.ParseTag(extra); err != nil || extra == "" {
				return d, fmt.Errorf("%s 指令 tag=%q 不是合法的结构体标签", dir.TagKey(), kv.Value)
			}
			d.Tags = append(d.Tags, extra)
		default:
			return d, fmt.Errorf("未知的 %s 指令 %q", dir.TagKey(), kv.Key)
		}
	}
	return d, nil
}

// checkExpr 校验默认值是合法的 Go 表达式
func checkExpr(expr string) error {
	if expr == "" {
		return fmt.Errorf("默认值为空")
	}
	if _, err := parser.ParseExpr(expr); err != nil {
		return fmt.Errorf("默认值 %q 不是合法的表达式: %w", expr, err)
	}
	return nil
}

// NewSource 将解析出的结构体转换为 dir 方向的 Source
// 字段指令在此解析，格式错误时返回错误
func NewSource(info *structparse.StructInfo, dir Direction) (*Source, error) {
	src := &Source{
		Name:        info.Name,
		Package:     info.PackageName,
		Annotations: plugin.ParseAnnotations(info.Doc),
		TypeParams: lo.Map(info.TypeParams, func(tp structparse.TypeParam, _ int) TypeParam {
			return TypeParam{Name: tp.Name, Constraint: tp.Constraint}
		}),
		Imports: lo.Map(info.Imports, func(imp structparse.ImportInfo, _ int) Import {
			return Import{Name: imp.PackageName, Alias: imp.Alias, Path: imp.ImportPath}
		}),
	}

	for _, fi := range info.Fields {
		f := Field{
			Name:     fi.Name,
			Type:     fi.Type,
			Tag:      fi.Tag,
			Doc:      fi.Doc,
			Embedded: fi.Embedded,
		}
		d, err := ParseDirective(dir, fi.Tag)
		if err != nil {
			return nil, fmt.Errorf("字段 %s: %w", fi.Name, err)
		}
		f.Directive = d
		src.Fields = append(src.Fields, f)
	}
	return src, nil
}
