package unwrapgen

import (
	"fmt"

	"github.com/donutnomad/unwrapgen/internal/xast"
)

// directiveKeys 不会复制到生成字段上的标签键
var directiveKeys = []string{Unwrap.TagKey(), Wrap.TagKey()}

// emitField 计算字段在生成结构体中的类型与标签
// 标签合并顺序（后者覆盖前者）：原始标签、字段指令、Options.FieldTags、Usage.Fields、Usage.TagFunc
func emitField(dir Direction, f Field, disp Disposition, optQual string, opts *Options, usage *Usage) (EmittedField, error) {
	ef := EmittedField{
		Name:        f.Name,
		Type:        f.Type,
		Doc:         f.Doc,
		Disposition: disp,
	}

	switch {
	case disp == Transformed && dir == Unwrap:
		info, _ := xast.AsOption(f.Type)
		ef.Type = info.Inner
	case disp == Transformed && dir == Wrap:
		ef.Type = qualify(optQual, xast.OptionTypeName) + "[" + f.Type + "]"
	}

	original, err := xast.ParseTag(f.Tag)
	if err != nil {
		return ef, fmt.Errorf("字段 %s: %w", f.Name, err)
	}
	for _, key := range directiveKeys {
		original = xast.RemoveTag(original, key)
	}

	groups := [][]xast.TagPair{original}
	add := func(tags ...string) error {
		for _, tag := range tags {
			pairs, err := xast.ParseTag(tag)
			if err != nil {
				return fmt.Errorf("字段 %s: %w", f.Name, err)
			}
			groups = append(groups, pairs)
		}
		return nil
	}

	if err := add(f.Directive.Tags...); err != nil {
		return ef, err
	}
	if opts != nil {
		if err := add(opts.FieldTags[f.Name]...); err != nil {
			return ef, err
		}
	}
	if fu, ok := usage.field(f.Name); ok {
		if err := add(fu.Tags...); err != nil {
			return ef, err
		}
	}
	if usage != nil && usage.TagFunc != nil {
		if tag, ok := usage.TagFunc(f); ok {
			if err := add(tag); err != nil {
				return ef, err
			}
		}
	}

	ef.Tags = xast.MergeTags(groups...)
	return ef, nil
}

// qualify 拼接包限定符
func qualify(qual, name string) string {
	if qual == "" {
		return name
	}
	return qual + "." + name
}
