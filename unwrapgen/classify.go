package unwrapgen

import "github.com/donutnomad/unwrapgen/internal/xast"

// Classify 决定字段的处理方式
// skip 优先于一切，被排除的字段不检查类型
func Classify(dir Direction, f Field, usage *Usage) Disposition {
	if f.Directive.Skip {
		return Excluded
	}
	_, isOption := xast.AsOption(f.Type)
	transform := usage.transform(f.Name)

	if dir == Wrap {
		if isOption || !transform {
			return Unchanged
		}
		return Transformed
	}
	if isOption && transform {
		return Transformed
	}
	return Unchanged
}
