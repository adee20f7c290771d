package unwrapgen

import (
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/donutnomad/unwrapgen/internal/utils"
	"github.com/donutnomad/unwrapgen/internal/xast"
	"github.com/samber/lo"
)

// deriveMethods 派生名 -> 生成的方法名
// 不在表中的派生以 // @Name 注解行透传给其他生成器
var deriveMethods = map[string]string{
	"Clone":     "Clone",
	"Debug":     "GoString",
	"Equal":     "Equal",
	"PartialEq": "Equal",
	"Eq":        "Equal",
}

// noopDerives 零值即可满足，不生成任何代码
var noopDerives = []string{"Default"}

// passthroughDerives 需要以注解行透传的派生
func (p *plan) passthroughDerives() []string {
	return lo.Filter(p.opts.derives(), func(d string, _ int) bool {
		_, ok := deriveMethods[d]
		return !ok && !lo.Contains(noopDerives, d)
	})
}

// emitDerives 生成派生方法，同名方法只生成一次
func (p *plan) emitDerives() {
	done := make(map[string]bool)
	for _, d := range p.opts.derives() {
		method, ok := deriveMethods[d]
		if !ok || done[method] {
			continue
		}
		done[method] = true

		switch method {
		case "Clone":
			p.decls = append(p.decls, p.deriveClone())
		case "GoString":
			p.decls = append(p.decls, p.deriveDebug())
		case "Equal":
			p.decls = append(p.decls, p.deriveEqual())
		}
	}
}

// deriveClone 切片与 map 字段复制一层，Option[[]T] 与 Option[map[K]V] 复制其中的值
func (p *plan) deriveClone() *jen.Statement {
	body := []jen.Code{jen.Id(p.dstVar).Op(":=").Id(p.recv)}
	var val, ok string
	for _, fp := range p.kept() {
		typ := fp.emitted.Type
		info, isOpt := xast.AsOption(typ)
		if isOpt {
			typ = info.Inner
		}
		fn := p.cloneFunc(typ)
		if fn == "" {
			continue
		}
		if !isOpt {
			body = append(body, p.assign(fp.Name, jen.Id(fn).Call(jen.Id(p.recv).Dot(fp.Name))))
			continue
		}
		if val == "" {
			val = utils.UniqueName("v", p.used)
			ok = utils.UniqueName("ok", p.used)
		}
		// if v, ok := x.F.Get(); ok { dst.F = mo.Some(slices.Clone(v)) }
		body = append(body, jen.If(
			jen.List(jen.Id(val), jen.Id(ok)).Op(":=").Id(p.recv).Dot(fp.Name).Dot("Get").Call(),
			jen.Id(ok),
		).Block(
			p.assign(fp.Name, jen.Id(qualify(info.Qualifier, "Some")).Call(jen.Id(fn).Call(jen.Id(val)))),
		))
	}
	body = append(body, jen.Return(jen.Id(p.dstVar)))

	return jen.Comment("Clone 返回副本，切片与 map 字段复制一层").Line().
		Func().Params(jen.Id(p.recv).Id(p.genType)).Id("Clone").Params().Id(p.genType).
		Block(body...)
}

// deriveDebug 实现 fmt.GoStringer，输出 Name{Field: value, ...}
func (p *plan) deriveDebug() *jen.Statement {
	kept := p.kept()
	var ret *jen.Statement
	if len(kept) == 0 {
		ret = jen.Return(jen.Lit(p.name + "{}"))
	} else {
		p.useImport("fmt")
		format := p.name + "{" + strings.Join(lo.Map(kept, func(fp *fieldPlan, _ int) string {
			return fp.Name + ": %#v"
		}), ", ") + "}"
		args := append([]jen.Code{jen.Lit(format)}, lo.Map(kept, func(fp *fieldPlan, _ int) jen.Code {
			return jen.Id(p.recv).Dot(fp.Name)
		})...)
		ret = jen.Return(jen.Id("fmt.Sprintf").Call(args...))
	}

	return jen.Comment("GoString 实现 fmt.GoStringer").Line().
		Func().Params(jen.Id(p.recv).Id(p.genType)).Id("GoString").Params().String().
		Block(ret)
}

func (p *plan) deriveEqual() *jen.Statement {
	p.useImport("reflect")
	other := utils.UniqueName("other", p.used)
	return jen.Comment("Equal 逐字段深度比较").Line().
		Func().Params(jen.Id(p.recv).Id(p.genType)).Id("Equal").Params(jen.Id(other).Id(p.genType)).Bool().
		Block(jen.Return(jen.Id("reflect.DeepEqual").Call(jen.Id(p.recv), jen.Id(other))))
}

// cloneFunc 返回复制 typ 类型值的函数，不需要复制时返回空
func (p *plan) cloneFunc(typ string) string {
	switch {
	case xast.IsSlice(typ):
		p.useImport("slices")
		return "slices.Clone"
	case xast.IsMap(typ):
		p.useImport("maps")
		return "maps.Clone"
	}
	return ""
}
