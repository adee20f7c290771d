package unwrapgen

import (
	"go/ast"
	"go/parser"

	"github.com/dave/jennifer/jen"
	"github.com/samber/lo"
)

// unwrapRoutines Option[T] -> T 方向的转换函数
//
//	NewG(src S) G               无排除字段时生成，缺失值取零值或默认值
//	TryNewG(src S) (G, error)   始终生成，缺失值返回 unwrapped.Error
//	(G) ToS() S                 无排除字段时生成
//	(G) IntoS(排除字段...) S     有排除字段时生成
func (p *plan) unwrapRoutines() {
	if !p.hasExcluded() {
		p.addRoutine(p.newName(), p.unwrapNew())
	}
	p.addRoutine(p.tryNewName(), p.unwrapTryNew())
	if p.hasExcluded() {
		p.addRoutine(p.intoName(), p.unwrapInto())
	} else {
		p.addRoutine(p.toName(), p.unwrapTo())
	}
}

// wrapRoutines T -> Option[T] 方向的转换函数
//
//	NewG(src S) G                        默认值相等时存为 None
//	(G) ToS() S                          无排除字段时生成，缺失值取默认值或零值
//	(G) TryToS() (S, error)              无排除字段时生成
//	(G) IntoS(排除字段...) (S, error)     有排除字段时生成，有默认值的字段不会失败
func (p *plan) wrapRoutines() {
	p.addRoutine(p.newName(), p.wrapNew())
	if p.hasExcluded() {
		p.addRoutine(p.intoName(), p.wrapInto())
		return
	}
	p.addRoutine(p.toName(), p.wrapTo())
	p.addRoutine(p.tryToName(), p.wrapTryTo())
}

func (p *plan) addRoutine(name string, decl *jen.Statement) {
	p.routines = append(p.routines, name)
	p.decls = append(p.decls, decl)
}

func (p *plan) unwrapNew() *jen.Statement {
	body := []jen.Code{jen.Var().Id(p.dstVar).Id(p.genType)}
	for _, fp := range p.kept() {
		value := jen.Id(p.srcVar).Dot(fp.Name)
		if fp.disp == Transformed {
			value = p.orDefault(value, fp.def)
		}
		body = append(body, p.assign(fp.Name, value))
	}
	body = append(body, jen.Return(jen.Id(p.dstVar)))

	return jen.Commentf("%s 由 %s 构造 %s，缺失的值取零值或默认值", p.newName(), p.src.Name, p.name).Line().
		Add(p.withTypes(jen.Func().Id(p.newName()))).
		Params(jen.Id(p.srcVar).Id(p.srcType)).Id(p.genType).
		Block(body...)
}

func (p *plan) unwrapTryNew() *jen.Statement {
	body := []jen.Code{jen.Var().Id(p.dstVar).Id(p.genType)}
	for _, fp := range p.kept() {
		value := jen.Id(p.srcVar).Dot(fp.Name)
		if fp.disp == Transformed {
			body = append(body, p.failIfAbsent(p.srcVar, fp.Name, p.genType))
			value = value.Dot("MustGet").Call()
		}
		body = append(body, p.assign(fp.Name, value))
	}
	body = append(body, jen.Return(jen.Id(p.dstVar), jen.Nil()))

	return jen.Commentf("%s 由 %s 构造 %s，任一可选值缺失时返回 %s.Error", p.tryNewName(), p.src.Name, p.name, p.errQual).Line().
		Add(p.withTypes(jen.Func().Id(p.tryNewName()))).
		Params(jen.Id(p.srcVar).Id(p.srcType)).Params(jen.Id(p.genType), jen.Error()).
		Block(body...)
}

func (p *plan) unwrapTo() *jen.Statement {
	return jen.Commentf("%s 转换回 %s", p.toName(), p.src.Name).Line().
		Func().Params(jen.Id(p.recv).Id(p.genType)).Id(p.toName()).Params().Id(p.srcType).
		Block(p.unwrapBack()...)
}

func (p *plan) unwrapInto() *jen.Statement {
	return jen.Commentf("%s 结合排除字段的值重建 %s", p.intoName(), p.src.Name).Line().
		Func().Params(jen.Id(p.recv).Id(p.genType)).Id(p.intoName()).Params(p.excludedParams()...).Id(p.srcType).
		Block(p.unwrapBack()...)
}

// unwrapBack 生成结构体 -> 源结构体，Transformed 字段重新包装为 Some
func (p *plan) unwrapBack() []jen.Code {
	body := []jen.Code{jen.Var().Id(p.dstVar).Id(p.srcType)}
	for _, fp := range p.fields {
		var value *jen.Statement
		switch fp.disp {
		case Excluded:
			value = jen.Id(fp.param)
		case Transformed:
			value = p.some(jen.Id(p.recv).Dot(fp.Name))
		default:
			value = jen.Id(p.recv).Dot(fp.Name)
		}
		body = append(body, p.assign(fp.Name, value))
	}
	return append(body, jen.Return(jen.Id(p.dstVar)))
}

func (p *plan) wrapNew() *jen.Statement {
	body := []jen.Code{jen.Var().Id(p.dstVar).Id(p.genType)}
	for _, fp := range p.kept() {
		value := jen.Id(p.srcVar).Dot(fp.Name)
		switch {
		case fp.disp != Transformed:
			body = append(body, p.assign(fp.Name, value))
		case fp.def == "":
			body = append(body, p.assign(fp.Name, p.some(value)))
		default:
			// 等于默认值时存为 None
			body = append(body, jen.If(jen.Id(p.srcVar).Dot(fp.Name).Op("==").Add(defaultOperand(fp.def))).Block(
				p.assign(fp.Name, p.none(fp.Type)),
			).Else().Block(
				p.assign(fp.Name, p.some(jen.Id(p.srcVar).Dot(fp.Name))),
			))
		}
	}
	body = append(body, jen.Return(jen.Id(p.dstVar)))

	return jen.Commentf("%s 由 %s 构造 %s", p.newName(), p.src.Name, p.name).Line().
		Add(p.withTypes(jen.Func().Id(p.newName()))).
		Params(jen.Id(p.srcVar).Id(p.srcType)).Id(p.genType).
		Block(body...)
}

func (p *plan) wrapTo() *jen.Statement {
	body := []jen.Code{jen.Var().Id(p.dstVar).Id(p.srcType)}
	for _, fp := range p.fields {
		value := jen.Id(p.recv).Dot(fp.Name)
		if fp.disp == Transformed {
			value = p.orDefault(value, fp.def)
		}
		body = append(body, p.assign(fp.Name, value))
	}
	body = append(body, jen.Return(jen.Id(p.dstVar)))

	return jen.Commentf("%s 转换回 %s，缺失的值取默认值或零值", p.toName(), p.src.Name).Line().
		Func().Params(jen.Id(p.recv).Id(p.genType)).Id(p.toName()).Params().Id(p.srcType).
		Block(body...)
}

func (p *plan) wrapTryTo() *jen.Statement {
	body := []jen.Code{jen.Var().Id(p.dstVar).Id(p.srcType)}
	for _, fp := range p.fields {
		value := jen.Id(p.recv).Dot(fp.Name)
		if fp.disp == Transformed {
			body = append(body, p.failIfAbsent(p.recv, fp.Name, p.srcType))
			value = value.Dot("MustGet").Call()
		}
		body = append(body, p.assign(fp.Name, value))
	}
	body = append(body, jen.Return(jen.Id(p.dstVar), jen.Nil()))

	return jen.Commentf("%s 转换回 %s，任一字段缺失时返回 %s.Error", p.tryToName(), p.src.Name, p.errQual).Line().
		Func().Params(jen.Id(p.recv).Id(p.genType)).Id(p.tryToName()).Params().Params(jen.Id(p.srcType), jen.Error()).
		Block(body...)
}

func (p *plan) wrapInto() *jen.Statement {
	body := []jen.Code{jen.Var().Id(p.dstVar).Id(p.srcType)}
	for _, fp := range p.fields {
		var value *jen.Statement
		switch {
		case fp.disp == Excluded:
			value = jen.Id(fp.param)
		case fp.disp == Unchanged:
			value = jen.Id(p.recv).Dot(fp.Name)
		case fp.def != "":
			value = p.orDefault(jen.Id(p.recv).Dot(fp.Name), fp.def)
		default:
			body = append(body, p.failIfAbsent(p.recv, fp.Name, p.srcType))
			value = jen.Id(p.recv).Dot(fp.Name).Dot("MustGet").Call()
		}
		body = append(body, p.assign(fp.Name, value))
	}
	body = append(body, jen.Return(jen.Id(p.dstVar), jen.Nil()))

	return jen.Commentf("%s 结合排除字段的值重建 %s，没有默认值的字段缺失时返回 %s.Error", p.intoName(), p.src.Name, p.errQual).Line().
		Func().Params(jen.Id(p.recv).Id(p.genType)).Id(p.intoName()).Params(p.excludedParams()...).Params(jen.Id(p.srcType), jen.Error()).
		Block(body...)
}

// excludedParams 排除字段按声明顺序作为参数
func (p *plan) excludedParams() []jen.Code {
	return lo.Map(p.excluded(), func(fp *fieldPlan, _ int) jen.Code {
		return jen.Id(fp.param).Id(fp.Type)
	})
}

// assign dst.Field = value
func (p *plan) assign(field string, value jen.Code) *jen.Statement {
	return jen.Id(p.dstVar).Dot(field).Op("=").Add(value)
}

// orDefault opt.OrElse(def) 或 opt.OrEmpty()
func (p *plan) orDefault(opt *jen.Statement, def string) *jen.Statement {
	if def != "" {
		return opt.Dot("OrElse").Call(jen.Id(def))
	}
	return opt.Dot("OrEmpty").Call()
}

// failIfAbsent if v.Field.IsAbsent() { return Zero{}, unwrapped.Error{FieldName: "Field"} }
func (p *plan) failIfAbsent(v, field, zeroType string) *jen.Statement {
	return jen.If(jen.Id(v).Dot(field).Dot("IsAbsent").Call()).Block(
		jen.Return(
			jen.Id(zeroType).Values(),
			jen.Id(qualify(p.errQual, "Error")).Values(jen.Id("FieldName").Op(":").Lit(field)),
		),
	)
}

func (p *plan) some(value jen.Code) *jen.Statement {
	return jen.Id(qualify(p.optQual, "Some")).Call(value)
}

func (p *plan) none(typ string) *jen.Statement {
	return jen.Id(qualify(p.optQual, "None")).Types(jen.Id(typ)).Call()
}

// defaultOperand 默认值作为 == 的右操作数，二元表达式与复合字面量加括号
func defaultOperand(def string) *jen.Statement {
	expr, err := parser.ParseExpr(def)
	if err != nil {
		return jen.Parens(jen.Id(def))
	}
	switch expr.(type) {
	case *ast.Ident, *ast.BasicLit, *ast.SelectorExpr, *ast.CallExpr, *ast.ParenExpr, *ast.IndexExpr:
		return jen.Id(def)
	default:
		return jen.Parens(jen.Id(def))
	}
}
