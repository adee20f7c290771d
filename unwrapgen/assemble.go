package unwrapgen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/dave/jennifer/jen"
	"github.com/donutnomad/unwrapgen/internal/xast"
)

// attrData 结构体注释模板的数据
type attrData struct {
	Name      string // 生成结构体名
	Source    string // 源结构体名
	Direction string // unwrapped / wrapped
}

// expandAttrs 展开结构体注释模板，一条模板可以产生多行
func expandAttrs(p *plan) ([]string, error) {
	if p.opts == nil {
		return nil, nil
	}
	data := attrData{Name: p.name, Source: p.src.Name, Direction: p.dir.String()}

	var lines []string
	for _, attr := range p.opts.Attrs {
		tmpl, err := template.New("attr").Funcs(sprig.TxtFuncMap()).Parse(attr)
		if err != nil {
			return nil, fmt.Errorf("%s: 注释模板 %q 无效: %w", p.src.Name, attr, err)
		}
		var buf strings.Builder
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("%s: 展开注释模板 %q 失败: %w", p.src.Name, attr, err)
		}
		text := strings.TrimRight(buf.String(), "\n")
		if text == "" {
			continue
		}
		lines = append(lines, strings.Split(text, "\n")...)
	}
	return lines, nil
}

// structDecl 生成结构体声明
// 注释依次为说明行、展开后的 attrs、透传的派生注解
func (p *plan) structDecl(attrs []string) *jen.Statement {
	decl := jen.Commentf("%s 是 %s 的 %s 版本", p.name, p.src.Name, p.dir).Line()
	for _, line := range attrs {
		decl.Comment(line).Line()
	}
	for _, d := range p.passthroughDerives() {
		decl.Comment("@" + d).Line()
	}

	var fields []jen.Code
	for _, fp := range p.kept() {
		field := jen.Null()
		for _, line := range docLines(fp.emitted.Doc) {
			field.Comment(line).Line()
		}
		field.Id(fp.Name).Id(fp.emitted.Type)
		if len(fp.emitted.Tags) > 0 {
			field.Id(xast.FormatTag(fp.emitted.Tags))
		}
		fields = append(fields, field)
	}

	return decl.Add(p.withTypes(jen.Type().Id(p.name))).Struct(fields...)
}

// counterpart 能力标记，使源类型满足 unwrapped.Unwrapped[G] / unwrapped.Wrapped[G]
func (p *plan) counterpart() *jen.Statement {
	method := p.dir.CounterpartMethod()
	return jen.Commentf("%s 返回 %s 对应的 %s 结构体零值", method, p.src.Name, p.dir).Line().
		Func().Params(jen.Id(p.srcType)).Id(method).Params().Id(p.genType).
		Block(jen.Return(jen.Id(p.genType).Values()))
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}
	return strings.Split(doc, "\n")
}
