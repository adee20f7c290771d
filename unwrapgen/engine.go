package unwrapgen

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/donutnomad/unwrapgen/internal/utils"
	"github.com/donutnomad/unwrapgen/internal/xast"
	"github.com/samber/lo"
)

// plan 单次生成的中间状态，只在一次 Generate 调用内存在
type plan struct {
	dir   Direction
	src   *Source
	opts  *Options
	usage *Usage

	name    string // 生成结构体名
	srcType string // 带类型实参的源类型，如 Pair[K, V]
	genType string // 带类型实参的生成类型

	optQual string // mo 包的引用名
	errQual string // unwrapped 运行时包的引用名

	recv   string
	srcVar string
	dstVar string

	fields []*fieldPlan
	used   map[string]bool

	imports  map[string]string
	routines []string
	decls    []*jen.Statement
}

// fieldPlan 单个字段的分类结果
type fieldPlan struct {
	Field
	disp    Disposition
	inner   string // 源类型为 Option[T] 时的 T
	def     string // 默认值表达式
	emitted EmittedField
	param   string // 排除字段在重建函数中的参数名
}

// Generate 为 src 生成 dir 方向的配套结构体与转换函数
// 失败时不返回部分结果
func Generate(dir Direction, src *Source, opts *Options, usage *Usage) (*Artifact, error) {
	p, err := newPlan(dir, src, opts, usage)
	if err != nil {
		return nil, err
	}

	attrs, err := expandAttrs(p)
	if err != nil {
		return nil, err
	}

	p.decls = append(p.decls, p.structDecl(attrs), p.counterpart())
	if dir == Wrap {
		p.wrapRoutines()
	} else {
		p.unwrapRoutines()
	}
	p.emitDerives()

	bridge, err := p.builderBridge()
	if err != nil {
		return nil, err
	}

	code, err := render(p.decls)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}

	return &Artifact{
		Name:      p.name,
		Source:    src.Name,
		Direction: dir,
		Fields: lo.FilterMap(p.fields, func(fp *fieldPlan, _ int) (EmittedField, bool) {
			return fp.emitted, fp.disp != Excluded
		}),
		Derives:  p.opts.derives(),
		Attrs:    attrs,
		Routines: p.routines,
		Bridge:   bridge,
		Imports:  p.imports,
		Code:     code,
	}, nil
}

func newPlan(dir Direction, src *Source, opts *Options, usage *Usage) (*plan, error) {
	if src == nil || src.Name == "" {
		return nil, fmt.Errorf("缺少源结构体")
	}
	if err := validateFields(src, opts, usage); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}

	p := &plan{
		dir:     dir,
		src:     src,
		opts:    opts,
		usage:   usage,
		name:    opts.Ident(src.Name, dir),
		used:    make(map[string]bool),
		imports: make(map[string]string),
	}

	args := ""
	if len(src.TypeParams) > 0 {
		args = "[" + strings.Join(lo.Map(src.TypeParams, func(tp TypeParam, _ int) string { return tp.Name }), ", ") + "]"
	}
	p.srcType = src.Name + args
	p.genType = p.name + args

	p.used[src.Name] = true
	p.used[p.name] = true
	for _, tp := range src.TypeParams {
		p.used[tp.Name] = true
	}

	for _, f := range src.Fields {
		fp := &fieldPlan{Field: f, disp: Classify(dir, f, usage)}
		if info, ok := xast.AsOption(f.Type); ok {
			fp.inner = info.Inner
		}
		fp.def = f.Directive.Default
		if fu, ok := usage.field(f.Name); ok && fu.Default != "" {
			if err := checkExpr(fu.Default); err != nil {
				return nil, fmt.Errorf("%s: 字段 %s: %w", src.Name, f.Name, err)
			}
			fp.def = fu.Default
		}
		p.fields = append(p.fields, fp)
	}

	p.resolveQualifiers()

	for _, fp := range p.fields {
		if fp.disp == Excluded {
			continue
		}
		ef, err := emitField(dir, fp.Field, fp.disp, p.optQual, opts, usage)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}
		fp.emitted = ef
	}

	if err := p.checkCollisions(); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}

	p.recv = utils.UniqueName(utils.ReceiverName(p.name), p.used)
	p.srcVar = utils.UniqueName("src", p.used)
	p.dstVar = utils.UniqueName("dst", p.used)
	for _, fp := range p.excluded() {
		fp.param = utils.UniqueName(utils.LowerFirst(fp.Name), p.used)
	}
	return p, nil
}

// validateFields 只支持具名字段，选项中引用的字段必须存在
func validateFields(src *Source, opts *Options, usage *Usage) error {
	names := make(map[string]bool, len(src.Fields))
	for _, f := range src.Fields {
		if f.Embedded {
			return fmt.Errorf("字段 %s 是嵌入字段，只支持具名字段", f.Name)
		}
		if f.Name == "" || f.Name == "_" {
			return fmt.Errorf("存在没有名称的字段")
		}
		names[f.Name] = true
	}

	check := func(from string, keys []string) error {
		slices.Sort(keys)
		for _, k := range keys {
			if !names[k] {
				return fmt.Errorf("%s 引用了不存在的字段 %s", from, k)
			}
		}
		return nil
	}
	if opts != nil {
		if err := check("field_tags", slices.Collect(maps.Keys(opts.FieldTags))); err != nil {
			return err
		}
	}
	if usage != nil {
		if err := check("usage.transform", slices.Collect(maps.Keys(usage.Transform))); err != nil {
			return err
		}
		if err := check("usage.fields", slices.Collect(maps.Keys(usage.Fields))); err != nil {
			return err
		}
	}
	return nil
}

// resolveQualifiers 确定 mo 与运行时包的引用名，并收集源文件中被引用的导入
func (p *plan) resolveQualifiers() {
	var exprs []string
	for _, tp := range p.src.TypeParams {
		exprs = append(exprs, tp.Constraint)
	}
	for _, fp := range p.fields {
		exprs = append(exprs, fp.Type)
		if fp.def != "" {
			exprs = append(exprs, fp.def)
		}
	}

	var quals []string
	for _, e := range exprs {
		quals = append(quals, xast.Qualifiers(e)...)
	}
	quals = lo.Uniq(quals)
	for _, q := range quals {
		p.used[q] = true
		if imp, ok := p.src.importByName(q); ok {
			p.imports[imp.Path] = imp.Alias
		}
	}

	// Option 的包限定符取第一个 Option 字段，其次是源文件对 mo 的导入
	p.optQual = "mo"
	if fp, ok := lo.Find(p.fields, func(fp *fieldPlan) bool { return fp.inner != "" }); ok {
		info, _ := xast.AsOption(fp.Type)
		p.optQual = info.Qualifier
	} else if imp, ok := lo.Find(p.src.Imports, func(imp Import) bool { return imp.Path == OptionImportPath }); ok {
		p.optQual = imp.Name
	}
	if p.optQual != "" {
		p.used[p.optQual] = true
		if imp, ok := p.src.importByName(p.optQual); ok {
			p.imports[imp.Path] = imp.Alias
		} else {
			p.imports[OptionImportPath] = lo.Ternary(p.optQual == "mo", "", p.optQual)
		}
	}

	p.errQual = "unwrapped"
	imp, ok := p.src.importByName(p.errQual)
	switch {
	case ok && imp.Path == RuntimeImportPath:
		p.imports[imp.Path] = imp.Alias
	case ok || p.used[p.errQual]:
		p.errQual = utils.UniqueName("unwrappedrt", p.used)
		p.imports[RuntimeImportPath] = p.errQual
	default:
		p.imports[RuntimeImportPath] = ""
	}
	p.used[p.errQual] = true
}

// methods 生成结构体上的方法名
func (p *plan) methods() []string {
	var out []string
	switch {
	case p.hasExcluded():
		out = append(out, p.intoName())
	case p.dir == Wrap:
		out = append(out, p.toName(), p.tryToName())
	default:
		out = append(out, p.toName())
	}
	for _, d := range p.opts.derives() {
		if m, ok := deriveMethods[d]; ok {
			out = append(out, m)
		}
	}
	return lo.Uniq(out)
}

// checkCollisions 字段与同一类型上的生成方法不能重名
func (p *plan) checkCollisions() error {
	methods := p.methods()
	for _, fp := range p.fields {
		if fp.disp != Excluded && slices.Contains(methods, fp.Name) {
			return fmt.Errorf("字段 %s 与生成的方法 %s.%s 重名", fp.Name, p.name, fp.Name)
		}
		if fp.Name == p.dir.CounterpartMethod() {
			return fmt.Errorf("字段 %s 与生成的方法 %s.%s 重名", fp.Name, p.src.Name, fp.Name)
		}
	}
	return nil
}

func (p *plan) excluded() []*fieldPlan {
	return lo.Filter(p.fields, func(fp *fieldPlan, _ int) bool { return fp.disp == Excluded })
}

func (p *plan) kept() []*fieldPlan {
	return lo.Filter(p.fields, func(fp *fieldPlan, _ int) bool { return fp.disp != Excluded })
}

func (p *plan) hasExcluded() bool {
	return lo.SomeBy(p.fields, func(fp *fieldPlan) bool { return fp.disp == Excluded })
}

func (p *plan) newName() string   { return "New" + p.name }
func (p *plan) tryNewName() string { return "TryNew" + p.name }
func (p *plan) toName() string    { return "To" + p.src.Name }
func (p *plan) tryToName() string { return "TryTo" + p.src.Name }
func (p *plan) intoName() string  { return "Into" + p.src.Name }

// typeParams 泛型参数声明，每次返回新的语句
func (p *plan) typeParams() []jen.Code {
	return lo.Map(p.src.TypeParams, func(tp TypeParam, _ int) jen.Code {
		return jen.Id(tp.Name).Id(tp.Constraint)
	})
}

// withTypes 有泛型参数时追加声明
func (p *plan) withTypes(s *jen.Statement) *jen.Statement {
	if len(p.src.TypeParams) > 0 {
		s.Types(p.typeParams()...)
	}
	return s
}

// useImport 登记生成代码额外需要的标准库
func (p *plan) useImport(path string) {
	if _, ok := p.imports[path]; !ok {
		p.imports[path] = ""
	}
}
