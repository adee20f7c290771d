package unwrapgen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/donutnomad/gg"
	"github.com/donutnomad/unwrapgen/internal/structparse"
	"github.com/donutnomad/unwrapgen/internal/utils"
	"github.com/donutnomad/unwrapgen/internal/xast"
	"github.com/donutnomad/unwrapgen/plugin"
	"github.com/samber/lo"
)

// Params @Unwrapped / @Wrapped 注解参数
type Params struct {
	Name      string   `param:"name=name,required=false,default=,description=生成结构体名称（默认由前后缀推导）"`
	Prefix    string   `param:"name=prefix,required=false,default=,description=名称前缀"`
	Suffix    string   `param:"name=suffix,required=false,default=,description=名称后缀"`
	Derives   []string `param:"name=derives,required=false,default=,description=附加派生 如 [Equal|Setter]"`
	Attrs     string   `param:"name=attrs,required=false,default=,description=结构体注释模板 多行用 ; 分隔"`
	FieldTags string   `param:"name=field_tags,required=false,default=,description=字段标签 格式 Field=tag;Field2=tag"`
}

// Options 转换为引擎选项
func (p Params) Options() (*Options, error) {
	opts := NewOptions().
		WithName(strings.TrimSpace(p.Name)).
		WithPrefix(strings.TrimSpace(p.Prefix)).
		WithSuffix(strings.TrimSpace(p.Suffix)).
		WithDerive(p.Derives...)
	for _, attr := range plugin.ParseListParam(p.Attrs, ";") {
		opts.WithAttr(attr)
	}
	for _, entry := range plugin.ParseListParam(p.FieldTags, ";") {
		field, tag, ok := strings.Cut(entry, "=")
		field, tag = strings.TrimSpace(field), strings.TrimSpace(tag)
		if !ok || field == "" || tag == "" {
			return nil, fmt.Errorf("field_tags 项 %q 格式应为 Field=tag", entry)
		}
		if _, err := xast.ParseTag(tag); err != nil {
			return nil, fmt.Errorf("field_tags 项 %q: %w", entry, err)
		}
		opts.WithFieldTag(field, tag)
	}
	return opts, nil
}

// Generator 实现 plugin.Generator，每个实例负责一个方向
type Generator struct {
	plugin.BaseGenerator
	dir      Direction
	config   *UsageConfig
	jsonTags bool
}

// GeneratorOption 生成器选项
type GeneratorOption func(*Generator)

// WithUsageConfig 使用 -config 文件提供的覆盖项
func WithUsageConfig(cfg *UsageConfig) GeneratorOption {
	return func(g *Generator) {
		g.config = cfg
	}
}

// WithJSONTags 为没有 json 标签的字段生成 snake_case 的 json 标签
func WithJSONTags(enabled bool) GeneratorOption {
	return func(g *Generator) {
		g.jsonTags = enabled
	}
}

// NewUnwrappedGenerator 创建 @Unwrapped 生成器
func NewUnwrappedGenerator(opts ...GeneratorOption) *Generator {
	return newGenerator(Unwrap, 10, opts...)
}

// NewWrappedGenerator 创建 @Wrapped 生成器
func NewWrappedGenerator(opts ...GeneratorOption) *Generator {
	return newGenerator(Wrap, 11, opts...)
}

func newGenerator(dir Direction, priority int, opts ...GeneratorOption) *Generator {
	gen := &Generator{
		BaseGenerator: *plugin.NewBaseGeneratorWithParamsStruct(
			dir.String(),
			[]string{dir.Annotation()},
			[]plugin.TargetKind{plugin.TargetStruct},
			Params{},
		),
		dir: dir,
	}
	gen.SetPriority(priority)
	for _, opt := range opts {
		opt(gen)
	}
	return gen
}

// Direction 生成方向
func (g *Generator) Direction() Direction { return g.dir }

// Generate 执行代码生成
// 单个目标失败只记录错误，不影响其他目标
func (g *Generator) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	result := plugin.NewGenerateResult()
	if len(ctx.Targets) == 0 {
		return result, nil
	}

	annName := g.dir.Annotation()
	tag := "[" + g.Name() + "]"

	// key: 输出路径
	fileArtifacts := make(map[string][]*Artifact)
	filePackages := make(map[string]string)

	for _, at := range ctx.Targets {
		ann := plugin.GetAnnotation(at.Annotations, annName)
		if ann == nil {
			continue
		}

		params, ok := at.ParamsFor(g.Name()).(Params)
		if !ok {
			result.AddError(fmt.Errorf("ParsedParams 类型断言失败: %T", at.ParamsFor(g.Name())))
			continue
		}

		art, err := g.generateTarget(at.Target, params, ctx.Verbose)
		if err != nil {
			result.AddError(fmt.Errorf("%s %s: %w", tag, at.Target.Name, err))
			continue
		}

		outputPath := plugin.GetOutputPath(at.Target, ann, "$FILE_"+g.dir.String()+".go",
			ctx.GetPackageConfig(at.Target.FilePath), g.Name(), ctx.DefaultOutput)
		if pkg, ok := filePackages[outputPath]; ok && pkg != at.Target.PackageName {
			result.AddError(fmt.Errorf("%s %s: 输出文件 %s 已属于包 %s", tag, at.Target.Name, outputPath, pkg))
			continue
		}
		filePackages[outputPath] = at.Target.PackageName
		fileArtifacts[outputPath] = append(fileArtifacts[outputPath], art)

		if ctx.Verbose {
			fmt.Printf("%s 处理结构体 %s (%s)\n", tag, routineSignature(art), outputPath)
		}
	}

	outputPaths := lo.Keys(fileArtifacts)
	slices.Sort(outputPaths)
	for _, outputPath := range outputPaths {
		result.AddDefinition(outputPath, buildDefinition(filePackages[outputPath], fileArtifacts[outputPath]))
	}

	return result, nil
}

// generateTarget 解析源结构体并调用引擎
func (g *Generator) generateTarget(target *plugin.Target, params Params, verbose bool) (*Artifact, error) {
	info, err := structparse.ParseStruct(target.FilePath, target.Name)
	if err != nil {
		return nil, fmt.Errorf("解析结构体失败: %w", err)
	}
	src, err := NewSource(info, g.dir)
	if err != nil {
		return nil, err
	}
	opts, err := params.Options()
	if err != nil {
		return nil, err
	}
	usage := g.usageFor(target.PackageName, target.Name)
	if verbose {
		fmt.Printf("[%s] %s 选项:\n%s", g.Name(), target.Name, spew.Sdump(opts, usage))
	}
	return Generate(g.dir, src, opts, usage)
}

// usageFor 合并配置文件覆盖项与 -json-tags
func (g *Generator) usageFor(pkg, name string) *Usage {
	usage := g.config.Usage(pkg, name, g.dir)
	if !g.jsonTags {
		return usage
	}
	if usage == nil {
		usage = NewUsage()
	}
	return usage.WithFieldTagFunc(JSONTagFunc)
}

// JSONTagFunc 字段没有 json 标签时生成 snake_case 名称
func JSONTagFunc(f Field) (string, bool) {
	pairs, err := xast.ParseTag(f.Tag)
	if err != nil {
		return "", false
	}
	if _, ok := xast.LookupTag(pairs, "json"); ok {
		return "", false
	}
	return fmt.Sprintf(`json:%q`, utils.ToSnakeCase(f.Name)), true
}

// buildDefinition 将同一输出文件的生成结果组装为 gg 定义，按源结构体名排序
func buildDefinition(pkg string, artifacts []*Artifact) *gg.Generator {
	slices.SortFunc(artifacts, func(a, b *Artifact) int {
		return strings.Compare(a.Source, b.Source)
	})

	gen := gg.New()
	gen.SetPackage(pkg)

	imports := make(map[string]string)
	for _, art := range artifacts {
		for path, alias := range art.Imports {
			imports[path] = alias
		}
	}
	paths := lo.Keys(imports)
	slices.Sort(paths)
	for _, path := range paths {
		if alias := imports[path]; alias != "" {
			gen.PAlias(path, alias)
		} else {
			gen.P(path)
		}
	}

	for i, art := range artifacts {
		if i > 0 {
			gen.Body().AddLine()
		}
		gen.Body().AddString(art.Code)
	}
	return gen
}

// routineSignature 用于 verbose 输出
func routineSignature(a *Artifact) string {
	return fmt.Sprintf("%s -> %s %v", a.Source, a.Name, a.Routines)
}
