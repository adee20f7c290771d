package unwrapgen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/donutnomad/unwrapgen/internal/utils"
	"github.com/donutnomad/unwrapgen/plugin"
	"github.com/samber/lo"
)

// BuilderAnnotation 构建器生成器使用的注解
const BuilderAnnotation = "Builder"

// BuilderConfig 从源结构体 @Builder 注解读出的构建器约定
//
//	@Builder
//	@Builder(builder_type=ProfileBuilder, finish_fn=Build)
//	@Builder(builder_type=`name=ProfileBuilder`, finish_fn=`name=Finish`, setter_prefix=Set)
//
// 约定构建器为指针接收者，每个字段有一个同名（可带前缀）的 setter，
// 参数为源字段类型；finish 方法签名为 () (S, error)
type BuilderConfig struct {
	Type         string
	Finish       string
	SetterPrefix string
}

// ParseBuilderConfig 读取 @Builder 注解，没有注解时 ok 为 false
func ParseBuilderConfig(src *Source) (BuilderConfig, bool) {
	ann := plugin.GetAnnotation(src.Annotations, BuilderAnnotation)
	if ann == nil {
		return BuilderConfig{}, false
	}
	cfg := BuilderConfig{
		Type:         plugin.ParseNestedParam(ann.GetParam("builder_type"), "name")["name"],
		Finish:       plugin.ParseNestedParam(ann.GetParam("finish_fn"), "name")["name"],
		SetterPrefix: strings.TrimSpace(ann.GetParam("setter_prefix")),
	}
	if cfg.Type == "" {
		cfg.Type = src.Name + "Builder"
	}
	if cfg.Finish == "" {
		cfg.Finish = "Build"
	}
	return cfg, true
}

// builderBridge 只在 unwrap 方向、存在排除字段、且源结构体带 @Builder 时生成
//
//	func (b *SBuilder) FromG(g G) GRemaining   按声明顺序设置所有非排除字段
//	type GRemaining struct{ builder *SBuilder } 只暴露排除字段的 setter 与 finish
//
// 返回剩余状态类型名
func (p *plan) builderBridge() (string, error) {
	if p.dir != Unwrap || !p.hasExcluded() {
		return "", nil
	}
	cfg, ok := ParseBuilderConfig(p.src)
	if !ok {
		return "", nil
	}

	remaining := p.name + "Remaining"
	from := "From" + p.name
	args := strings.TrimPrefix(p.genType, p.name)
	builderType := "*" + cfg.Type + args
	remainingType := remaining + args

	setters := lo.Map(p.excluded(), func(fp *fieldPlan, _ int) string { return cfg.SetterPrefix + fp.Name })
	for _, reserved := range []string{"Builder", cfg.Finish} {
		if lo.Contains(setters, reserved) {
			return "", fmt.Errorf("%s: 排除字段的 setter %s 与 %s.%s 重名", p.src.Name, reserved, remaining, reserved)
		}
	}

	b := utils.UniqueName("b", p.used)
	r := utils.UniqueName("r", p.used)

	// FromG
	body := lo.Map(p.kept(), func(fp *fieldPlan, _ int) jen.Code {
		value := jen.Id(p.recv).Dot(fp.Name)
		if fp.disp == Transformed {
			value = p.some(value)
		}
		return jen.Id(b).Dot(cfg.SetterPrefix + fp.Name).Call(value)
	})
	body = append(body, jen.Return(jen.Id(remainingType).Values(jen.Id("builder").Op(":").Id(b))))
	p.decls = append(p.decls, jen.Commentf("%s 用 %s 设置除排除字段外的所有字段，返回只剩排除字段待设置的 %s", from, p.name, remaining).Line().
		Func().Params(jen.Id(b).Id(builderType)).Id(from).Params(jen.Id(p.recv).Id(p.genType)).Id(remainingType).
		Block(body...))

	// GRemaining
	p.decls = append(p.decls, jen.Commentf("%s 已由 %s 填充的构建器，只剩排除字段", remaining, p.name).Line().
		Add(p.withTypes(jen.Type().Id(remaining))).Struct(jen.Id("builder").Id(builderType)))

	for _, fp := range p.excluded() {
		setter := cfg.SetterPrefix + fp.Name
		p.decls = append(p.decls, jen.Commentf("%s 设置排除字段 %s", setter, fp.Name).Line().
			Func().Params(jen.Id(r).Id(remainingType)).Id(setter).Params(jen.Id(fp.param).Id(fp.Type)).Id(remainingType).
			Block(
				jen.Id(r).Dot("builder").Dot(setter).Call(jen.Id(fp.param)),
				jen.Return(jen.Id(r)),
			))
	}

	p.decls = append(p.decls,
		jen.Comment("Builder 返回底层构建器").Line().
			Func().Params(jen.Id(r).Id(remainingType)).Id("Builder").Params().Id(builderType).
			Block(jen.Return(jen.Id(r).Dot("builder"))),
		jen.Commentf("%s 完成构建，字段是否齐全由构建器校验", cfg.Finish).Line().
			Func().Params(jen.Id(r).Id(remainingType)).Id(cfg.Finish).Params().Params(jen.Id(p.srcType), jen.Error()).
			Block(jen.Return(jen.Id(r).Dot("builder").Dot(cfg.Finish).Call())),
	)

	p.routines = append(p.routines, from)
	return remaining, nil
}
