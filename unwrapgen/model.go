package unwrapgen

import (
	"github.com/donutnomad/unwrapgen/internal/xast"
	"github.com/donutnomad/unwrapgen/plugin"
)

const (
	// OptionImportPath 可选类型约定所在的包
	OptionImportPath = "github.com/samber/mo"
	// RuntimeImportPath 生成代码依赖的运行时包
	RuntimeImportPath = "github.com/donutnomad/unwrapgen/unwrapped"
)

// Direction 生成方向
type Direction int

const (
	Unwrap Direction = iota // Option[T] -> T
	Wrap                    // T -> Option[T]
)

func (d Direction) String() string {
	if d == Wrap {
		return "wrapped"
	}
	return "unwrapped"
}

// FallbackSuffix 生成名与源名相同时追加的后缀
func (d Direction) FallbackSuffix() string {
	if d == Wrap {
		return "W"
	}
	return "Uw"
}

// Annotation 对应的注解名
func (d Direction) Annotation() string {
	if d == Wrap {
		return "Wrapped"
	}
	return "Unwrapped"
}

// TagKey 字段指令使用的标签键
func (d Direction) TagKey() string { return d.String() }

// CounterpartMethod 源结构体上的能力标记方法
func (d Direction) CounterpartMethod() string {
	return d.Annotation() + "Counterpart"
}

// TypeParam 泛型参数
type TypeParam struct {
	Name       string
	Constraint string
}

// FieldDirective 字段指令
type FieldDirective struct {
	Skip    bool     // 排除该字段
	Default string   // 默认值表达式
	Tags    []string // 附加标签，如 validate:"required"
}

// Field 源结构体字段
type Field struct {
	Name      string
	Type      string // 类型源码
	Tag       string // 原始标签
	Doc       string
	Embedded  bool
	Directive FieldDirective
}

// Import 源文件的导入
type Import struct {
	Name  string // 源码中引用的包名
	Alias string // 显式别名
	Path  string
}

// Source 待生成的源结构体
type Source struct {
	Name        string
	Package     string
	TypeParams  []TypeParam
	Fields      []Field
	Annotations []*plugin.Annotation // 结构体上的全部注解，用于识别 @Builder
	Imports     []Import
}

// importByName 按引用名查找导入
func (s *Source) importByName(name string) (Import, bool) {
	for _, imp := range s.Imports {
		if imp.Name == name {
			return imp, true
		}
	}
	return Import{}, false
}

// Disposition 字段处理方式
type Disposition int

const (
	Unchanged   Disposition = iota // 类型不变，原样传递
	Transformed                    // 可选性翻转
	Excluded                       // 不出现在生成结构体中
)

func (d Disposition) String() string {
	switch d {
	case Transformed:
		return "transformed"
	case Excluded:
		return "excluded"
	default:
		return "unchanged"
	}
}

// EmittedField 生成结构体中的字段
type EmittedField struct {
	Name        string
	Type        string
	Tags        []xast.TagPair
	Doc         string
	Disposition Disposition
}

// Artifact 一次生成的结果
type Artifact struct {
	Name      string // 生成的结构体名
	Source    string
	Direction Direction
	Fields    []EmittedField
	Derives   []string
	Attrs     []string // 已展开的结构体注释
	Routines  []string // 生成的函数与方法名，按输出顺序
	Bridge    string   // 构建器桥接类型名，未生成时为空

	// Imports 生成代码需要的导入，key: 路径, value: 别名（空表示默认名）
	Imports map[string]string

	// Code 声明源码，不含 package 与 import
	Code string
}
