package unwrapgen

import (
	"slices"

	"github.com/samber/lo"
)

// BaselineDerives 始终附加的派生
var BaselineDerives = []string{"Clone", "Debug", "Default"}

// Options 结构体级生成选项
type Options struct {
	Name    string // 完整覆盖生成名
	Prefix  string
	Suffix  string
	Derives []string // 在 BaselineDerives 之外附加的派生
	Attrs   []string // 结构体注释，支持 text/template

	// FieldTags 字段名 -> 附加标签
	FieldTags map[string][]string
}

// NewOptions 创建空选项
func NewOptions() *Options {
	return &Options{FieldTags: make(map[string][]string)}
}

// WithName 设置生成名
func (o *Options) WithName(name string) *Options {
	o.Name = name
	return o
}

// WithPrefix 设置前缀
func (o *Options) WithPrefix(prefix string) *Options {
	o.Prefix = prefix
	return o
}

// WithSuffix 设置后缀
func (o *Options) WithSuffix(suffix string) *Options {
	o.Suffix = suffix
	return o
}

// WithDerive 附加派生
func (o *Options) WithDerive(names ...string) *Options {
	o.Derives = append(o.Derives, names...)
	return o
}

// WithAttr 附加结构体注释
func (o *Options) WithAttr(attr string) *Options {
	o.Attrs = append(o.Attrs, attr)
	return o
}

// WithFieldTag 给指定字段附加标签
func (o *Options) WithFieldTag(field, tag string) *Options {
	if o.FieldTags == nil {
		o.FieldTags = make(map[string][]string)
	}
	o.FieldTags[field] = append(o.FieldTags[field], tag)
	return o
}

// Ident 按选项计算生成名
func (o *Options) Ident(source string, dir Direction) string {
	if o == nil {
		return Ident(source, "", "", "", dir.FallbackSuffix())
	}
	return Ident(source, o.Name, o.Prefix, o.Suffix, dir.FallbackSuffix())
}

// derives 基础派生与附加派生合并去重
func (o *Options) derives() []string {
	if o == nil {
		return slices.Clone(BaselineDerives)
	}
	return lo.Uniq(append(slices.Clone(BaselineDerives), o.Derives...))
}

// FieldUsage 调用方为单个字段提供的行为
type FieldUsage struct {
	Tags    []string `yaml:"tags" json:"tags"`
	Default string   `yaml:"default" json:"default"`
}

// FieldTagFunc 在生成时为字段计算附加标签，ok 为 false 表示不附加
type FieldTagFunc func(f Field) (tag string, ok bool)

// Usage 调用方提供的覆盖项，不来自源码注解
type Usage struct {
	// Transform 字段名 -> 是否转换，缺省为 true
	Transform map[string]bool
	// Fields 字段名 -> 附加行为
	Fields map[string]FieldUsage
	// TagFunc 动态计算字段标签
	TagFunc FieldTagFunc
}

// NewUsage 创建空覆盖项
func NewUsage() *Usage {
	return &Usage{
		Transform: make(map[string]bool),
		Fields:    make(map[string]FieldUsage),
	}
}

// WithTransform 设置字段是否转换
func (u *Usage) WithTransform(field string, transform bool) *Usage {
	if u.Transform == nil {
		u.Transform = make(map[string]bool)
	}
	u.Transform[field] = transform
	return u
}

// WithField 设置字段行为
func (u *Usage) WithField(field string, fu FieldUsage) *Usage {
	if u.Fields == nil {
		u.Fields = make(map[string]FieldUsage)
	}
	u.Fields[field] = fu
	return u
}

// WithFieldTagFunc 设置动态标签函数
func (u *Usage) WithFieldTagFunc(fn FieldTagFunc) *Usage {
	u.TagFunc = fn
	return u
}

// transform 字段是否转换，未配置时为 true
func (u *Usage) transform(field string) bool {
	if u == nil {
		return true
	}
	v, ok := u.Transform[field]
	return !ok || v
}

func (u *Usage) field(name string) (FieldUsage, bool) {
	if u == nil {
		return FieldUsage{}, false
	}
	fu, ok := u.Fields[name]
	return fu, ok
}
