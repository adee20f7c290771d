package unwrapgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// UsageConfig -config 指定的覆盖项文件，YAML 或 JSON
//
//	structs:
//	  Profile:
//	    unwrapped:
//	      transform: {Age: false}
//	      fields:
//	        Nickname: {tags: ['validate:"required"'], default: '"anonymous"'}
//	    wrapped:
//	      fields:
//	        Age: {default: "18"}
//
// 结构体键可以是 Name 或 package.Name，后者优先
type UsageConfig struct {
	Structs map[string]StructUsage `yaml:"structs" json:"structs"`
}

// StructUsage 单个结构体两个方向的覆盖项
type StructUsage struct {
	Unwrapped *UsageSpec `yaml:"unwrapped" json:"unwrapped"`
	Wrapped   *UsageSpec `yaml:"wrapped" json:"wrapped"`
}

// UsageSpec 单个方向的覆盖项
// transform 的值接受 bool 或 "true"/"false"/"1"/"0"
type UsageSpec struct {
	Transform map[string]any        `yaml:"transform" json:"transform"`
	Fields    map[string]FieldUsage `yaml:"fields" json:"fields"`
}

// LoadUsageConfig 读取覆盖项文件，.json 使用 JSON 解析，其余按 YAML
func LoadUsageConfig(path string) (*UsageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return ParseUsageConfig(path, data)
}

// ParseUsageConfig 按文件扩展名解析覆盖项
func ParseUsageConfig(path string, data []byte) (*UsageConfig, error) {
	var cfg UsageConfig
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := sonic.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("解析 JSON 配置 %s 失败: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("解析 YAML 配置 %s 失败: %w", path, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("配置 %s: %w", path, err)
	}
	return &cfg, nil
}

// validate 检查所有 transform 值都能转换为 bool
func (c *UsageConfig) validate() error {
	for name, su := range c.Structs {
		for _, us := range []*UsageSpec{su.Unwrapped, su.Wrapped} {
			if _, err := us.usage(); err != nil {
				return fmt.Errorf("结构体 %s: %w", name, err)
			}
		}
	}
	return nil
}

// Usage 返回结构体在 dir 方向的覆盖项，未配置时返回 nil
func (c *UsageConfig) Usage(pkg, name string, dir Direction) *Usage {
	if c == nil {
		return nil
	}
	su, ok := c.Structs[pkg+"."+name]
	if !ok {
		su, ok = c.Structs[name]
	}
	if !ok {
		return nil
	}
	us := su.Unwrapped
	if dir == Wrap {
		us = su.Wrapped
	}
	usage, _ := us.usage()
	return usage
}

func (s *UsageSpec) usage() (*Usage, error) {
	if s == nil {
		return nil, nil
	}
	u := NewUsage()
	for field, v := range s.Transform {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, fmt.Errorf("字段 %s 的 transform=%v 无效", field, v)
		}
		u.WithTransform(field, b)
	}
	for field, fu := range s.Fields {
		u.WithField(field, fu)
	}
	return u, nil
}
