package xast

import (
	"fmt"
	"strconv"
	"strings"
)

// TagPair 结构体标签中的一个 key:"value"
type TagPair struct {
	Key   string
	Value string
}

// ParseTag 按出现顺序解析结构体标签
// 接受带或不带反引号的文本，如 `json:"name" validate:"required"`
func ParseTag(tag string) ([]TagPair, error) {
	tag = strings.TrimSpace(tag)
	if unq, err := strconv.Unquote(tag); err == nil && (strings.HasPrefix(tag, "`") || strings.HasPrefix(tag, `"`)) {
		tag = unq
	}

	var pairs []TagPair
	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			return nil, fmt.Errorf("标签格式错误: %q", tag)
		}
		key := tag[:i]
		tag = tag[i+1:]

		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			return nil, fmt.Errorf("标签 %s 缺少结束引号", key)
		}
		value, err := strconv.Unquote(tag[:i+1])
		if err != nil {
			return nil, fmt.Errorf("标签 %s 的值无效: %w", key, err)
		}
		tag = tag[i+1:]

		pairs = append(pairs, TagPair{Key: key, Value: value})
	}
	return pairs, nil
}

// MergeTags 依次合并多组标签，后出现的同名 key 覆盖之前的值，保持首次出现的顺序
func MergeTags(groups ...[]TagPair) []TagPair {
	var out []TagPair
	index := make(map[string]int)
	for _, group := range groups {
		for _, p := range group {
			if i, ok := index[p.Key]; ok {
				out[i].Value = p.Value
				continue
			}
			index[p.Key] = len(out)
			out = append(out, p)
		}
	}
	return out
}

// RemoveTag 删除指定 key
func RemoveTag(pairs []TagPair, key string) []TagPair {
	out := make([]TagPair, 0, len(pairs))
	for _, p := range pairs {
		if p.Key != key {
			out = append(out, p)
		}
	}
	return out
}

// LookupTag 查找 key 对应的值
func LookupTag(pairs []TagPair, key string) (string, bool) {
	for _, p := range pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// FormatTag 按顺序拼接为反引号包围的标签文本
// jen.Tag 会按 key 排序，这里保留合并后的顺序
func FormatTag(pairs []TagPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.Key+":"+strconv.Quote(p.Value))
	}
	return "`" + strings.Join(parts, " ") + "`"
}
