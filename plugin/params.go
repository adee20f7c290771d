package plugin

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// ParseParamsFromStruct 从结构体的tag解析参数定义
// 支持的tag: name, required, default, description
//
// 示例:
//
//	type Params struct {
//	    Name    string   `param:"name=name,required=false,default=,description=生成结构体名称"`
//	    Derives []string `param:"name=derives,required=false,default=,description=附加派生方法"`
//	}
//
//	params := plugin.ParseParamsFromStruct(Params{})
func ParseParamsFromStruct(v any) []ParamDef {
	val := reflect.ValueOf(v)
	typ := val.Type()

	// 如果是指针,解引用
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	// 必须是结构体
	if typ.Kind() != reflect.Struct {
		return nil
	}

	var params []ParamDef

	// 遍历所有字段
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		// 获取 param tag
		tag := field.Tag.Get("param")
		if tag == "" {
			continue
		}

		// 解析tag
		paramDef := parseParamTag(tag)
		if paramDef.Name != "" {
			params = append(params, paramDef)
		}
	}

	return params
}

// parseParamTag 解析 param tag 字符串
// 格式: name=xxx,required=true,default=xxx,description=xxx
func parseParamTag(tag string) ParamDef {
	var param ParamDef

	// 简单的键值对解析
	pairs := splitTag(tag)
	for key, value := range pairs {
		switch key {
		case "name":
			param.Name = value
		case "required":
			param.Required = cast.ToBool(value)
		case "default":
			param.Default = value
		case "description":
			param.Description = value
		}
	}

	return param
}

// KeyValue 有序键值对
type KeyValue struct {
	Key   string
	Value string
}

// splitTag 分割tag字符串为键值对，重复的 key 以最后一次为准
// 格式: key1=value1,key2=value2,...
func splitTag(tag string) map[string]string {
	result := make(map[string]string)
	for _, kv := range SplitPairs(tag) {
		result[kv.Key] = kv.Value
	}
	return result
}

// SplitPairs 按顺序分割 key1=value1,key2,... 形式的字符串
// 反斜杠转义下一个字符（如 \, 表示字面逗号），没有 = 的项值为空
func SplitPairs(tag string) []KeyValue {
	var result []KeyValue

	var key, value strings.Builder
	inKey := true
	escaped := false

	flush := func() {
		if k := strings.TrimSpace(key.String()); k != "" {
			result = append(result, KeyValue{Key: k, Value: value.String()})
		}
		key.Reset()
		value.Reset()
		inKey = true
	}

	for i := 0; i < len(tag); i++ {
		ch := tag[i]

		cur := &value
		if inKey {
			cur = &key
		}

		if escaped {
			cur.WriteByte(ch)
			escaped = false
			continue
		}

		switch {
		case ch == '\\':
			escaped = true
		case ch == '=' && inKey:
			inKey = false
		case ch == ',':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()

	return result
}

// ParseParamBool 解析参数为bool值，无法识别时返回 false
func ParseParamBool(value string) bool {
	return cast.ToBool(strings.TrimSpace(value))
}

// ParseAnnotationParams 将注解的参数解析到目标结构体中
// annotation: 注解对象，包含参数键值对
// target: 目标结构体（必须是非 nil 指针）
// paramDefs: 参数定义列表，用于应用默认值
//
// 示例:
//
//	var params Params
//	err := plugin.ParseAnnotationParams(annotation, &params, paramDefs)
func ParseAnnotationParams(annotation *Annotation, target any, paramDefs []ParamDef) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("参数目标必须是非 nil 指针, 得到: %T", target)
	}

	val = val.Elem()
	typ := val.Type()
	if typ.Kind() != reflect.Struct {
		return fmt.Errorf("参数目标必须指向结构体, 得到: %T", target)
	}

	defMap := make(map[string]ParamDef)
	for _, def := range paramDefs {
		defMap[def.Name] = def
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		tag := field.Tag.Get("param")
		if tag == "" {
			continue
		}

		paramDef := parseParamTag(tag)
		paramName := paramDef.Name
		if paramName == "" {
			continue
		}

		paramValue, present := annotation.Params[strings.ToLower(paramName)]
		if !present || paramValue == "" {
			def, ok := defMap[paramName]
			if !ok {
				def = paramDef
			}
			if def.Required && !present {
				return fmt.Errorf("@%s 缺少必填参数 %s", annotation.Name, paramName)
			}
			paramValue = def.Default
		}

		if err := setFieldValue(fieldVal, paramValue); err != nil {
			return fmt.Errorf("@%s 参数 %s=%q 无效: %w", annotation.Name, paramName, paramValue, err)
		}
	}

	return nil
}

// setFieldValue 设置字段值，支持 string、数值、bool 以及 []string
func setFieldValue(field reflect.Value, value string) error {
	value = strings.TrimSpace(value)

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(lo.Ternary(value == "", "0", value))
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(lo.Ternary(value == "", "0", value))
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Bool:
		if value == "" {
			field.SetBool(false)
			return nil
		}
		b, err := cast.ToBoolE(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(lo.Ternary(value == "", "0", value))
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("不支持的切片类型 %s", field.Type())
		}
		items := ParseListParam(value)
		slice := reflect.MakeSlice(field.Type(), len(items), len(items))
		for i, item := range items {
			slice.Index(i).SetString(item)
		}
		field.Set(slice)
	default:
		return fmt.Errorf("不支持的参数类型 %s", field.Type())
	}
	return nil
}
