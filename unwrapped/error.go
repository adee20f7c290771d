// Package unwrapped 是生成代码的运行时支持包。
//
// 生成的 TryNewXxx / TryToXxx / IntoXxx 在可选字段缺失时返回 Error，
// 原始结构体通过 UnwrappedCounterpart / WrappedCounterpart 方法声明其生成的对应类型。
package unwrapped

import (
	"errors"
	"fmt"
)

// Error 表示转换时某个必填字段缺失
// FieldName 为原始结构体中声明的字段名
type Error struct {
	FieldName string
}

func (e Error) Error() string {
	return fmt.Sprintf("Failed to unwrap an Option for field '%s', found None", e.FieldName)
}

// Is 支持 errors.Is(err, Error{}) 匹配任意字段缺失错误
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}
	return t.FieldName == "" || t.FieldName == e.FieldName
}

// FieldOf 返回 err 链中第一个 Error 的字段名
func FieldOf(err error) (string, bool) {
	var e Error
	if errors.As(err, &e) {
		return e.FieldName, true
	}
	return "", false
}
