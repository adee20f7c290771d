// Package structparse 提供生成器使用的 Go 结构体静态解析。
//
// 只解析单个文件中的具名结构体声明，返回：
//
//  1. 结构体文档注释，供生成器读取 @Builder 等外部注解
//  2. 泛型参数及其约束
//  3. 按声明顺序排列的字段（名称、类型源码、原始标签）
//  4. 源文件的 imports（含显式别名）
//
// # 基本用法
//
//	info, err := structparse.ParseStruct("path/to/file.go", "Profile")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, field := range info.Fields {
//	    fmt.Printf("  字段: %s %s\n", field.Name, field.Type)
//	}
//
// # 嵌入字段
//
// 匿名嵌入字段不会展开，以 Embedded=true 返回，由调用方决定是否报错。
// 一行声明多个字段（A, B int）会拆分为多个 FieldInfo。
package structparse
