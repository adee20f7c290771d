// Package unwrapgen 根据带注解的结构体生成配套结构体及转换函数
//
// 两个方向互为镜像：
//
//   - @Unwrapped：源结构体中的 mo.Option[T] 字段在生成结构体中变为必填的 T
//   - @Wrapped：源结构体中的必填字段 T 在生成结构体中变为 mo.Option[T]
//
// 示例:
//
//	// @Unwrapped(suffix=Form)
//	type Profile struct {
//	    Nickname mo.Option[string]
//	    Age      mo.Option[int] `unwrapped:"default=18"`
//	    Email    string         `unwrapped:"skip"`
//	}
//
// 生成 ProfileForm，以及 TryNewProfileForm、(ProfileForm).IntoProfile 等转换函数。
// 字段指令写在结构体标签中，键为 unwrapped 或 wrapped:
//
//   - skip: 从生成结构体中排除该字段
//   - default=<表达式>: 缺失时使用的默认值
//   - tag=<标签>: 附加到生成字段的结构体标签，可重复
//
// Generate 是纯函数，不做 I/O，也不在调用之间保留状态；
// Generator 把它接入 plugin 框架。
package unwrapgen
