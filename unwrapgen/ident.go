package unwrapgen

// Ident 计算生成结构体名
// base 为 name 或 source，候选名为 prefix+base+suffix；
// 候选名与 source 相同时返回 source+fallback，保证不与源类型重名
func Ident(source, name, prefix, suffix, fallback string) string {
	base := source
	if name != "" {
		base = name
	}
	candidate := prefix + base + suffix
	if candidate == source {
		return source + fallback
	}
	return candidate
}
