package unwrapped

// Unwrapped 由标注了 @Unwrapped 的原始结构体实现，U 为生成的 unwrap 结构体
type Unwrapped[U any] interface {
	UnwrappedCounterpart() U
}

// Wrapped 由标注了 @Wrapped 的原始结构体实现，W 为生成的 wrap 结构体
type Wrapped[W any] interface {
	WrappedCounterpart() W
}

// UnwrappedOf 返回 S 对应的 unwrap 结构体零值
func UnwrappedOf[U any, S Unwrapped[U]](src S) U {
	return src.UnwrappedCounterpart()
}

// WrappedOf 返回 S 对应的 wrap 结构体零值
func WrappedOf[W any, S Wrapped[W]](src S) W {
	return src.WrappedCounterpart()
}
