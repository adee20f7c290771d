package structparse

// ImportInfo 导入信息
type ImportInfo struct {
	Alias       string // 显式别名（如果有）
	PackageName string // 源码中引用该包使用的名称
	ImportPath  string // 完整导入路径
}

// TypeParam 泛型参数
type TypeParam struct {
	Name       string // 参数名，如 T
	Constraint string // 约束源码，如 any、~int | ~string
}

// FieldInfo 表示结构体字段信息
type FieldInfo struct {
	Name     string // 字段名；嵌入字段为类型名
	Type     string // 字段类型源码
	Tag      string // 字段标签（含反引号）
	Embedded bool   // 是否为匿名嵌入字段
	Doc      string // 字段注释
}

// StructInfo 表示结构体信息
type StructInfo struct {
	Name        string       // 结构体名称
	PackageName string       // 包名
	FilePath    string       // 结构体所在文件路径
	Doc         string       // 结构体文档注释
	TypeParams  []TypeParam  // 泛型参数
	Fields      []FieldInfo  // 字段列表
	Imports     []ImportInfo // 源文件导入
}

// ImportByName 按源码中的引用名查找导入
func (s *StructInfo) ImportByName(name string) (ImportInfo, bool) {
	for _, imp := range s.Imports {
		if imp.PackageName == name {
			return imp, true
		}
	}
	return ImportInfo{}, false
}

// ImportByPath 按导入路径查找导入
func (s *StructInfo) ImportByPath(path string) (ImportInfo, bool) {
	for _, imp := range s.Imports {
		if imp.ImportPath == path {
			return imp, true
		}
	}
	return ImportInfo{}, false
}
