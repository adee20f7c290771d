package utils

import (
	"fmt"
	"os"

	"golang.org/x/tools/imports"
)

// FormatSource 使用 goimports 规则格式化源码（整理 imports 并 gofmt）
func FormatSource(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("格式化 %s 失败: %w", filename, err)
	}
	return out, nil
}

// WriteFormat 格式化后写入文件
// 格式化失败时仍写入原始内容，便于排查生成结果
func WriteFormat(filename string, src []byte) error {
	formatted, err := FormatSource(filename, src)
	if err != nil {
		if werr := os.WriteFile(filename, src, 0644); werr != nil {
			return werr
		}
		return err
	}
	return os.WriteFile(filename, formatted, 0644)
}
