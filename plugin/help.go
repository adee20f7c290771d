package plugin

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatHelpText 为所有注册的生成器生成帮助文本
// 参数名按显示宽度对齐，兼容中文描述
func FormatHelpText(registry *Registry) string {
	generators := registry.Generators()
	if len(generators) == 0 {
		return "  (暂无已注册的生成器)\n"
	}

	var sb strings.Builder

	for _, gen := range generators {
		annotations := gen.Annotations()
		if len(annotations) == 0 {
			continue
		}

		mainAnnotation := annotations[0]
		paramDefs := gen.ParamDefs()

		fmt.Fprintf(&sb, "  @%s - %s\n", mainAnnotation, gen.Name())
		sb.WriteString("    参数:\n")

		rows := [][2]string{{"output", "输出文件路径（支持 $FILE $PACKAGE $STRUCT）"}}
		for _, param := range paramDefs {
			rows = append(rows, [2]string{formatParamName(param), param.Description})
		}

		width := 0
		for _, row := range rows {
			width = max(width, runewidth.StringWidth(row[0]))
		}
		for _, row := range rows {
			fmt.Fprintf(&sb, "      %s  %s\n", runewidth.FillRight(row[0], width), row[1])
		}

		sb.WriteString("    示例:\n")
		fmt.Fprintf(&sb, "      @%s\n", mainAnnotation)
		fmt.Fprintf(&sb, "      @%s(output=`$FILE_gen`)\n", mainAnnotation)
		shown := 0
		for _, param := range paramDefs {
			if shown >= 2 {
				break // 只显示前2个参数的示例
			}
			if param.Default != "" {
				fmt.Fprintf(&sb, "      @%s(%s=`%s`)\n", mainAnnotation, param.Name, param.Default)
				shown++
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// formatParamName 参数名及必填/默认值标记
func formatParamName(param ParamDef) string {
	name := param.Name
	if param.Required {
		name += " (必填)"
	}
	if param.Default != "" {
		name += fmt.Sprintf(" [默认: %s]", param.Default)
	}
	return name
}

// FormatParamDef 格式化单个参数定义
func FormatParamDef(param ParamDef) string {
	parts := []string{param.Name}

	if param.Required {
		parts = append(parts, "required")
	} else {
		parts = append(parts, "optional")
	}

	if param.Default != "" {
		parts = append(parts, fmt.Sprintf("default=%s", param.Default))
	}

	if param.Description != "" {
		parts = append(parts, param.Description)
	}

	return strings.Join(parts, ", ")
}
