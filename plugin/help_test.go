package plugin

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator 只提供元信息的生成器
type stubGenerator struct {
	BaseGenerator
}

func (m *stubGenerator) Generate(ctx *GenerateContext) (*GenerateResult, error) {
	return NewGenerateResult(), nil
}

func newStubGenerator(name string, annotations []string, targets []TargetKind, params any) *stubGenerator {
	return &stubGenerator{
		BaseGenerator: *NewBaseGeneratorWithParamsStruct(name, annotations, targets, params),
	}
}

type helpParams struct {
	Name   string `param:"name=name,required=true,default=,description=生成结构体名称"`
	Suffix string `param:"name=suffix,required=false,default=Form,description=名称后缀"`
}

func TestFormatHelpText(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newStubGenerator("unwrapped", []string{"Unwrapped"}, []TargetKind{TargetStruct}, helpParams{})))

	helpText := FormatHelpText(registry)

	for _, expected := range []string{
		"@Unwrapped - unwrapped",
		"output",
		"name (必填)",
		"suffix [默认: Form]",
		"生成结构体名称",
		"示例:",
		"@Unwrapped(output=`$FILE_gen`)",
		"@Unwrapped(suffix=`Form`)",
	} {
		assert.Contains(t, helpText, expected)
	}
}

func TestFormatHelpText_Alignment(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newStubGenerator("unwrapped", []string{"Unwrapped"}, []TargetKind{TargetStruct}, helpParams{})))

	// 参数名列按显示宽度对齐，描述起始列一致
	var columns []int
	for _, line := range strings.Split(FormatHelpText(registry), "\n") {
		if idx := strings.Index(line, "生成结构体名称"); idx >= 0 {
			columns = append(columns, runewidth.StringWidth(line[:idx]))
		}
		if idx := strings.Index(line, "名称后缀"); idx >= 0 {
			columns = append(columns, runewidth.StringWidth(line[:idx]))
		}
	}
	require.Len(t, columns, 2)
	assert.Equal(t, columns[0], columns[1])
}

func TestFormatHelpText_MultipleGenerators(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newStubGenerator("wrapped", []string{"Wrapped"}, []TargetKind{TargetStruct}, helpParams{})))
	require.NoError(t, registry.Register(newStubGenerator("unwrapped", []string{"Unwrapped"}, []TargetKind{TargetStruct}, helpParams{})))

	helpText := FormatHelpText(registry)
	assert.Contains(t, helpText, "@Wrapped - wrapped")
	// 同优先级按名称排序
	assert.Less(t, strings.Index(helpText, "@Unwrapped"), strings.Index(helpText, "@Wrapped"))
}

func TestFormatHelpText_EmptyRegistry(t *testing.T) {
	assert.Contains(t, FormatHelpText(NewRegistry()), "(暂无已注册的生成器)")
}

func TestFormatParamDef(t *testing.T) {
	assert.Equal(t, "test, required, Test parameter",
		FormatParamDef(ParamDef{Name: "test", Required: true, Description: "Test parameter"}))
	assert.Equal(t, "opt, optional, default=x, Optional",
		FormatParamDef(ParamDef{Name: "opt", Default: "x", Description: "Optional"}))
}
