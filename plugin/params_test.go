package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testParams struct {
	Name    string   `param:"name=name,required=false,default=,description=生成结构体名称"`
	Suffix  string   `param:"name=suffix,required=false,default=Form,description=名称后缀"`
	Derives []string `param:"name=derives,required=false,default=,description=附加派生"`
	Depth   int      `param:"name=depth,required=false,default=1,description=深度"`
	Strict  bool     `param:"name=strict,required=false,default=false,description=严格模式"`
	Ignored string
}

type requiredParams struct {
	Target string `param:"name=target,required=true,default=,description=目标"`
}

func TestParseParamsFromStruct(t *testing.T) {
	params := ParseParamsFromStruct(testParams{})
	require.Len(t, params, 5)

	assert.Equal(t, ParamDef{Name: "name", Description: "生成结构体名称"}, params[0])
	assert.Equal(t, "Form", params[1].Default)
	assert.Equal(t, "derives", params[2].Name)

	assert.Equal(t, params, ParseParamsFromStruct(&testParams{}))
	assert.Empty(t, ParseParamsFromStruct(struct{}{}))
	assert.Nil(t, ParseParamsFromStruct(42))

	req := ParseParamsFromStruct(requiredParams{})
	assert.True(t, req[0].Required)
}

func TestParseAnnotationParams(t *testing.T) {
	defs := ParseParamsFromStruct(testParams{})

	ann := ParseAnnotations("// @Unwrapped(name=Draft, derives=`Equal|Stringer`, depth=3, strict=true)")[0]
	var params testParams
	require.NoError(t, ParseAnnotationParams(ann, &params, defs))

	assert.Equal(t, "Draft", params.Name)
	assert.Equal(t, "Form", params.Suffix)
	assert.Equal(t, []string{"Equal", "Stringer"}, params.Derives)
	assert.Equal(t, 3, params.Depth)
	assert.True(t, params.Strict)
}

func TestParseAnnotationParams_Errors(t *testing.T) {
	var params testParams
	ann := ParseAnnotations("// @Unwrapped(depth=deep)")[0]
	err := ParseAnnotationParams(ann, &params, ParseParamsFromStruct(testParams{}))
	assert.ErrorContains(t, err, "depth")

	ann = ParseAnnotations("// @Unwrapped(strict=maybe)")[0]
	assert.Error(t, ParseAnnotationParams(ann, &params, nil))

	var req requiredParams
	ann = ParseAnnotations("// @Demo")[0]
	assert.ErrorContains(t, ParseAnnotationParams(ann, &req, ParseParamsFromStruct(requiredParams{})), "缺少必填参数 target")

	assert.Error(t, ParseAnnotationParams(ann, params, nil))
}

func TestSplitPairs(t *testing.T) {
	pairs := SplitPairs(`skip,default=a\,b,tag=validate:"required",tag=json:"x"`)
	assert.Equal(t, []KeyValue{
		{Key: "skip"},
		{Key: "default", Value: "a,b"},
		{Key: "tag", Value: `validate:"required"`},
		{Key: "tag", Value: `json:"x"`},
	}, pairs)

	assert.Equal(t, map[string]string{"tag": `json:"x"`, "skip": "", "default": "a,b"},
		splitTag(`skip,default=a\,b,tag=validate:"required",tag=json:"x"`))
	assert.Empty(t, SplitPairs(""))
}

func TestBaseGenerator_NewParams(t *testing.T) {
	gen := NewBaseGeneratorWithParamsStruct("demo", []string{"Demo"}, []TargetKind{TargetStruct}, testParams{})

	p1, ok := gen.NewParams().(*testParams)
	require.True(t, ok)
	p2 := gen.NewParams().(*testParams)
	p1.Name = "changed"
	assert.Empty(t, p2.Name)

	assert.Nil(t, NewBaseGenerator("plain", nil, nil).NewParams())
	assert.Equal(t, 100, gen.Priority())
	assert.Equal(t, 5, gen.SetPriority(5).Priority())
	assert.True(t, gen.Supports(TargetStruct))
	assert.False(t, gen.Supports(TargetType))
}
