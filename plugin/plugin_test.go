package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/donutnomad/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type demoParams struct {
	Label string `param:"name=label,required=false,default=none,description=标签"`
}

func newMockDemo(t *testing.T, name string, annotations ...string) *MockGenerator {
	ctrl := gomock.NewController(t)
	m := NewMockGenerator(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	m.EXPECT().Annotations().Return(annotations).AnyTimes()
	m.EXPECT().SupportedTargets().Return([]TargetKind{TargetStruct}).AnyTimes()
	m.EXPECT().ParamDefs().Return(ParseParamsFromStruct(demoParams{})).AnyTimes()
	m.EXPECT().NewParams().DoAndReturn(func() any { return &demoParams{} }).AnyTimes()
	m.EXPECT().Priority().Return(100).AnyTimes()
	return m
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const demoSource = `package demo

//go:unwrapgen: plugin:demo -output ` + "`demo_out`" + `

// User 用户
// @Demo(label=` + "`vip`" + `)
type User struct {
	Name string
}

type (
	// @Demo
	Order struct{ ID int }

	// 无注解
	Item struct{}
)

// @Demo
type Status int

// @Demo
type Store interface{ Get() }
`

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	gen := newMockDemo(t, "demo", "Demo", "DemoAlias")

	require.NoError(t, registry.Register(gen))
	assert.True(t, registry.IsRegistered("Demo"))
	assert.Equal(t, []string{"Demo", "DemoAlias"}, registry.Annotations())

	got, ok := registry.GetByAnnotation("DemoAlias")
	require.True(t, ok)
	assert.Equal(t, "demo", got.Name())

	err := registry.Register(newMockDemo(t, "other", "Demo"))
	assert.ErrorContains(t, err, "已被生成器")
	assert.ErrorContains(t, registry.Register(newMockDemo(t, "demo", "X")), "已注册")

	require.NoError(t, registry.Unregister("demo"))
	assert.False(t, registry.IsRegistered("Demo"))
	assert.Error(t, registry.Unregister("demo"))
	assert.Panics(t, func() {
		registry.MustRegister(newMockDemo(t, "a", "Same"))
		registry.MustRegister(newMockDemo(t, "b", "Same"))
	})
}

func TestScanner(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "demo.go"), demoSource)
	writeTestFile(t, filepath.Join(dir, "demo_unwrapped.go"), "package demo\n\n// @Demo\ntype Gen struct{}\n")
	writeTestFile(t, filepath.Join(dir, "nested", "inner.go"), "package nested\n\n// @Demo\ntype Inner struct{}\n")

	scanner := NewScanner(WithAnnotationFilter("Demo"), WithWorkers(2))
	assert.Equal(t, 2, scanner.workers)
	assert.Positive(t, NewScanner(WithWorkers(0)).workers)

	result, err := scanner.Scan(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, result.Structs, 2)
	assert.Equal(t, "User", result.Structs[0].Target.Name)
	assert.Equal(t, "vip", result.Structs[0].Annotations[0].GetParam("label"))
	assert.Equal(t, "Order", result.Structs[1].Target.Name)
	assert.Equal(t, "demo", result.Structs[0].Target.PackageName)

	require.Len(t, result.Types, 1)
	assert.Equal(t, TargetType, result.Types[0].Target.Kind)
	require.Len(t, result.Interfaces, 1)
	assert.Len(t, result.ByAnnotation("Demo"), 4)

	cfg := result.PackageConfigs[dir]
	require.NotNil(t, cfg)
	assert.Equal(t, "demo_out", cfg.GetPluginOutput("demo"))
	assert.Equal(t, "", cfg.GetPluginOutput("other"))

	recursive, err := NewScanner(WithAnnotationFilter("Demo")).Scan(context.Background(), dir+"/...")
	require.NoError(t, err)
	assert.Len(t, recursive.Structs, 3)
}

func TestQuickMatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	writeTestFile(t, path, "package a\n\n// @Other\ntype A struct{}\n")

	matched, err := NewScanner(WithAnnotationFilter("Demo")).QuickMatchFile(path)
	require.NoError(t, err)
	assert.False(t, matched)

	matched, err = NewScanner().QuickMatchFile(path)
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestParseDirectiveLine(t *testing.T) {
	cfg := parseDirectiveLine("-output `$FILE_all` plugin:Unwrapped -output \"forms gen\" plugin:wrapped -output patch", "/src/pkg/a.go")
	require.NotNil(t, cfg)
	assert.Equal(t, "/src/pkg", cfg.PackageDir)
	assert.Equal(t, "$FILE_all", cfg.DefaultOutput)
	assert.Equal(t, "forms gen", cfg.GetPluginOutput("unwrapped"))
	assert.Equal(t, "patch", cfg.GetPluginOutput("wrapped"))
	assert.Equal(t, "$FILE_all", cfg.GetPluginOutput("other"))

	assert.Nil(t, parseDirectiveLine("plugin:x", "/a.go"))
	assert.Nil(t, parseDirectiveLine("", "/a.go"))
}

func TestGetOutputPath(t *testing.T) {
	target := &Target{Name: "UserProfile", PackageName: "demo", FilePath: "/src/demo/user.go"}
	cfg := &PackageConfig{PluginOutputs: map[string]string{"unwrapped": "$PACKAGE_forms"}}

	ann := ParseAnnotations("// @Unwrapped(output=`$STRUCT_form`)")[0]
	assert.Equal(t, "/src/demo/user_profile_form.go", GetOutputPath(target, ann, "$FILE_unwrapped.go", cfg, "unwrapped", ""))

	plain := ParseAnnotations("// @Unwrapped")[0]
	assert.Equal(t, "/src/demo/demo_forms.go", GetOutputPath(target, plain, "$FILE_unwrapped.go", cfg, "Unwrapped", ""))
	assert.Equal(t, "/tmp/out.go", GetOutputPath(target, plain, "$FILE_unwrapped.go", nil, "unwrapped", "/tmp/out"))
	assert.Equal(t, "/src/demo/user_unwrapped.go", GetOutputPath(target, plain, "$FILE_unwrapped.go", nil, "unwrapped", ""))
	assert.Equal(t, "/src/demo/user_gen.go", GetDefaultOutputPath(target, ""))
}

// demoGenerate 为每个目标生成一个常量，输出到 GetOutputPath 计算的文件
func demoGenerate(t *testing.T) func(ctx *GenerateContext) (*GenerateResult, error) {
	return labelGenerate(t, "demo", "Demo", "Label")
}

// labelGenerate 读取生成器 genName 的参数，为每个目标生成名为 <Name><suffix> 的常量
func labelGenerate(t *testing.T, genName, annName, suffix string) func(ctx *GenerateContext) (*GenerateResult, error) {
	return func(ctx *GenerateContext) (*GenerateResult, error) {
		result := NewGenerateResult()
		for _, at := range ctx.Targets {
			params, ok := at.ParamsFor(genName).(demoParams)
			require.True(t, ok)

			out := GetOutputPath(at.Target, GetAnnotation(at.Annotations, annName), "$FILE_gen.go",
				ctx.GetPackageConfig(at.Target.FilePath), genName, ctx.DefaultOutput)
			gen := result.Definitions[out]
			if gen == nil {
				gen = gg.New()
				gen.SetPackage(at.Target.PackageName)
				result.AddDefinition(out, gen)
			}
			gen.Body().AddString("const " + at.Target.Name + suffix + " = \"" + params.Label + "\"\n")
		}
		return result, nil
	}
}

func TestRunWithOptions(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "demo.go"), demoSource)

	gen := newMockDemo(t, "demo", "Demo")
	gen.EXPECT().Generate(gomock.Any()).DoAndReturn(demoGenerate(t)).Times(1)

	registry := NewRegistry()
	registry.MustRegister(gen)

	stats, err := RunWithOptionsAndStats(context.Background(), &RunOptions{
		Registry: registry,
		Patterns: []string{dir},
		NoWrite:  true,
	})
	// Status 与 Store 不是结构体
	require.Error(t, err)
	assert.ErrorContains(t, err, "不支持 type 类型 Status")
	assert.ErrorContains(t, err, "不支持 interface 类型 Store")

	out := filepath.Join(dir, "demo_out.go")
	require.Contains(t, stats.Outputs, out)
	content := string(stats.Outputs[out])
	assert.Contains(t, content, GeneratedHeader)
	assert.Contains(t, content, "package demo")
	assert.Contains(t, content, `const UserLabel = "vip"`)
	assert.Contains(t, content, `const OrderLabel = "none"`)
	assert.NoFileExists(t, out)
}

func TestRunWithOptions_ParamsPerGenerator(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "user.go"),
		"package demo\n\n// @Demo(label=`first`)\n// @Other(label=`second`)\ntype User struct{}\n")

	demo := newMockDemo(t, "demo", "Demo")
	demo.EXPECT().Generate(gomock.Any()).DoAndReturn(labelGenerate(t, "demo", "Demo", "Label")).Times(1)
	other := newMockDemo(t, "other", "Other")
	other.EXPECT().Generate(gomock.Any()).DoAndReturn(labelGenerate(t, "other", "Other", "OtherLabel")).Times(1)

	registry := NewRegistry()
	registry.MustRegister(demo)
	registry.MustRegister(other)

	stats, err := RunWithOptionsAndStats(context.Background(), &RunOptions{
		Registry: registry,
		Patterns: []string{dir},
		NoWrite:  true,
		Workers:  1,
	})
	require.NoError(t, err)

	content := string(stats.Outputs[filepath.Join(dir, "user_gen.go")])
	assert.Contains(t, content, `const UserLabel = "first"`)
	assert.Contains(t, content, `const UserOtherLabel = "second"`)
}

func TestRunWithOptions_Check(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "user.go"), "package demo\n\n// @Demo(label=`x`)\ntype User struct{}\n")

	gen := newMockDemo(t, "demo", "Demo")
	gen.EXPECT().Generate(gomock.Any()).DoAndReturn(demoGenerate(t)).Times(3)
	registry := NewRegistry()
	registry.MustRegister(gen)

	ctx := context.Background()
	stats, err := RunWithOptionsAndStats(ctx, &RunOptions{Registry: registry, Patterns: []string{dir}, Async: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FileCount)
	out := filepath.Join(dir, "user_gen.go")
	assert.FileExists(t, out)

	_, err = RunWithOptionsAndStats(ctx, &RunOptions{Registry: registry, Patterns: []string{dir}, Check: true})
	require.NoError(t, err)

	writeTestFile(t, out, "package demo\n")
	stats, err = RunWithOptionsAndStats(ctx, &RunOptions{Registry: registry, Patterns: []string{dir}, Check: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStale))
	assert.Equal(t, []string{out}, stats.StaleFiles)
}

func TestRunWithOptions_NoTargets(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "plain.go"), "package plain\n\ntype A struct{}\n")

	registry := NewRegistry()
	registry.MustRegister(newMockDemo(t, "demo", "Demo"))

	stats, err := RunWithOptionsAndStats(context.Background(), &RunOptions{Registry: registry, Patterns: []string{dir}})
	require.NoError(t, err)
	assert.Zero(t, stats.TargetCount)

	_, err = RunWithOptionsAndStats(context.Background(), &RunOptions{Registry: NewRegistry(), Patterns: []string{dir}})
	assert.ErrorContains(t, err, "没有已注册的生成器")
}

func TestIsGeneratedFile(t *testing.T) {
	assert.True(t, IsGeneratedFile("/a/user_unwrapped.go"))
	assert.True(t, IsGeneratedFile("user_wrapped.go"))
	assert.True(t, IsGeneratedFile("user_test.go"))
	assert.False(t, IsGeneratedFile("user.go"))
}

func TestCollectDirs(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a/b", "testdata/x", ".git", "_build", "vendor/m"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0755))
	}
	writeTestFile(t, filepath.Join(dir, "a", "a.go"), "package a\n")

	dirs, err := CollectDirs([]string{dir + "/...", dir})
	require.NoError(t, err)
	assert.Equal(t, []string{dir, filepath.Join(dir, "a"), filepath.Join(dir, "a", "b")}, dirs)

	dirs, err = CollectDirs([]string{filepath.Join(dir, "a"), filepath.Join(dir, "a", "a.go")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a")}, dirs)

	_, err = CollectDirs([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}
