package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/donutnomad/gg"
	"github.com/donutnomad/unwrapgen/internal/utils"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/samber/lo"
)

// GeneratedHeader 生成文件头
const GeneratedHeader = "Code generated by unwrapgen. DO NOT EDIT."

// ErrStale -check 模式下生成结果与磁盘文件不一致
var ErrStale = errors.New("生成文件已过期")

// Run 运行代码生成
// 1. 扫描指定路径的注解
// 2. 将目标分发给对应的生成器
// 3. 执行生成器
// 4. 合并同一文件的 gg 定义并写入文件
func Run(ctx context.Context, registry *Registry, patterns ...string) error {
	opts := &RunOptions{
		Registry: registry,
		Patterns: patterns,
	}
	return RunWithOptions(ctx, opts)
}

// RunGlobal 使用全局注册表运行
func RunGlobal(ctx context.Context, patterns ...string) error {
	return Run(ctx, globalRegistry, patterns...)
}

// RunOptions 运行选项
type RunOptions struct {
	Registry *Registry
	Patterns []string
	Verbose  bool
	Output   string // 命令行指定的默认输出路径（最低优先级）
	Async    bool   // 是否异步执行生成器
	Check    bool   // 只比较不写入，存在差异时返回 ErrStale
	NoWrite  bool   // 只生成不写入，用于测试
	Workers  int    // 扫描并发数，<= 0 时使用 CPU 核数
}

// RunStats 运行统计信息
type RunStats struct {
	ScanDuration     time.Duration // 扫描耗时
	GenerateDuration time.Duration // 生成耗时
	TotalDuration    time.Duration // 总耗时
	TargetCount      int           // 目标数量
	FileCount        int           // 生成文件数量
	StaleFiles       []string      // -check 模式下过期的文件

	// Outputs 格式化后的输出，key: 文件路径
	Outputs map[string][]byte
}

// RunWithOptions 带选项运行
func RunWithOptions(ctx context.Context, opts *RunOptions) error {
	_, err := RunWithOptionsAndStats(ctx, opts)
	return err
}

// RunWithOptionsAndStats 带选项运行并返回统计信息
func RunWithOptionsAndStats(ctx context.Context, opts *RunOptions) (*RunStats, error) {
	totalStart := time.Now()
	stats := &RunStats{Outputs: make(map[string][]byte)}

	registry := opts.Registry
	if registry == nil {
		registry = globalRegistry
	}

	annotations := registry.Annotations()
	if len(annotations) == 0 {
		return nil, fmt.Errorf("没有已注册的生成器")
	}

	// 扫描
	scanStart := time.Now()
	scanner := NewScanner(
		WithAnnotationFilter(annotations...),
		WithScannerVerbose(opts.Verbose),
		WithWorkers(opts.Workers),
	)
	result, err := scanner.Scan(ctx, opts.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("扫描失败: %w", err)
	}
	stats.ScanDuration = time.Since(scanStart)

	if len(result.All()) == 0 {
		if opts.Verbose {
			fmt.Println("没有找到任何带注解的目标")
		}
		stats.TotalDuration = time.Since(totalStart)
		return stats, nil
	}

	stats.TargetCount = len(result.All())
	if opts.Verbose {
		fmt.Printf("找到 %d 个带注解的目标 (扫描耗时: %v)\n", stats.TargetCount, stats.ScanDuration)
	}

	generateStart := time.Now()

	dispatch := registry.DispatchTargets(result)
	allErrors := slices.Clone(dispatch.Unsupported)

	// 按优先级排序生成器名称（优先级数字越小越靠前）
	genNames := lo.Keys(dispatch.Targets)
	slices.SortFunc(genNames, func(a, b string) int {
		genA, _ := registry.GetByName(a)
		genB, _ := registry.GetByName(b)
		if genA.Priority() != genB.Priority() {
			return genA.Priority() - genB.Priority()
		}
		return strings.Compare(a, b)
	})

	// 先串行解析所有目标的参数（避免并发修改共享数据）
	for _, genName := range genNames {
		gen, _ := registry.GetByName(genName)
		allErrors = append(allErrors, parseTargetParams(gen, dispatch.Targets[genName])...)
	}

	// genResultItem 存储单个生成器的执行结果
	type genResultItem struct {
		genName string
		result  *GenerateResult
		err     error
	}

	executeGenerator := func(genName string) genResultItem {
		targets := dispatch.Targets[genName]
		gen, ok := registry.GetByName(genName)
		if !ok {
			return genResultItem{genName: genName}
		}

		if opts.Verbose {
			fmt.Printf("执行生成器: %s (开始处理 %d 个目标)\n", genName, len(targets))
		}

		genCtx := &GenerateContext{
			Targets:        targets,
			PackageConfigs: result.PackageConfigs,
			DefaultOutput:  opts.Output,
			Verbose:        opts.Verbose,
		}

		start := time.Now()
		genResult, err := gen.Generate(genCtx)
		if opts.Verbose {
			fmt.Printf("执行生成器: %s (耗时: %v)\n", genName, time.Since(start))
		}

		return genResultItem{genName: genName, result: genResult, err: err}
	}

	var items []genResultItem
	if opts.Async {
		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for _, genName := range genNames {
			wg.Add(1)
			go func() {
				defer wg.Done()
				item := executeGenerator(genName)
				mu.Lock()
				items = append(items, item)
				mu.Unlock()
			}()
		}
		wg.Wait()
	} else {
		for _, genName := range genNames {
			items = append(items, executeGenerator(genName))
		}
	}

	genResults := make(map[string]*GenerateResult)
	for _, item := range items {
		if item.err != nil {
			allErrors = append(allErrors, fmt.Errorf("生成器 %s 执行失败: %w", item.genName, item.err))
			continue
		}
		if item.result != nil {
			genResults[item.genName] = item.result
		}
	}

	// 收集 gg 定义，按文件分组；同一文件内按生成器优先级排列
	fileDefinitions := make(map[string][]*gg.Generator)
	fileGenNames := make(map[string][]string)
	for _, genName := range genNames {
		genResult, ok := genResults[genName]
		if !ok {
			continue
		}
		for path, def := range genResult.Definitions {
			fileDefinitions[path] = append(fileDefinitions[path], def)
			fileGenNames[path] = append(fileGenNames[path], genName)
		}
		allErrors = append(allErrors, genResult.Errors...)
	}

	paths := lo.Keys(fileDefinitions)
	slices.Sort(paths)
	for _, path := range paths {
		merged, err := mergeDefinitionsWithSeparator(fileDefinitions[path], fileGenNames[path])
		if err != nil {
			allErrors = append(allErrors, fmt.Errorf("合并文件 %s 的定义失败: %w", path, err))
			continue
		}

		content, err := utils.FormatSource(path, merged.Bytes())
		if err != nil {
			allErrors = append(allErrors, err)
			continue
		}
		stats.Outputs[path] = content

		switch {
		case opts.Check:
			if diff, stale := diffWithDisk(path, content); stale {
				stats.StaleFiles = append(stats.StaleFiles, path)
				fmt.Print(diff)
			}
		case opts.NoWrite:
		default:
			if err := writeFile(path, content); err != nil {
				allErrors = append(allErrors, fmt.Errorf("写入文件 %s 失败: %w", path, err))
				continue
			}
			stats.FileCount++
			fmt.Printf("生成文件: %s\n", path)
		}
	}

	stats.GenerateDuration = time.Since(generateStart)
	stats.TotalDuration = time.Since(totalStart)

	if len(allErrors) > 0 {
		for _, e := range allErrors {
			fmt.Printf("错误: %v\n", e)
		}
		return stats, fmt.Errorf("生成过程中出现 %d 个错误: %w", len(allErrors), errors.Join(allErrors...))
	}
	if len(stats.StaleFiles) > 0 {
		return stats, fmt.Errorf("%w: %s", ErrStale, strings.Join(stats.StaleFiles, ", "))
	}

	return stats, nil
}

// parseTargetParams 将目标上属于 gen 的注解参数解析到参数结构体
func parseTargetParams(gen Generator, targets []*AnnotatedTarget) []error {
	var errs []error
	paramDefs := gen.ParamDefs()
	for _, target := range targets {
		paramsProto := gen.NewParams()
		if paramsProto == nil {
			continue // 该生成器不需要参数
		}

		targetAnn, ok := lo.Find(target.Annotations, func(ann *Annotation) bool {
			return slices.Contains(gen.Annotations(), ann.Name)
		})
		if !ok {
			continue
		}

		val := reflect.ValueOf(paramsProto)
		if val.Kind() != reflect.Ptr {
			errs = append(errs, fmt.Errorf("NewParams() 必须返回指针类型, 得到: %T", paramsProto))
			continue
		}
		if err := ParseAnnotationParams(targetAnn, paramsProto, paramDefs); err != nil {
			errs = append(errs, fmt.Errorf("%s: 解析参数失败: %w", target.Target.Name, err))
			continue
		}
		target.setParams(gen.Name(), val.Elem().Interface())
	}
	return errs
}

// mergeDefinitionsWithSeparator 合并多个 gg.Generator 定义到一个文件，并添加分隔符
func mergeDefinitionsWithSeparator(definitions []*gg.Generator, genNames []string) (*gg.Generator, error) {
	if len(definitions) == 0 {
		return nil, fmt.Errorf("没有定义需要合并")
	}

	merged := gg.New()
	// 头注释与 package 之间空一行，避免成为包文档
	merged.SetHeader("%s\n", GeneratedHeader)

	var pkgName string
	for _, def := range definitions {
		if def.PackageName() != "" {
			if pkgName == "" {
				pkgName = def.PackageName()
			} else if pkgName != def.PackageName() {
				return nil, fmt.Errorf("包名不一致: %s vs %s", pkgName, def.PackageName())
			}
		}
	}
	if pkgName != "" {
		merged.SetPackage(pkgName)
	}

	// 不要手动收集 imports，Merge 会正确处理 imports 和别名
	for i, def := range definitions {
		if len(definitions) > 1 {
			genName := "unknown"
			if i < len(genNames) {
				genName = genNames[i]
			}
			merged.Body().AddLine()
			merged.Body().AddString(fmt.Sprintf("// ================ %s ================", genName))
			merged.Body().AddLine()
		}
		merged.Merge(def)
	}

	return merged, nil
}

// writeFile 写入已格式化的内容
func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}
	return os.WriteFile(path, content, 0644)
}

// diffWithDisk 比较生成内容与磁盘文件，返回 unified diff
func diffWithDisk(path string, content []byte) (string, bool) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Sprintf("读取 %s 失败: %v\n", path, err), true
	}
	if bytes.Equal(existing, content) {
		return "", false
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(string(content)),
		FromFile: path + " (磁盘)",
		ToFile:   path + " (生成)",
		Context:  3,
	})
	return diff, true
}

// GetOutputPath 根据注解参数和默认规则计算输出路径
// 优先级：注解参数 > 包级插件配置 > 包级默认配置 > 命令行参数 > 默认文件名
// 模板变量：
//   - $FILE: 源文件名（不含 .go 后缀）
//   - $PACKAGE: 包名
//   - $STRUCT: 类型名
func GetOutputPath(target *Target, ann *Annotation, defaultFileName string, pkgConfig *PackageConfig, pluginName string, cmdOutput string) string {
	var output string

	if ann != nil {
		output = ann.GetParam("output")
	}

	if output == "" && pkgConfig != nil {
		output = pkgConfig.GetPluginOutput(strings.ToLower(pluginName))
	}

	if output == "" && cmdOutput != "" {
		output = cmdOutput
	}

	if output == "" {
		return GetDefaultOutputPath(target, defaultFileName)
	}

	output = replaceTemplateVars(output, target)

	if !strings.HasSuffix(output, ".go") {
		output += ".go"
	}

	if filepath.IsAbs(output) {
		return output
	}
	// 相对于源文件目录
	return filepath.Join(filepath.Dir(target.FilePath), output)
}

// replaceTemplateVars 替换模板变量
func replaceTemplateVars(template string, target *Target) string {
	fileName := strings.TrimSuffix(filepath.Base(target.FilePath), ".go")
	return strings.NewReplacer(
		"$FILE", fileName,
		"$PACKAGE", target.PackageName,
		"$STRUCT", utils.ToSnakeCase(target.Name),
	).Replace(template)
}

// GetDefaultOutputPath 获取默认输出路径
func GetDefaultOutputPath(target *Target, defaultFileName string) string {
	if defaultFileName == "" {
		defaultFileName = "$FILE_gen.go"
	}
	defaultFileName = replaceTemplateVars(defaultFileName, target)
	return filepath.Join(filepath.Dir(target.FilePath), defaultFileName)
}
