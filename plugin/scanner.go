package plugin

import (
	"bufio"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Scanner 两阶段并行注解扫描器
// 第一阶段：快速文本匹配，找出可能包含注解的文件
// 第二阶段：对匹配的文件进行 AST 解析
type Scanner struct {
	workers int
	verbose bool

	// 注解过滤器（可选）
	annotationFilter []string
}

// ScannerOption 扫描器选项
type ScannerOption func(*Scanner)

// WithWorkers 设置并发解析文件的 worker 数，n <= 0 时保持默认值
func WithWorkers(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithScannerVerbose(v bool) ScannerOption {
	return func(s *Scanner) {
		s.verbose = v
	}
}

func WithAnnotationFilter(annotations ...string) ScannerOption {
	return func(s *Scanner) {
		s.annotationFilter = annotations
	}
}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeneratedSuffixes 生成文件的后缀，扫描和 dev 模式都会忽略
var GeneratedSuffixes = []string{"_test.go", "_unwrapped.go", "_wrapped.go", "_gen.go"}

// IsGeneratedFile 判断是否为生成文件或测试文件
func IsGeneratedFile(path string) bool {
	base := filepath.Base(path)
	return slices.ContainsFunc(GeneratedSuffixes, func(suffix string) bool {
		return strings.HasSuffix(base, suffix)
	})
}

// quickMatchRegex 快速匹配注解的正则
var quickMatchRegex = regexp.MustCompile(`@(\w+)`)

// directiveMarker 包级配置指令
const directiveMarker = "go:unwrapgen:"

// Scan 扫描指定路径
// 支持: ./... ./pkg/... ./pkg /abs/path/... file.go
func (s *Scanner) Scan(ctx context.Context, patterns ...string) (*ScanResult, error) {
	allFiles, err := s.collectFiles(patterns)
	if err != nil {
		return nil, err
	}

	if len(allFiles) == 0 {
		return &ScanResult{}, nil
	}

	// ========== 第一阶段：快速匹配 ==========
	matchedFiles := runParallel(ctx, s.workers, allFiles, func(file string) (string, bool) {
		matched, err := s.QuickMatchFile(file)
		return file, err == nil && matched
	})
	if s.verbose {
		fmt.Printf("[scanner] 共 %d 个文件，%d 个可能包含注解\n", len(allFiles), len(matchedFiles))
	}

	if len(matchedFiles) == 0 {
		return &ScanResult{}, nil
	}

	// ========== 第二阶段：AST 解析 ==========
	parsed := runParallel(ctx, s.workers, matchedFiles, func(file string) (*fileResult, bool) {
		r := s.parseFile(file)
		if r.err != nil && s.verbose {
			fmt.Printf("[scanner] 跳过 %s: %v\n", file, r.err)
		}
		return r, r.err == nil
	})

	return s.collectResults(parsed), ctx.Err()
}

// runParallel 使用 workers 个协程处理 items，保留 fn 返回 true 的结果
// 结果顺序与输入一致
func runParallel[T any](ctx context.Context, workers int, items []string, fn func(string) (T, bool)) []T {
	type indexed struct {
		idx   int
		value T
		ok    bool
	}

	resultCh := make(chan indexed, len(items))
	idxCh := make(chan int, len(items))

	var wg sync.WaitGroup
	for i := 0; i < max(workers, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-idxCh:
					if !ok {
						return
					}
					v, keep := fn(items[idx])
					resultCh <- indexed{idx: idx, value: v, ok: keep}
				}
			}
		}()
	}

	for i := range items {
		idxCh <- i
	}
	close(idxCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	collected := make([]indexed, 0, len(items))
	for r := range resultCh {
		if r.ok {
			collected = append(collected, r)
		}
	}
	slices.SortFunc(collected, func(a, b indexed) int { return a.idx - b.idx })

	out := make([]T, 0, len(collected))
	for _, r := range collected {
		out = append(out, r.value)
	}
	return out
}

// QuickMatchFile 快速检查文件是否包含注解或 go:unwrapgen: 配置
// 用于 dev 模式判断文件是否需要触发代码生成
func (s *Scanner) QuickMatchFile(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		// 只检查注释行
		if !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "/*") {
			continue
		}

		if strings.Contains(trimmed, directiveMarker) {
			return true, nil
		}

		for _, match := range quickMatchRegex.FindAllStringSubmatch(trimmed, -1) {
			if len(s.annotationFilter) == 0 || slices.Contains(s.annotationFilter, match[1]) {
				return true, nil
			}
		}
	}

	return false, scanner.Err()
}

// fileResult 单个文件的解析结果
type fileResult struct {
	structs    []*AnnotatedTarget
	interfaces []*AnnotatedTarget
	types      []*AnnotatedTarget
	pkgConfig  *PackageConfig
	err        error
}

// collectResults 汇总各文件结果并合并包级配置
func (s *Scanner) collectResults(files []*fileResult) *ScanResult {
	result := &ScanResult{
		PackageConfigs: make(map[string]*PackageConfig),
	}
	for _, r := range files {
		result.Structs = append(result.Structs, r.structs...)
		result.Interfaces = append(result.Interfaces, r.interfaces...)
		result.Types = append(result.Types, r.types...)
		if r.pkgConfig == nil {
			continue
		}

		pkgDir := r.pkgConfig.PackageDir
		existing, ok := result.PackageConfigs[pkgDir]
		if !ok {
			result.PackageConfigs[pkgDir] = r.pkgConfig
			continue
		}
		// 合并配置：如果新配置有值，覆盖旧配置
		if r.pkgConfig.DefaultOutput != "" {
			if existing.DefaultOutput != "" && existing.DefaultOutput != r.pkgConfig.DefaultOutput {
				fmt.Printf("警告: 包 %s 中存在多个不同的 %s 默认输出配置，使用后发现的配置\n", pkgDir, directiveMarker)
			}
			existing.DefaultOutput = r.pkgConfig.DefaultOutput
		}
		for k, v := range r.pkgConfig.PluginOutputs {
			if existingV, ok := existing.PluginOutputs[k]; ok && existingV != v {
				fmt.Printf("警告: 包 %s 中插件 %s 存在多个不同的输出配置，使用后发现的配置\n", pkgDir, k)
			}
			existing.PluginOutputs[k] = v
		}
	}
	return result
}

// parseFile AST 解析单个文件
func (s *Scanner) parseFile(filePath string) *fileResult {
	result := &fileResult{}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		result.err = err
		return result
	}

	result.pkgConfig = s.parsePackageConfig(file, filePath)

	for _, decl := range file.Decls {
		if d, ok := decl.(*ast.GenDecl); ok && d.Tok == token.TYPE {
			s.parseTypeDecl(filePath, file.Name.Name, d, result)
		}
	}

	return result
}

// parseTypeDecl 解析类型声明
// 注解可以写在 type 关键字上方，也可以写在分组声明内的单个类型上方
func (s *Scanner) parseTypeDecl(filePath, packageName string, decl *ast.GenDecl, result *fileResult) {
	var declDoc string
	if decl.Doc != nil {
		declDoc = decl.Doc.Text()
	}

	for _, spec := range decl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		doc := declDoc
		if typeSpec.Doc != nil {
			doc = typeSpec.Doc.Text()
		}
		annotations := ParseAnnotations(doc)
		if len(s.annotationFilter) > 0 {
			annotations = FilterByNames(annotations, s.annotationFilter...)
		}
		if len(annotations) == 0 {
			continue
		}

		target := &Target{
			Name:        typeSpec.Name.Name,
			PackageName: packageName,
			FilePath:    filePath,
			Position:    typeSpec.Pos(),
			Node:        typeSpec,
		}
		annotated := &AnnotatedTarget{Target: target, Annotations: annotations}

		switch typeSpec.Type.(type) {
		case *ast.StructType:
			target.Kind = TargetStruct
			result.structs = append(result.structs, annotated)
		case *ast.InterfaceType:
			target.Kind = TargetInterface
			result.interfaces = append(result.interfaces, annotated)
		default:
			target.Kind = TargetType
			result.types = append(result.types, annotated)
		}
	}
}

// collectFiles 收集所有需要扫描的文件
func (s *Scanner) collectFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		recursive := strings.HasSuffix(pattern, "/...")
		if recursive {
			pattern = strings.TrimSuffix(pattern, "/...")
		}
		if pattern == "" {
			pattern = "."
		}

		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if strings.HasSuffix(absPath, ".go") {
				add(absPath)
			}
			continue
		}

		err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != absPath && (!recursive || skipDir(d.Name())) {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasSuffix(path, ".go") && !IsGeneratedFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// skipDir 递归扫描时跳过的目录
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == "testdata"
}

// CollectDirs 按与扫描相同的规则展开路径模式，返回目录的绝对路径
// dev 模式用它确定监听范围
func CollectDirs(patterns []string) ([]string, error) {
	var dirs []string
	for _, pattern := range patterns {
		recursive := strings.HasSuffix(pattern, "/...")
		pattern = strings.TrimSuffix(pattern, "/...")
		if pattern == "" {
			pattern = "."
		}

		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			continue
		}
		if !recursive {
			dirs = append(dirs, absPath)
			continue
		}

		err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return err
			}
			if path != absPath && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return lo.Uniq(dirs), nil
}

// directiveRegex 匹配 go:unwrapgen: 指令
// 支持两种格式：//go:unwrapgen: 和 // go:unwrapgen:
var directiveRegex = regexp.MustCompile(`go:unwrapgen:\s*(.*)`)

// parsePackageConfig 解析包级 go:unwrapgen: 配置
// 支持格式:
//
//	//go:unwrapgen: -output `$FILE_gen`
//	// go:unwrapgen: plugin:unwrapped -output `forms_gen` plugin:wrapped -output `patch_gen`
func (s *Scanner) parsePackageConfig(file *ast.File, filePath string) *PackageConfig {
	var lines []string

	for _, cg := range file.Comments {
		for _, c := range cg.List {
			text := strings.TrimPrefix(c.Text, "//")
			text = strings.TrimPrefix(text, "/*")
			text = strings.TrimSuffix(text, "*/")
			text = strings.TrimSpace(text)

			if matches := directiveRegex.FindStringSubmatch(text); len(matches) > 1 {
				lines = append(lines, matches[1])
			}
		}
	}

	if len(lines) == 0 {
		return nil
	}

	if len(lines) > 1 {
		fmt.Printf("警告: 文件 %s 定义了多个 %s 指令，将被忽略\n", filePath, directiveMarker)
		return nil
	}

	return parseDirectiveLine(lines[0], filePath)
}

// parseDirectiveLine 解析单行 go:unwrapgen: 配置
// 格式:
//
//	-output `xxx`                                                // 默认输出
//	plugin:unwrapped -output `xxx` plugin:wrapped -output `yyy`  // 插件特定输出
func parseDirectiveLine(line string, filePath string) *PackageConfig {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	config := &PackageConfig{
		PackageDir:    filepath.Dir(filePath),
		PluginOutputs: make(map[string]string),
	}

	parts := splitDirectiveArgs(line)

	var currentPlugin string
	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "plugin:") {
			currentPlugin = strings.ToLower(strings.TrimPrefix(part, "plugin:"))
		} else if part == "-output" && i+1 < len(parts) {
			i++
			output := trimQuotes(parts[i])
			if currentPlugin == "" {
				config.DefaultOutput = output
			} else {
				config.PluginOutputs[currentPlugin] = output
			}
		}
	}

	if config.DefaultOutput == "" && len(config.PluginOutputs) == 0 {
		return nil
	}

	return config
}

// splitDirectiveArgs 分割指令参数，支持引号内的空格
func splitDirectiveArgs(line string) []string {
	var parts []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case !inQuote && (c == '`' || c == '"' || c == '\''):
			inQuote = true
			quoteChar = c
			current.WriteByte(c)
		case inQuote && c == quoteChar:
			inQuote = false
			quoteChar = 0
			current.WriteByte(c)
		case !inQuote && c == ' ':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// trimQuotes 去除引号
func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '`' && s[len(s)-1] == '`') ||
			(s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
