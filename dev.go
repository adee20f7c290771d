package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/donutnomad/unwrapgen/plugin"
	"github.com/donutnomad/unwrapgen/unwrapgen"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"golang.org/x/tools/imports"
)

// DevOptions dev 命令选项
type DevOptions struct {
	Patterns []string      // 监听的路径模式
	Verbose  bool          // 详细输出
	Output   string        // 默认输出路径
	Async    bool          // 异步执行
	Check    bool          // 只检查不写入
	Workers  int           // 扫描并发数
	Config   string        // -config 文件的绝对路径，变动时重新加载
	Debounce time.Duration // 防抖动时间
}

// devRunner 处理文件变动的核心逻辑
type devRunner struct {
	opts     *DevOptions
	registry *plugin.Registry
	watcher  *fsnotify.Watcher
	scanner  *plugin.Scanner
	ctx      context.Context // 用于响应退出信号

	// 防抖动相关
	mu          sync.Mutex
	pendingDirs map[string]*time.Timer // key: 包目录路径或配置文件路径
}

// runDev 启动开发模式
func runDev(args []string) {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	registry := plugin.Global()
	if len(registry.Generators()) == 0 {
		fmt.Fprintln(os.Stderr, "错误: 没有已注册的生成器")
		os.Exit(1)
	}

	opts := &DevOptions{
		Patterns: patterns,
		Verbose:  *verbose,
		Output:   outputPath(),
		Async:    *async,
		Check:    *check,
		Workers:  *workers,
		Debounce: time.Second,
	}
	if *configPath != "" {
		abs, err := filepath.Abs(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
			os.Exit(1)
		}
		opts.Config = abs
	}

	if err := dev(opts); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// dev 启动开发模式
func dev(opts *DevOptions) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n正在退出...")
		cancel()
	}()

	// 创建 watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	defer watcher.Close()

	registry := plugin.Global()
	annotations := registry.Annotations()

	runner := &devRunner{
		opts:        opts,
		registry:    registry,
		watcher:     watcher,
		scanner:     plugin.NewScanner(plugin.WithAnnotationFilter(annotations...)),
		ctx:         ctx,
		pendingDirs: make(map[string]*time.Timer),
	}

	// 清理函数：退出时停止所有待处理的定时器
	defer func() {
		runner.mu.Lock()
		for _, timer := range runner.pendingDirs {
			timer.Stop()
		}
		runner.mu.Unlock()
	}()

	// 收集并添加监听目录
	dirs, err := plugin.CollectDirs(opts.Patterns)
	if err != nil {
		return fmt.Errorf("收集监听目录失败: %w", err)
	}

	if len(dirs) == 0 {
		return fmt.Errorf("没有找到需要监听的目录")
	}

	if opts.Config != "" {
		dirs = append(dirs, filepath.Dir(opts.Config))
	}
	dirs = lo.Uniq(dirs)

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("添加监听目录失败 %s: %w", dir, err)
		}
		if opts.Verbose {
			fmt.Printf("监听目录: %s\n", dir)
		}
	}

	fmt.Printf("开发模式已启动，监听 %d 个目录\n", len(dirs))
	fmt.Println("按 Ctrl+C 退出")
	fmt.Println()

	// 启动事件处理循环
	return runner.watchLoop(ctx)
}

// watchLoop 事件处理循环
func (r *devRunner) watchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(event)

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			if r.opts.Verbose {
				fmt.Printf("监听错误: %v\n", err)
			}
		}
	}
}

// handleEvent 处理文件事件
func (r *devRunner) handleEvent(event fsnotify.Event) {
	// 只关注 Write 和 Create 事件
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	filePath := event.Name

	if r.opts.Config != "" && filePath == r.opts.Config {
		r.schedule(filePath, r.reloadConfig)
		return
	}

	// 只处理 .go 文件
	if !strings.HasSuffix(filePath, ".go") {
		return
	}

	// 跳过生成的文件
	if plugin.IsGeneratedFile(filePath) {
		return
	}

	if r.opts.Verbose {
		fmt.Printf("检测到文件变化: %s\n", filePath)
	}

	// 检查文件是否包含注解
	hasAnnotation, err := r.scanner.QuickMatchFile(filePath)
	if err != nil {
		if r.opts.Verbose {
			fmt.Printf("检查注解失败 %s: %v\n", filePath, err)
		}
		return
	}

	if !hasAnnotation {
		if r.opts.Verbose {
			fmt.Printf("跳过文件（无注解）: %s\n", filePath)
		}
		return
	}

	// 检查语法错误
	if err := checkSyntax(filePath); err != nil {
		fmt.Printf("语法错误 %s: %v\n", filePath, err)
		return
	}

	// 获取包目录并触发防抖动生成
	pkgDir := filepath.Dir(filePath)
	r.schedule(pkgDir, func() { r.runGenerate([]string{pkgDir}) })
}

// schedule 防抖动调度，同一 key 只保留最后一次
func (r *devRunner) schedule(key string, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 取消之前的 timer
	if timer, exists := r.pendingDirs[key]; exists {
		timer.Stop()
	}

	r.pendingDirs[key] = time.AfterFunc(r.opts.Debounce, func() {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		fn()

		r.mu.Lock()
		delete(r.pendingDirs, key)
		r.mu.Unlock()
	})
}

// reloadConfig 配置文件变动后重建生成器并全量生成
// 新配置无效时保留原有生成器
func (r *devRunner) reloadConfig() {
	cfg, err := unwrapgen.LoadUsageConfig(r.opts.Config)
	if err != nil {
		fmt.Printf("重新加载配置失败: %v\n", err)
		return
	}
	genOpts := []unwrapgen.GeneratorOption{unwrapgen.WithUsageConfig(cfg), unwrapgen.WithJSONTags(*jsonTags)}

	registry := plugin.NewRegistry()
	registry.MustRegister(unwrapgen.NewUnwrappedGenerator(genOpts...))
	registry.MustRegister(unwrapgen.NewWrappedGenerator(genOpts...))

	r.mu.Lock()
	r.registry = registry
	r.mu.Unlock()

	fmt.Printf("已重新加载配置: %s\n", r.opts.Config)
	r.runGenerate(r.opts.Patterns)
}

// runGenerate 执行实际的代码生成
func (r *devRunner) runGenerate(patterns []string) {
	if r.opts.Verbose {
		fmt.Printf("触发代码生成: %s\n", strings.Join(patterns, " "))
	}

	r.mu.Lock()
	registry := r.registry
	r.mu.Unlock()

	opts := &plugin.RunOptions{
		Registry: registry,
		Patterns: patterns,
		Verbose:  r.opts.Verbose,
		Output:   r.opts.Output,
		Async:    r.opts.Async,
		Check:    r.opts.Check,
		Workers:  r.opts.Workers,
	}

	stats, err := plugin.RunWithOptionsAndStats(r.ctx, opts)
	if err != nil {
		fmt.Printf("生成失败: %v\n", err)
		return
	}

	if stats != nil && stats.FileCount > 0 {
		fmt.Printf("生成完成: %d 个文件 (耗时: %v)\n", stats.FileCount, stats.TotalDuration)
	} else if r.opts.Verbose {
		fmt.Printf("生成完成: 无文件生成\n")
	}
}

// checkSyntax 检查文件语法
func checkSyntax(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	_, err = imports.Process(filePath, content, &imports.Options{
		Fragment:   true,
		AllErrors:  true,
		Comments:   true,
		FormatOnly: true, // 只检查语法，不修改 imports
	})

	return err
}
