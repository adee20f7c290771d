package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/donutnomad/unwrapgen/plugin"
	"github.com/donutnomad/unwrapgen/unwrapgen"
	"github.com/samber/lo"
)

var (
	verbose    = flag.Bool("v", false, "详细输出")
	help       = flag.Bool("h", false, "显示帮助信息")
	output     = flag.String("output", "", "默认输出路径（支持模板变量 $FILE, $PACKAGE, $STRUCT）")
	noOutput   = flag.Bool("no-output", false, "忽略 -output，每个生成器输出到独立文件")
	async      = flag.Bool("async", true, "异步执行生成器（默认 true）")
	check      = flag.Bool("check", false, "只检查生成文件是否最新，不写入")
	workers    = flag.Int("workers", 0, "扫描文件的并发数（默认 CPU 核数）")
	configPath = flag.String("config", "", "字段覆盖项配置文件（YAML 或 JSON）")
	jsonTags   = flag.Bool("json-tags", false, "为没有 json 标签的字段生成 snake_case 标签")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if err := registerGenerators(plugin.Global()); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()

	// 默认命令是 gen
	if len(args) == 0 {
		runGen([]string{"./..."})
		return
	}

	switch args[0] {
	case "gen":
		runGen(args[1:])
	case "dev":
		runDev(args[1:])
	default:
		// 不是子命令，当作路径参数处理
		runGen(args)
	}
}

// registerGenerators 按命令行参数创建并注册两个方向的生成器
func registerGenerators(registry *plugin.Registry) error {
	var opts []unwrapgen.GeneratorOption
	if *configPath != "" {
		cfg, err := unwrapgen.LoadUsageConfig(*configPath)
		if err != nil {
			return err
		}
		opts = append(opts, unwrapgen.WithUsageConfig(cfg))
	}
	opts = append(opts, unwrapgen.WithJSONTags(*jsonTags))

	if err := registry.Register(unwrapgen.NewUnwrappedGenerator(opts...)); err != nil {
		return err
	}
	return registry.Register(unwrapgen.NewWrappedGenerator(opts...))
}

// outputPath -no-output 时传空字符串
func outputPath() string {
	if *noOutput {
		return ""
	}
	return *output
}

func runGen(patterns []string) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	registry := plugin.Global()
	if *verbose {
		fmt.Printf("已注册 %d 个生成器:\n", len(registry.Generators()))
		for _, gen := range registry.Generators() {
			anns := lo.Map(gen.Annotations(), func(item string, _ int) string {
				return "@" + item
			})
			fmt.Printf("  - %s (%s)\n", gen.Name(), strings.Join(anns, ","))
		}
		fmt.Println()
	}

	stats, err := plugin.RunWithOptionsAndStats(context.Background(), &plugin.RunOptions{
		Registry: registry,
		Patterns: patterns,
		Verbose:  *verbose,
		Output:   outputPath(),
		Async:    *async,
		Check:    *check,
		Workers:  *workers,
	})
	if err != nil {
		if errors.Is(err, plugin.ErrStale) {
			fmt.Fprintf(os.Stderr, "生成文件不是最新的，请重新运行 unwrapgen: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		}
		os.Exit(1)
	}

	if stats != nil && (stats.FileCount > 0 || *verbose) {
		fmt.Printf("\n统计: 扫描 %d 个目标, 生成 %d 个文件\n", stats.TargetCount, stats.FileCount)
		fmt.Printf("耗时: 扫描 %v, 生成 %v, 总计 %v\n", stats.ScanDuration, stats.GenerateDuration, stats.TotalDuration)
	}
}

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, `unwrapgen - Option 字段的 unwrap / wrap 配套结构体生成工具

用法:
  unwrapgen [选项] [路径...]
  unwrapgen [选项] gen [路径...]
  unwrapgen [选项] dev [路径...]

命令:
  gen     执行代码生成（默认）
  dev     启动开发模式，监听文件变动自动生成

路径:
  支持 Go 包路径模式，如:
    ./...          递归扫描当前目录及子目录（默认）
    ./models/...   递归扫描 models 目录

选项:
`)
	flag.PrintDefaults()

	registry := plugin.NewRegistry()
	registry.MustRegister(unwrapgen.NewUnwrappedGenerator())
	registry.MustRegister(unwrapgen.NewWrappedGenerator())
	_, _ = fmt.Fprintf(os.Stderr, "\n支持的注解:\n")
	_, _ = fmt.Fprint(os.Stderr, plugin.FormatHelpText(registry))

	_, _ = fmt.Fprintf(os.Stderr, `字段指令:
  unwrapped:"skip"                    排除字段，由 IntoS 的参数补齐
  unwrapped:"default=18"              缺失时的默认值（Go 表达式）
  unwrapped:"tag=validate:\"gte=0\""   附加到生成字段上的标签，可重复
  wrapped:"..."                       wrap 方向，键相同

模板变量:
  $FILE     - 源文件名（不含 .go 后缀）
  $PACKAGE  - 包名
  $STRUCT   - 类型名（snake_case）

示例:
  unwrapgen                                 扫描当前目录（默认 ./...）
  unwrapgen -v ./models/...                 详细模式扫描 models 目录
  unwrapgen -check ./...                    CI 中检查生成文件是否最新
  unwrapgen -config usage.yaml ./...        使用字段覆盖项
  unwrapgen -json-tags ./...                补全 json 标签
  unwrapgen dev ./...                       开发模式，监听文件变动
`)
}
