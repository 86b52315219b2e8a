package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/app"
)

var (
	versionName = ""
	commitSHA   = ""
	buildTime   = ""
)

func usage() {
	fmt.Fprintf(os.Stderr, "用法: %s [选项] <crawl|curate|stats>\n\n选项:\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("c", "config.ini", "配置文件")
	query := flag.String("query", "", "搜索关键词 (默认取配置文件)")
	startPage := flag.Int("start", -1, "起始页 (默认取配置文件)")
	pageCount := flag.Int("pages", 0, "爬取页数 (默认取配置文件)")
	flag.Usage = usage
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	buildInfo := app.BuildInfo{
		BinVersion: versionName,
		CommitSHA:  commitSHA,
		BuildTime:  buildTime,
	}

	application, err := app.New(*configPath, buildInfo)
	if err != nil {
		panic(err)
	}
	defer func() { _ = application.Shutdown() }()

	application.Logger.Info("lyrics corpus starting",
		"command", command,
		"version", buildInfo.BinVersion,
		"commit", buildInfo.CommitSHA,
		"built", buildInfo.BuildTime,
		"runtime", runtime.Version(),
	)

	switch command {
	case "crawl":
		err = application.Crawl(ctx, *query, *startPage, *pageCount)
	case "curate":
		err = application.Curate(ctx)
	case "stats":
		err = application.Stats(ctx)
	default:
		fmt.Fprintf(os.Stderr, "未知命令: %s\n", command)
		usage()
		os.Exit(2)
	}
	if err != nil {
		application.Logger.Error("command failed", "command", command, "error", err)
		_ = application.Shutdown()
		os.Exit(1)
	}
}
