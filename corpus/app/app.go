package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/vocaloid-archive/LyricsCorpus-Go/catalog/netease"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/config"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/curate"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/history"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/ingest"
	logpkg "github.com/vocaloid-archive/LyricsCorpus-Go/corpus/logger"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/lyrics"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/stats"
	"github.com/vocaloid-archive/LyricsCorpus-Go/corpus/store"
)

// App wires all application dependencies.
type App struct {
	Config     *config.Config
	Logger     *logpkg.Logger
	Store      *store.Store
	History    *history.Repository
	Normalizer lyrics.TitleNormalizer
	Build      BuildInfo
}

// BuildInfo provides build-time metadata.
type BuildInfo struct {
	BinVersion string
	CommitSHA  string
	BuildTime  string
}

// New builds the application container. The history database is only opened
// for crawl runs; curation and stats have no network or sqlite dependency.
func New(configPath string, build BuildInfo) (*App, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logpkg.New(conf.GetString("LogLevel"), conf.GetString("LogFormat"), conf.GetBool("LogSource"))
	if err != nil {
		return nil, err
	}

	normalizer := lyrics.TitleNormalizer{FoldWidth: conf.GetBool("TitleFoldWidth")}

	dataFile := strings.TrimSpace(conf.GetString("DataFile"))
	corpusStore, err := store.New(dataFile, normalizer, log)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	return &App{
		Config:     conf,
		Logger:     log,
		Store:      corpusStore,
		Normalizer: normalizer,
		Build:      build,
	}, nil
}

// Crawl runs one ingestion pass against the live catalog.
func (a *App) Crawl(ctx context.Context, query string, startPage, pageCount int) error {
	if query == "" {
		query = a.Config.GetString("Query")
	}
	if startPage < 0 {
		startPage = a.Config.GetInt("StartPage")
	}
	if pageCount <= 0 {
		pageCount = a.Config.GetInt("PageCount")
	}

	historyRepo, err := a.openHistory()
	if err != nil {
		// Degraded but functional: the crawl only loses reject-skipping.
		a.Logger.Warn("fetch history unavailable, continuing without it", "error", err)
	} else {
		a.History = historyRepo
	}

	client := netease.New(a.Config.GetString("MUSIC_U"), a.Logger)

	opts := ingest.Options{
		Catalog:       client,
		Store:         a.Store,
		Normalizer:    a.Normalizer,
		FetchInterval: time.Duration(a.Config.GetInt("FetchIntervalMs")) * time.Millisecond,
		Logger:        a.Logger,
	}
	if a.History != nil {
		opts.History = a.History
	}

	ingestor, err := ingest.New(opts)
	if err != nil {
		return err
	}

	report, err := ingestor.Run(ctx, query, startPage, pageCount, a.Config.GetInt("PageSize"))
	if err != nil {
		return err
	}

	fmt.Printf("爬取完成: 扫描 %d 页 (失败 %d), 共 %d 首, 新增 %d, 已存在 %d, 跳过 %d, 语料库共 %d 首\n",
		report.PagesScanned, report.PagesFailed, report.TracksSeen,
		report.TracksAdded, report.SkippedExisting, report.Rejected, report.CorpusSize)
	return nil
}

// Curate runs the batch clean + dedup pass over the existing store.
func (a *App) Curate(_ context.Context) error {
	pass := curate.Pass{Normalizer: a.Normalizer, Logger: a.Logger}
	report, err := pass.Run(a.Store)
	if err != nil {
		return err
	}
	fmt.Printf("整理完成: 读取 %d 首 (坏行 %d), 合并重复 %d, 保留 %d 首\n",
		report.Loaded, report.MalformedLines, report.Merged, report.Final)
	return nil
}

// Stats prints corpus statistics.
func (a *App) Stats(_ context.Context) error {
	snapshot, err := a.Store.LoadAll()
	if err != nil {
		return err
	}

	summary := stats.Reporter{Normalizer: a.Normalizer}.Summarize(snapshot.Records)

	fmt.Printf("总歌曲数: %d\n", summary.TotalSongs)
	fmt.Printf("唯一歌曲数: %d\n", summary.UniqueTitles)
	fmt.Printf("重复歌曲数: %d\n", summary.DuplicateTitles)
	fmt.Printf("空标题歌曲数: %d\n", summary.EmptyTitles)
	fmt.Printf("空歌词歌曲数: %d\n", summary.EmptyLyrics)
	fmt.Printf("平均歌词长度: %.2f 字符\n", summary.AvgLyricLength)
	if snapshot.MalformedLines > 0 {
		fmt.Printf("坏行数: %d\n", snapshot.MalformedLines)
	}

	top := summary.Top(a.Config.GetInt("TopProducers"))
	if len(top) > 0 {
		fmt.Println("顶级生产者:")
		for i, row := range top {
			fmt.Printf("  %d. %s: %d 首歌曲\n", i+1, row.Name, row.Count)
		}
	}
	return nil
}

// Shutdown releases held resources.
func (a *App) Shutdown() error {
	var firstErr error
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			firstErr = err
		}
	}
	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) openHistory() (*history.Repository, error) {
	dsn := strings.TrimSpace(a.Config.GetString("HistoryDatabase"))
	if dsn == "" {
		return nil, fmt.Errorf("history database not configured")
	}
	level := mapGormLogLevel(a.Config.GetString("GormLogLevel"))
	gl := logpkg.NewGormLogger(a.Logger.Slog(), level)
	return history.NewSQLiteRepository(dsn, gl)
}

func mapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormlogger.Silent
	case "info":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
