package di

import (
	"context"
	"fmt"
	"time"

	"BuyBio/internal/domain/repository"
	domsvc "BuyBio/internal/domain/service"
	"BuyBio/internal/handler/api"
	internalrepo "BuyBio/internal/repository"
	"BuyBio/internal/scheduler"
	"BuyBio/internal/service/breaker"
	"BuyBio/internal/service/cache"
	"BuyBio/internal/service/ratelimit"
	"BuyBio/internal/services/analysis"
	"BuyBio/internal/services/indicators"
	"BuyBio/internal/usecase"
	pkgch "BuyBio/pkg/clickhouse"
	"BuyBio/pkg/config"
	xhttp "BuyBio/pkg/http"
	pkgkafka "BuyBio/pkg/kafka"
	"BuyBio/pkg/logger"
	"BuyBio/pkg/metrics"
	"BuyBio/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideIndicatorLibrary selects the configured indicator library.
func ProvideIndicatorLibrary(cfg *config.Config) (domsvc.IndicatorLibrary, error) {
	return indicators.New(cfg.Analysis.IndicatorLibrary)
}

func ProvideEngine(cfg *config.Config, lib domsvc.IndicatorLibrary, l *logger.Logger) *analysis.Engine {
	e := analysis.NewEngine(analysis.Config{MinHistory: cfg.Analysis.MinHistory, Library: lib})
	l.Info("analysis engine ready",
		logger.String("library", e.Library().Name()),
		logger.Int("min_history", e.MinHistory()),
	)
	return e
}

// ProvideCompanyStore reads the analyst workbooks.
func ProvideCompanyStore(cfg *config.Config, l *logger.Logger) repository.CompanyStore {
	return internalrepo.NewWorkbookCompanyStore(cfg.Data.CompanyWorkbook, cfg.Data.CodeWorkbook, l)
}

// ProvideHistorySource builds the configured market source and its optional cache.
// The cleanup closes whatever connections the source opened.
func ProvideHistorySource(cfg *config.Config, l *logger.Logger) (repository.HistorySource, func(), error) {
	var (
		src      repository.HistorySource
		cleanups []func()
	)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	switch cfg.Market.Source {
	case "clickhouse":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := pkgch.NewClient(ctx,
			pkgch.WithAddr(cfg.ClickHouse.Addr...),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(cfg.Analysis.Concurrency+2, cfg.Analysis.Concurrency),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("clickhouse client: %w", err)
		}
		if cfg.ClickHouse.InitSchema {
			if err := client.InitSchema(ctx, []string{fmt.Sprintf(pkgch.DailyBarsSchema, cfg.ClickHouse.Table)}); err != nil {
				_ = client.Close()
				return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
			}
		}
		cleanups = append(cleanups, func() {
			if err := client.Close(); err != nil {
				l.Warn("clickhouse close error", logger.Error(err))
			}
		})
		chs := internalrepo.NewCHHistory(client, cfg.ClickHouse.Table, cfg.ClickHouse.Limit)
		chs.SetLogger(l)
		src = chs
	default:
		y := cfg.Market.Yahoo
		client := xhttp.NewClient(xhttp.WithTimeout(y.Timeout), xhttp.WithUserAgent(y.UserAgent))
		src = internalrepo.NewYahooHistory(internalrepo.YahooConfig{
			BaseURL:  y.BaseURL,
			Range:    y.Range,
			Suffixes: y.Suffixes,
			Timezone: y.Timezone,
		}, client,
			internalrepo.WithYahooLimiter(ratelimit.New(cfg.Market.RateLimit.RPS, cfg.Market.RateLimit.Burst)),
			internalrepo.WithYahooBreaker(breaker.New(breaker.Settings{
				Name:                "yahoo",
				ConsecutiveFailures: cfg.Market.Breaker.ConsecutiveFailures,
				Interval:            cfg.Market.Breaker.Interval,
				Timeout:             cfg.Market.Breaker.Timeout,
				Ignore:              internalrepo.IsUpstreamHealthy,
			})),
			internalrepo.WithYahooLogger(l),
		)
	}

	switch cfg.Cache.Backend {
	case "memory":
		src = internalrepo.NewCachedHistory(src, cache.NewTTLCache(), cfg.Cache.TTL, l)
	case "redis":
		rc := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rc.Ping(ctx)
		cancel()
		if err != nil {
			// the cache degrades to direct fetches, so an unreachable redis is not fatal
			l.Warn("redis unreachable at startup", logger.String("addr", cfg.Cache.Redis.Addr), logger.Error(err))
		}
		cleanups = append(cleanups, func() { _ = rc.Close() })
		src = internalrepo.NewCachedHistory(src, rc, cfg.Cache.TTL, l)
	}

	l.Info("history source ready",
		logger.String("source", src.Name()),
		logger.String("cache", cfg.Cache.Backend),
	)
	return src, cleanup, nil
}

// ProvidePublisher returns a Kafka ranking publisher, or a no-op one when Kafka is disabled.
func ProvidePublisher(cfg *config.Config, l *logger.Logger) (repository.RecommendationPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
	l.Info("ranking publisher ready", logger.Strings("brokers", cfg.Kafka.Brokers), logger.String("topic", cfg.Kafka.Topic))
	return pub, func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", logger.Error(err))
		}
	}, nil
}

func ProvideBatchRunner(cfg *config.Config, src repository.HistorySource, engine *analysis.Engine, m repository.Metrics, l *logger.Logger) *usecase.BatchRunner {
	return usecase.NewBatchRunner(src, engine,
		usecase.WithConcurrency(cfg.Analysis.Concurrency),
		usecase.WithInstrumentTimeout(cfg.Analysis.InstrumentTimeout),
		usecase.WithBatchMetrics(m),
		usecase.WithBatchLogger(l),
	)
}

func ProvideCohortAnalyzer(store repository.CompanyStore, runner *usecase.BatchRunner, pub repository.RecommendationPublisher, m repository.Metrics, l *logger.Logger) *usecase.CohortAnalyzer {
	return usecase.NewCohortAnalyzer(store, runner,
		usecase.WithPublisher(pub),
		usecase.WithCohortMetrics(m),
		usecase.WithCohortLogger(l),
	)
}

// ProvideScheduler returns nil when scheduled ranking is disabled.
func ProvideScheduler(cfg *config.Config, analyzer *usecase.CohortAnalyzer, l *logger.Logger) (*scheduler.Scheduler, error) {
	if !cfg.Scheduler.Enabled {
		return nil, nil
	}
	s := scheduler.New(analyzer, cfg.Scheduler.Limit, 0, l)
	if err := s.Register(cfg.Scheduler.Spec); err != nil {
		return nil, err
	}
	return s, nil
}

// ProvideHTTPServer creates the Echo server with the analysis routes.
func ProvideHTTPServer(cfg *config.Config, analyzer *usecase.CohortAnalyzer, l *logger.Logger) *xhttp.Server {
	return xhttp.NewServer(api.NewAnalysisEchoHandler(l, analyzer), l,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
		xhttp.WithMetrics(cfg.Metrics.Enabled),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *logger.Logger, srv *xhttp.Server, sched *scheduler.Scheduler) *server.App {
	return server.New(cfg, l, srv, sched)
}
