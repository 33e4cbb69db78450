// Command matching-engine runs a single trading pair's price-time
// priority matching core: it consumes placements and cancellations from
// Kafka, matches them against the resident book, publishes fills, and
// periodically snapshots state to Redis.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/exchange-clob/matching-engine/pkg/config"
	"github.com/exchange-clob/matching-engine/pkg/grpclib/health"
	"github.com/exchange-clob/matching-engine/pkg/httplib/healthcheck"
	"github.com/exchange-clob/matching-engine/pkg/logger"
	"github.com/exchange-clob/matching-engine/pkg/redis"

	"github.com/exchange-clob/matching-engine/internal/app/engine"
	"github.com/exchange-clob/matching-engine/internal/app/introspection"
	"github.com/exchange-clob/matching-engine/internal/usecase/ledger"
	matchpublisher "github.com/exchange-clob/matching-engine/internal/usecase/match-publisher"
	orderreader "github.com/exchange-clob/matching-engine/internal/usecase/order-reader"
	"github.com/exchange-clob/matching-engine/internal/usecase/orderbook"
	"github.com/exchange-clob/matching-engine/internal/usecase/settlement"
	"github.com/exchange-clob/matching-engine/internal/usecase/snapshot"
)

var (
	cfg *config.Config
	log *logger.Logger
)

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}
	log = l
}

const introspectionServiceName = "matching_engine.introspection"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	rclient := redis.NewClient(log, &cfg.Redis)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "connect_redis"})
		return
	}

	// The token ledger backing custody/settlement is a separate service
	// in production (spec §1). This process holds an in-memory reference
	// implementation so it can run standalone; swap in a networked
	// client to point at a real ledger.
	settlementDriver := settlement.NewDriver(ledger.NewMemory())
	book := orderbook.NewBook(settlementDriver)

	oReader := orderreader.NewReader(orderreader.KafkaConfig{
		Brokers: cfg.OrderReaderConfig.Brokers,
		Topic:   cfg.OrderReaderConfig.Topic,
		GroupID: cfg.OrderReaderConfig.GroupID,
	}, log)

	snapshotStore := snapshot.NewStore(rclient, cfg.Pair, log)

	pub := matchpublisher.NewPublisher(matchpublisher.KafkaConfig{
		Brokers: cfg.MatchPublisherConfig.Brokers,
		Topic:   cfg.MatchPublisherConfig.Topic,
	}, log)

	eng := engine.NewEngineWithOptions(book, oReader, pub, snapshotStore, log, cfg.Pair, &engine.Options{
		SnapshotInterval:    30 * time.Second,
		SnapshotOffsetDelta: int64(cfg.SnapshotInterval),
	})

	if err := eng.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_engine"})
		return
	}
	log.Info("matching engine started", logger.Field{Key: "pair", Value: cfg.Pair})

	healthServer := health.NewServer()
	healthServer.InitService(introspectionServiceName)
	grpcServer := grpc.NewServer()
	healthServer.Register(grpcServer)

	grpcListener, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "listen_grpc"})
		return
	}
	go func() {
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "serve_grpc"})
		}
	}()

	httpMux := http.NewServeMux()
	httpMux.Handle("/", healthcheck.HealthCheck{}.Handler(introspection.NewServer(eng, log)))
	httpServer := &http.Server{Addr: cfg.HTTPHealthPort, Handler: httpMux}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, logger.Field{Key: "action", Value: "serve_http"})
		}
	}()

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	healthServer.Shutdown()
	grpcServer.GracefulStop()
	_ = httpServer.Shutdown(shutdownCtx)

	if err := eng.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_engine"})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
	}

	log.Info("matching engine shutdown complete")
	_ = log.Sync()
}
