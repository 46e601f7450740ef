package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/MikeMC777/orders-api/docs"
	"github.com/MikeMC777/orders-api/internal/cache"
	"github.com/MikeMC777/orders-api/internal/config"
	"github.com/MikeMC777/orders-api/internal/events"
	"github.com/MikeMC777/orders-api/internal/metrics"
	ord "github.com/MikeMC777/orders-api/internal/order"
)

const storeCheckInterval = 15 * time.Second

func setupLogger(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// @title Orders API
// @version 1.0
// @description Checkout with a simulated payment, and order queries.
// @BasePath /api
func main() {
	setupLogger(os.Getenv("LOG_LEVEL"))
	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("order-service stopped with error")
	}
	log.Info("order-service stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	logger := log.WithField("component", "order-service")

	st, closeStore, err := openStore(ctx, cfg.StoreURI, cfg.MongoDatabase, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var repo ord.Repository = st
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, "orders-api")
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			logger.WithError(err).Warn("redis unreachable, cache errors will fall through to the store")
		}
		repo = ord.NewCachedRepository(repo, rc, cfg.OrderCacheTTL)
		logger.WithField("redis_addr", cfg.RedisAddr).Info("order cache enabled")
	}

	opts := []ord.Option{ord.WithLogger(logger.WithField("layer", "service"))}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without order events")
		} else {
			defer func() {
				if err := producer.Close(); err != nil {
					logger.WithError(err).Warn("kafka producer close")
				}
			}()
			opts = append(opts, ord.WithNotifier(producer))
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		}
	}

	svc := ord.NewService(repo, ord.NewRandomGateway(cfg.PaymentSuccessRate), opts...)
	router := newRouter(routerDeps{
		svc:      svc,
		store:    st,
		metrics:  metrics.New(prometheus.DefaultRegisterer),
		gatherer: prometheus.DefaultGatherer,
		logger:   logger.WithField("layer", "http"),
	})

	errCh := make(chan error, 2)

	var grpcServer *grpc.Server
	if cfg.GRPCHealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			return err
		}
		grpcServer = grpc.NewServer()
		hs := health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, hs)
		go watchStore(ctx, hs, st, storeCheckInterval)
		go func() {
			logger.Infof("gRPC health listening on %s", cfg.GRPCHealthAddr)
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- err
			}
		}()
	}

	httpServer := &http.Server{Addr: cfg.Addr(), Handler: router}
	go func() {
		logger.Infof("Server running on http://localhost%s", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.WithError(err).Error("server failed")
		shutdown(httpServer, grpcServer, logger)
		return err
	}
	shutdown(httpServer, grpcServer, logger)
	return nil
}

// watchStore mirrors store availability into the gRPC health status.
func watchStore(ctx context.Context, hs *health.Server, p ord.Pinger, every time.Duration) {
	set := func() {
		status := healthpb.HealthCheckResponse_SERVING
		if err := p.Ping(ctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", status)
	}
	set()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-t.C:
			set()
		}
	}
}

func shutdown(httpServer *http.Server, grpcServer *grpc.Server, logger *log.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("http shutdown")
	}
	if grpcServer == nil {
		return
	}
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		grpcServer.Stop()
	}
}
