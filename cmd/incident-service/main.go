package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/incidentdesk/incident-service/handlers"
	"github.com/incidentdesk/incident-service/internal/config"
	"github.com/incidentdesk/incident-service/internal/database"
	"github.com/incidentdesk/incident-service/internal/incident/repository"
	"github.com/incidentdesk/incident-service/internal/incident/sequence"
	"github.com/incidentdesk/incident-service/internal/incident/service"
	"github.com/incidentdesk/incident-service/internal/server"
	"github.com/incidentdesk/incident-service/pkg/logger"
	"github.com/incidentdesk/incident-service/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	logger.Infof("config loaded: mongo=%v redis=%v sequence=%s", cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.Sequence.Backend)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	checks := map[string]handlers.Check{}

	var repo repository.Repository = repository.NewMemoryRepo()
	var mongoDB *mongo.Database
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		mongoClient, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		mongoDB = mongoClient.Database(cfg.MongoDB.Database)
		mrepo := repository.NewMongoRepo(mongoDB.Collection(cfg.MongoDB.IncidentsCollection))
		if err := mrepo.EnsureIndexes(ctx); err != nil {
			logger.Warnf("failed to ensure incident indexes: %v", err)
		}
		repo = mrepo
		checks["mongo"] = func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }
		logger.Infof("Using MongoDB database %q for incidents", cfg.MongoDB.Database)
	} else {
		logger.Warnf("MONGODB_URI not set; incidents are kept in memory")
	}

	var redisClient *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		redisClient, err = database.ConnectRedis(ctx, addr, cfg.Redis.Password, cfg.Redis.DB, 5*time.Second)
		if err != nil {
			if cfg.Sequence.Backend == config.SequenceRedis {
				logger.Fatalf("could not connect to Redis at %s: %v", addr, err)
			}
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			redisClient = nil
		} else {
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}

	seq, err := newAllocator(ctx, cfg, mongoDB, redisClient)
	if err != nil {
		logger.Fatalf("failed to initialize sequence counter: %v", err)
	}
	if cfg.Sequence.Backend == config.SequenceMemory && cfg.MongoDB.URI != "" {
		logger.Warnf("memory sequence with a persistent store restarts numbering at 1 on every boot")
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	svc := service.NewService(repo, seq)
	r := server.NewRouter(cfg, svc, checks)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting incident service on %s (base path %s)", addr, cfg.Server.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
	closeClients(shutdownCtx, mongoClient, redisClient)
}

// closeClients releases whichever store clients were opened. Failures are
// logged; the process is exiting either way.
func closeClients(ctx context.Context, mc *mongo.Client, rc *redis.Client) {
	if mc != nil {
		if err := mc.Disconnect(ctx); err != nil {
			logger.Warnf("mongo disconnect failed: %v", err)
		}
	}
	if rc != nil {
		if err := rc.Close(); err != nil {
			logger.Warnf("redis close failed: %v", err)
		}
	}
}

func newAllocator(ctx context.Context, cfg *config.Config, db *mongo.Database, rc *redis.Client) (sequence.Allocator, error) {
	switch cfg.Sequence.Backend {
	case config.SequenceMongo:
		a := sequence.NewMongoAllocator(db.Collection(cfg.MongoDB.CountersCollection), cfg.Sequence.Name)
		if err := a.Init(ctx); err != nil {
			return nil, fmt.Errorf("mongo counter: %w", err)
		}
		return a, nil
	case config.SequenceRedis:
		a := sequence.NewRedisAllocator(rc, cfg.Sequence.Name)
		if err := a.Init(ctx); err != nil {
			return nil, fmt.Errorf("redis counter: %w", err)
		}
		return a, nil
	default:
		return sequence.NewMemoryAllocator(), nil
	}
}
