// Package bootstrap wires configuration, infrastructure and services into a
// running API server.
package bootstrap

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"bpo_server/adapter/out/mongodb"
	"bpo_server/adapter/out/persistence"
	"bpo_server/config"
	"bpo_server/core/port/out"
	"bpo_server/core/service/report"
	"bpo_server/core/service/routing"
	"bpo_server/infra/database"
	"bpo_server/pkg/logger"
	"bpo_server/pkg/resilience"
)

type Dependencies struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// Repositories
	RuleRepo     out.RoutingRuleRepository
	AgentRepo    out.AgentRepository
	TemplateRepo out.ResponseTemplateRepository
	CaseRepo     out.CaseRepository
	DecisionRepo out.DecisionLogRepository
	ReportRepo   out.RoutingReportRepository

	// Services
	Matcher        *routing.Matcher
	Selector       *routing.Selector
	Advisor        *routing.Advisor
	DecisionLogger *routing.DecisionLogger
	ReportService  *report.Service
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "bootstrap").Logger()

	// Database (pgxpool)
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, func() { db.Close() })
	zlog.Info().Msg("PostgreSQL pool connected")

	// Database (sqlx for the row-scanning adapters)
	sqlxURL := cfg.DatabaseURL
	if strings.Contains(sqlxURL, "?") {
		sqlxURL += "&default_query_exec_mode=simple_protocol"
	} else {
		sqlxURL += "?default_query_exec_mode=simple_protocol"
	}
	sqlDB, err := sqlx.Connect("pgx", sqlxURL)
	if err != nil {
		runCleanups(cleanups)
		return nil, nil, err
	}
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })

	// Redis (optional; rule cache degrades to direct DB reads without it)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("Redis unavailable, rule cache disabled")
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })
			zlog.Info().Msg("Redis connected")
		}
	}

	// MongoDB (optional; report endpoints fail without it)
	if cfg.MongoDBURL != "" {
		mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("MongoDB unavailable, routing reports disabled")
		} else {
			deps.MongoDB = mongoClient
			cleanups = append(cleanups, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				mongoClient.Disconnect(ctx)
			})
			zlog.Info().Msg("MongoDB connected")
		}
	}

	// Repositories
	ruleAdapter := persistence.NewRuleAdapter(sqlDB)
	if deps.Redis != nil {
		deps.RuleRepo = persistence.NewRuleCache(ruleAdapter, deps.Redis, cfg.RuleCacheTTL)
	} else {
		deps.RuleRepo = ruleAdapter
	}
	deps.AgentRepo = persistence.NewAgentAdapter(sqlDB)
	deps.TemplateRepo = persistence.NewTemplateAdapter(sqlDB)
	deps.CaseRepo = persistence.NewCaseAdapter(sqlDB)
	deps.DecisionRepo = persistence.NewDecisionLogAdapter(sqlDB)
	if deps.MongoDB != nil {
		deps.ReportRepo = mongodb.NewReportAdapter(deps.MongoDB, cfg.MongoDBName)
	}

	// Services
	deps.Matcher = routing.NewMatcher(deps.RuleRepo)
	deps.Selector = routing.NewSelector(deps.AgentRepo, cfg.AgentCandidates)

	breaker := resilience.NewBreaker(&resilience.BreakerConfig{
		Name:             "decision-log",
		FailureThreshold: uint32(cfg.BreakerFailures),
		Cooldown:         cfg.BreakerCooldown,
	})
	deps.DecisionLogger = routing.NewDecisionLogger(deps.DecisionRepo, breaker)

	deps.Advisor = routing.NewAdvisor(
		deps.Matcher,
		deps.Selector,
		deps.TemplateRepo,
		deps.CaseRepo,
		deps.DecisionLogger,
		&routing.AdvisorConfig{
			ResponseLimit:    cfg.ResponseLimit,
			GenericResponses: cfg.GenericResponses,
			SimilarCaseLimit: cfg.SimilarCaseLimit,
		},
	)

	if deps.ReportRepo != nil {
		deps.ReportService = report.NewService(
			deps.DecisionRepo,
			deps.ReportRepo,
			time.Duration(cfg.ReportWindowHours)*time.Hour,
		)
	}

	logger.Info("Dependencies initialized")

	cleanup := func() { runCleanups(cleanups) }
	return deps, cleanup, nil
}

// runCleanups closes resources in reverse acquisition order.
func runCleanups(cleanups []func()) {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
