package container

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/loyalty-funnel/config"
	repo "github.com/oksasatya/loyalty-funnel/internal/domain/repository"
	"github.com/oksasatya/loyalty-funnel/pkg/helpers"
	"github.com/oksasatya/loyalty-funnel/pkg/metrics"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	store       repo.SessionStore

	sessionTokens *helpers.SessionTokens
	sessionCookie *helpers.SessionCookie

	promRegistry *prometheus.Registry
	appMetrics   *metrics.Metrics

	rabbitPub *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)                { cfg = c }
func GetConfig() *config.Config                 { return cfg }
func SetLogger(l *logrus.Logger)                { logger = l }
func GetLogger() *logrus.Logger                 { return logger }
func SetRedis(r *redis.Client)                  { redisClient = r }
func GetRedis() *redis.Client                   { return redisClient }
func SetSessionStore(s repo.SessionStore)       { store = s }
func GetSessionStore() repo.SessionStore        { return store }
func SetSessionTokens(t *helpers.SessionTokens) { sessionTokens = t }
func GetSessionTokens() *helpers.SessionTokens  { return sessionTokens }
func SetSessionCookie(c *helpers.SessionCookie) { sessionCookie = c }
func GetSessionCookie() *helpers.SessionCookie  { return sessionCookie }

// SetMetrics stores the collectors and the registry they are registered on.
func SetMetrics(reg *prometheus.Registry, m *metrics.Metrics) {
	promRegistry = reg
	appMetrics = m
}
func GetMetrics() *metrics.Metrics          { return appMetrics }
func GetPromRegistry() *prometheus.Registry { return promRegistry }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
