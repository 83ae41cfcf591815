package router

import (
	"time"

	"github.com/oksasatya/loyalty-funnel/internal/application"
	"github.com/oksasatya/loyalty-funnel/internal/container"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/androidlink"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/crm"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/httpcall"
	"github.com/oksasatya/loyalty-funnel/internal/infrastructure/walletpass"
	handlers "github.com/oksasatya/loyalty-funnel/internal/interface/http"
	"github.com/oksasatya/loyalty-funnel/internal/interface/middleware"
	"github.com/oksasatya/loyalty-funnel/internal/router/modules"
	"github.com/oksasatya/loyalty-funnel/pkg/metrics"
)

type FunnelModuleDeps struct {
	Funnel  *handlers.FunnelHandler
	Install *handlers.InstallHandler
	Android *handlers.AndroidHandler
	Health  *handlers.HealthHandler
}

func buildFunnelDeps() FunnelModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	m := container.GetMetrics()
	store := container.GetSessionStore()

	crmClient := crm.NewClient(crm.Config{
		BaseURL:     cfg.CRMBaseURL,
		AccessToken: cfg.CRMAccessToken,
		Timeout:     cfg.CRMTimeout,
	}, nil)

	var passes application.PassIssuer
	if cfg.WalletPassEnabled() {
		passes = walletpass.NewClient(walletpass.Config{
			BaseURL:    cfg.WalletPassBaseURL,
			TemplateID: cfg.WalletPassTemplateID,
			APIKey:     cfg.WalletPassAPIKey,
			Timeout:    cfg.WalletPassTimeout,
		}, nil)
	} else {
		logger.Warn("wallet pass API not configured; passes will not be issued")
	}

	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	funnelSvc := application.NewFunnelService(store, crmClient, passes, logger, m, application.FunnelConfig{
		DefaultUserID: cfg.CRMDefaultUserID,
		FlowID:        cfg.CRMFlowID,
		Offer:         cfg.WalletPassOffer,
	})
	installSvc := application.NewInstallService(store, crmClient, pub, logger, m, application.InstallConfig{
		DefaultUserID: cfg.CRMDefaultUserID,
		Fields: application.InstallFields{
			Email:      cfg.CRMEmailFieldID,
			InstallURL: cfg.CRMInstallURLFieldID,
			DeviceType: cfg.CRMDeviceTypeFieldID,
		},
		MailEnabled: cfg.MailSendEnabled,
	})

	caller := httpcall.New(
		httpcall.WithMaxAttempts(cfg.AndroidLinkMaxRetries),
		httpcall.WithTimeout(cfg.AndroidLinkTimeout),
		httpcall.WithBaseBackoff(cfg.AndroidLinkBackoff),
		httpcall.WithLogger(logger),
		httpcall.WithAttemptHook(func(_ int, err error) {
			if err != nil {
				m.AndroidAttempt(metrics.OutcomeFailure)
				return
			}
			m.AndroidAttempt(metrics.OutcomeSuccess)
		}),
	)
	resolver := androidlink.NewResolver(androidlink.Config{
		ModifyURL:     cfg.ModifyURLServiceURL,
		GenerateURL:   cfg.AndroidLinkServiceURL,
		ModifyTimeout: cfg.AndroidLinkTimeout,
	}, nil, caller, logger)

	return FunnelModuleDeps{
		Funnel:  handlers.NewFunnelHandler(funnelSvc, logger),
		Install: handlers.NewInstallHandler(installSvc, logger),
		Android: handlers.NewAndroidHandler(application.NewAndroidLinkService(resolver, logger), logger),
		Health:  handlers.NewHealthHandler(store),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	// health checks and metrics scrapes never spend the per-IP budget
	r.Use(middleware.RateLimit(container.GetRedis(), container.GetConfig().RateLimitPerMinute, time.Minute, middleware.KeyByIP(),
		middleware.AnyOf(middleware.AllowPrivateIP(), middleware.AllowPaths(APIPrefix+"/health", APIPrefix+"/debug/metrics"))))

	deps := buildFunnelDeps()
	r.Add(modules.NewHealthModule(deps.Health))
	r.Add(modules.NewFunnelModule(deps.Funnel))
	r.Add(modules.NewInstallModule(deps.Install))
	r.Add(modules.NewAndroidModule(deps.Android))
	if reg := container.GetPromRegistry(); reg != nil && container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(reg))
	}
}
