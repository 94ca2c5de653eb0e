package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/yonathan001/Appointment/config"
	"github.com/yonathan001/Appointment/internal/api/http/handler"
	"github.com/yonathan001/Appointment/internal/api/http/middleware"
	"github.com/yonathan001/Appointment/internal/service/appointment"
	"github.com/yonathan001/Appointment/internal/service/auth"
	"github.com/yonathan001/Appointment/internal/service/catalog"
	"github.com/yonathan001/Appointment/internal/service/organization"
	"github.com/yonathan001/Appointment/internal/service/user"
	"github.com/yonathan001/Appointment/pkg/authorize"
	jwttoken "github.com/yonathan001/Appointment/pkg/token"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg   *config.Config
	Redis *redis.Client
	DB    *gorm.DB
	Auth  authorize.IAuthorization

	AuthSvc         auth.Service
	UserSvc         user.Service
	OrganizationSvc organization.Service
	CatalogSvc      catalog.Service
	AppointmentSvc  appointment.Service

	TokenMgr *jwttoken.Manager
	Cookies  *jwttoken.CookieWriter
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.TokenMgr, r.p.Cookies, r.p.Redis, r.p.DB)

	// Permission helper
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Initialize Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc, r.p.TokenMgr, r.p.Cookies)
	userH := handler.NewUserHandler(r.p.UserSvc)
	orgH := handler.NewOrganizationHandler(r.p.OrganizationSvc)
	serviceH := handler.NewServiceHandler(r.p.CatalogSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH)
	r.registerUserRoutes(api, userH, authRequired, requirePerm)
	r.registerOrganizationRoutes(api, orgH, authRequired, requirePerm)
	r.registerServiceRoutes(api, serviceH, authRequired, requirePerm)
	r.registerAppointmentRoutes(api, appointmentH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return authorize.IsPolicyHealthy() },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
