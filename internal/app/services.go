package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/yonathan001/Appointment/config"
	"github.com/yonathan001/Appointment/internal/service/appointment"
	"github.com/yonathan001/Appointment/internal/service/auth"
	"github.com/yonathan001/Appointment/internal/service/catalog"
	"github.com/yonathan001/Appointment/internal/service/organization"
	"github.com/yonathan001/Appointment/internal/service/user"
	"github.com/yonathan001/Appointment/pkg/authorize"
	jwttoken "github.com/yonathan001/Appointment/pkg/token"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAuthService,
		ProvideUserService,
		ProvideOrganizationService,
		ProvideCatalogService,
		ProvideAppointmentService,
		ProvideJWTManager,
		ProvideCookieWriter,
	),
)

func ProvideAuthService(db *gorm.DB, rdb *redis.Client, tokens *jwttoken.Manager, cfg *config.Config) auth.Service {
	return auth.New(db, rdb, tokens, cfg)
}

func ProvideUserService(db *gorm.DB, authz authorize.IAuthorization) user.Service {
	return user.New(db, authz)
}

func ProvideOrganizationService(db *gorm.DB, authz authorize.IAuthorization) organization.Service {
	return organization.New(db, authz)
}

func ProvideCatalogService(db *gorm.DB, authz authorize.IAuthorization) catalog.Service {
	return catalog.New(db, authz)
}

func ProvideAppointmentService(db *gorm.DB, authz authorize.IAuthorization) appointment.Service {
	return appointment.New(db, authz)
}

func ProvideJWTManager(cfg *config.Config) (*jwttoken.Manager, error) {
	return jwttoken.NewJWTManager(cfg)
}

func ProvideCookieWriter(cfg *config.Config) *jwttoken.CookieWriter {
	return jwttoken.NewCookieWriter(cfg)
}
