// Package app assembles stores, services and HTTP modules from configuration.
package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-taskhub/internal/core/auth"
	"go-gin-taskhub/internal/core/cache"
	"go-gin-taskhub/internal/core/config"
	"go-gin-taskhub/internal/core/database"
	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/internal/repo"
	"go-gin-taskhub/internal/repo/memory"
	"go-gin-taskhub/internal/service"
	"go-gin-taskhub/internal/transport/http/handler"
	"go-gin-taskhub/internal/transport/http/router"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB // nil with the memory driver
	Cache    *cache.Cache
	JWT      *auth.JWTer
	Users    *service.UserService
	Tasks    *service.TaskService
	Auth     *service.AuthService
	Registry *router.Registry
}

// Build opens the configured store and wires every service. Call Close when done.
func Build(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Cfg: cfg, Log: log}

	var (
		users domain.UserRepository
		tasks domain.TaskRepository
	)
	switch cfg.DB.Driver {
	case "memory":
		st := memory.NewStore()
		users, tasks = st.Users(), st.Tasks()
		log.Warn("using in-memory store; data is lost on exit")
	default:
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
			SlowThresholdMs:    cfg.DB.SlowThresholdMs,
			Logger:             log,
		})
		if err != nil {
			return nil, err
		}
		a.DB = db
		users, tasks = repo.NewUserRepo(db), repo.NewTaskRepo(db)
		log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	}

	var userOpts []service.UserOption
	userOpts = append(userOpts, service.WithUserLogger(log.Named("users")))
	if cfg.Redis.Enabled {
		a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		userOpts = append(userOpts, service.WithCache(a.Cache, cfg.Redis.TTL()))
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	hasher := auth.NewBcryptHasher(cfg.Password.BcryptCost)
	a.JWT = &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL()}
	a.Users = service.NewUserService(users, hasher, userOpts...)
	a.Tasks = service.NewTaskService(tasks, users, log.Named("tasks"))
	authSvc, err := service.NewAuthService(a.Users, hasher, a.JWT, log.Named("auth"))
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Auth = authSvc

	a.Registry = router.NewRegistry(
		handler.NewAuthHandler(a.Auth, a.Users, log),
		handler.NewTaskHandler(a.Tasks, log),
		handler.NewUserHandler(a.Users, log),
	)
	return a, nil
}

// Migrate creates or updates the schema. The memory store needs none.
func (a *App) Migrate() error {
	if a.DB == nil {
		return nil
	}
	if err := database.Migrate(a.DB); err != nil {
		return err
	}
	a.Log.Info("schema migrated")
	return nil
}

func (a *App) SeedAdmin(ctx context.Context) (bool, error) {
	s := a.Cfg.Seed
	return service.SeedAdmin(ctx, a.Users, service.AdminSeed{Name: s.Name, Email: s.Email, Password: s.Password}, a.Log)
}

// Bootstrap runs the startup steps enabled in configuration.
func (a *App) Bootstrap(ctx context.Context) error {
	if a.Cfg.DB.AutoMigrate {
		if err := a.Migrate(); err != nil {
			return err
		}
	}
	if a.Cfg.Seed.Enabled {
		if _, err := a.SeedAdmin(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Ready pings the database. The cache is optional and not checked.
func (a *App) Ready() error {
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (a *App) RouterDeps() router.Deps {
	return router.Deps{
		Log:          a.Log,
		Verifier:     a.Auth,
		Limits:       a.Cfg.Limits,
		AllowOrigins: a.Cfg.CORS.AllowOrigins,
		Ready:        a.Ready,
	}
}

func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
