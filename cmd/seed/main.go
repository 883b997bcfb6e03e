package main

import (
	"context"

	"go-hrms/internal/config"
	"go-hrms/internal/database"
	"go-hrms/internal/features/audit"
	"go-hrms/internal/features/role"
	"go-hrms/internal/features/user"
	"go-hrms/internal/logger"
	"go-hrms/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed creates the system roles and a default super admin account.
func Seed(
	lc fx.Lifecycle,
	roleService role.RoleService,
	userRepo user.UserRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding...")

				if err := roleService.EnsureSystemRoles(ctx); err != nil {
					logger.Error("Failed to seed system roles", zap.Error(err))
					return
				}
				logger.Info("System roles seeded")

				const adminUsername = "admin"
				if _, err := userRepo.FindByUsername(ctx, adminUsername); err == nil {
					logger.Info("Super admin exists, skipping", zap.String("username", adminUsername))
					return
				}

				hashed, err := utils.HashPassword("ChangeMe123!")
				if err != nil {
					logger.Error("Failed to hash admin password", zap.Error(err))
					return
				}

				admin := &user.User{
					Username: adminUsername,
					Email:    "admin@localhost",
					Password: hashed,
					Roles:    []string{role.SuperAdminRole},
					IsActive: true,
				}
				if err := userRepo.Create(ctx, admin); err != nil {
					logger.Error("Failed to create super admin", zap.Error(err))
					return
				}

				logger.Info("Super admin created", zap.String("username", adminUsername))
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
			role.NewRoleRepository,
			audit.NewAuditRepository,
			audit.NewAuditService,
			role.NewRoleService,
			func(r user.UserRepository) audit.UserFinder { return r },
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
