package main

import (
	"context"
	"fmt"
	common_api "go-hrms/internal/common/api"
	"go-hrms/internal/config"
	"go-hrms/internal/connectors"
	"go-hrms/internal/database"
	"go-hrms/internal/features/announcement"
	"go-hrms/internal/features/audit"
	"go-hrms/internal/features/auth"
	"go-hrms/internal/features/automation"
	"go-hrms/internal/features/employee"
	"go-hrms/internal/features/file"
	"go-hrms/internal/features/infrastructure"
	"go-hrms/internal/features/leave"
	"go-hrms/internal/features/notification"
	"go-hrms/internal/features/onboarding"
	"go-hrms/internal/features/payroll"
	"go-hrms/internal/features/role"
	"go-hrms/internal/features/system"
	"go-hrms/internal/features/user"
	"go-hrms/internal/logger"
	"go-hrms/internal/middleware"
	"go-hrms/pkg/utils"
	"log"

	_ "go-hrms/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// ConfigureAuth injects the JWT secret before any request is served.
func ConfigureAuth(cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)
}

// SeedSystemRoles makes sure the built-in roles exist on startup.
func SeedSystemRoles(lc fx.Lifecycle, roleService role.RoleService, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := roleService.EnsureSystemRoles(ctx); err != nil {
				logger.Error("failed to seed system roles", zap.Error(err))
				return err
			}
			return nil
		},
	})
}

// @title           HRMS API
// @version         1.0
// @description     Human resources management platform: employees, onboarding, IT provisioning, leave, payroll and announcements.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database & external payroll source
			database.NewDatabase,
			connectors.NewPayrollSource,

			// Initialize Repository
			user.NewUserRepository,
			role.NewRoleRepository,
			audit.NewAuditRepository,
			notification.NewNotificationRepository,
			file.NewFileRepository,
			automation.NewRuleRepository,
			employee.NewEmployeeRepository,
			onboarding.NewOnboardingRepository,
			infrastructure.NewRequestRepository,
			leave.NewLeaveRepository,
			payroll.NewPayrollRepository,
			announcement.NewAnnouncementRepository,

			// Initialize Service
			notification.NewHub,
			audit.NewAuditService,
			auth.NewAuthService,
			role.NewRoleService,
			user.NewUserService,
			file.NewFileService,
			notification.NewNotificationService,
			automation.NewAutomationService,
			employee.NewEmployeeService,
			infrastructure.NewInfrastructureService,
			onboarding.NewOnboardingService,
			leave.NewLeaveService,
			payroll.NewPayrollService,
			announcement.NewAnnouncementService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s role.RoleService) middleware.CapabilityResolver { return s },
			func(r user.UserRepository) audit.UserFinder { return r },
			func(s automation.AutomationService) infrastructure.AutomationTrigger { return s },
			func(s automation.AutomationService) employee.AutomationTrigger { return s },
			func(s automation.AutomationService) onboarding.AutomationTrigger { return s },
			func(s automation.AutomationService) leave.AutomationTrigger { return s },
			func(s employee.EmployeeService) onboarding.EmployeeDirectory { return s },
			func(s infrastructure.InfrastructureService) onboarding.ProvisioningCreator { return s },

			// Initialize Controller
			auth.NewAuthController,
			role.NewRoleController,
			user.NewUserController,
			audit.NewAuditController,
			notification.NewNotificationController,
			file.NewFileController,
			automation.NewAutomationController,
			employee.NewEmployeeController,
			onboarding.NewOnboardingController,
			infrastructure.NewInfrastructureController,
			leave.NewLeaveController,
			payroll.NewPayrollController,
			announcement.NewAnnouncementController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(role.NewRoleApi),
			AsRoute(user.NewUserApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(file.NewFileApi),
			AsRoute(automation.NewAutomationApi),
			AsRoute(employee.NewEmployeeApi),
			AsRoute(onboarding.NewOnboardingApi),
			AsRoute(infrastructure.NewInfrastructureApi),
			AsRoute(leave.NewLeaveApi),
			AsRoute(payroll.NewPayrollApi),
			AsRoute(announcement.NewAnnouncementApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			ConfigureAuth,
			RegisterAllRoutesWithAnnotation,
			SeedSystemRoles,
			StartServer,
		),
	)

	app.Run()
}
