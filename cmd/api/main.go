package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/memory"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

type repositories struct {
	tx           database.Transactor
	employees    employee.EmployeeRepository
	attendance   attendance.AttendanceRepository
	leaveRequest leave.LeaveRequestRepository
	payroll      payroll.PayrollRepository
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	p := cfg.Policy
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendance, repos.employees, p.Attendance)
	leaveSvc := leaveService.NewLeaveService(repos.tx, repos.leaveRequest, repos.employees, p.Leave)
	payrollSvc := payrollService.NewPayrollService(
		repos.tx,
		repos.payroll,
		repos.employees,
		repos.attendance,
		repos.leaveRequest,
		p.Payroll,
		logger,
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{AllowedOrigins: cfg.App.CORSAllowedOrigins, Logger: logger},
		JWTService,
		appHTTP.Handlers{
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:      appHTTP.NewLeaveHandler(leaveSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		},
	)

	scheduler := cron.NewScheduler(ctx)
	attendanceJobs := cron.NewAttendanceJobs(attendanceSvc, repos.employees, repos.leaveRequest, p.Attendance.Location)
	if err := attendanceJobs.RegisterJobs(scheduler); err != nil {
		slog.Error("Failed to register attendance jobs", "error", err)
		os.Exit(1)
	}
	if cfg.Cron.PayrollEnabled {
		payrollJobs := cron.NewPayrollJobs(payrollSvc, repos.employees, p.Attendance.Location)
		if err := payrollJobs.RegisterJobs(scheduler, cfg.Cron.PayrollInterval); err != nil {
			slog.Error("Failed to register payroll jobs", "error", err)
			os.Exit(1)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll-engine"),
		slog.String("env", cfg.App.Env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		var seed []employee.Employee
		if cfg.Database.SeedEmployeesFile != "" {
			f, err := os.Open(cfg.Database.SeedEmployeesFile)
			if err != nil {
				return repositories{}, fmt.Errorf("failed to open employee seed: %w", err)
			}
			defer f.Close()
			if seed, err = memory.DecodeEmployees(f); err != nil {
				return repositories{}, err
			}
		}
		slog.Warn("Using in-memory storage; data is lost on restart", "seeded_employees", len(seed))
		return repositories{
			tx:           memory.NewTransactor(),
			employees:    memory.NewEmployeeRepository(seed...),
			attendance:   memory.NewAttendanceRepository(),
			leaveRequest: memory.NewLeaveRequestRepository(),
			payroll:      memory.NewPayrollRepository(),
			close:        func() {},
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
		})
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return repositories{}, err
			}
		}
		return repositories{
			tx:           postgresql.NewTransactor(db),
			employees:    postgresql.NewEmployeeRepository(db),
			attendance:   postgresql.NewAttendanceRepository(db),
			leaveRequest: postgresql.NewLeaveRequestRepository(db),
			payroll:      postgresql.NewPayrollRepository(db),
			close:        db.Close,
		}, nil
	}
}
