package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	breaksCapability "github.com/opencore-hr/attendance-backend-go/internal/capability/breaks"
	"github.com/opencore-hr/attendance-backend-go/internal/config"
	appHTTP "github.com/opencore-hr/attendance-backend-go/internal/handler/http"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/cache"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/cron"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/database"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/registry"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/storage"
	"github.com/opencore-hr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/opencore-hr/attendance-backend-go/internal/service/attendance"
	compOffService "github.com/opencore-hr/attendance-backend-go/internal/service/compoff"
	"github.com/opencore-hr/attendance-backend-go/internal/service/file"
	lifecycleService "github.com/opencore-hr/attendance-backend-go/internal/service/lifecycle"
	"github.com/opencore-hr/attendance-backend-go/internal/service/master"
	regularizationService "github.com/opencore-hr/attendance-backend-go/internal/service/regularization"
	reportService "github.com/opencore-hr/attendance-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		fmt.Println("Error loading timezone:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	attendanceLogRepo := postgresql.NewAttendanceLogRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	regularizationRepo := postgresql.NewRegularizationRepository(db)
	compOffRepo := postgresql.NewCompOffRepository(db)
	lifecycleEventRepo := postgresql.NewLifecycleEventRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)

	reg := registry.New()
	if cfg.Attendance.BreakSystemEnabled {
		reg.Register(breaksCapability.New(db))
	}

	reportCache := cache.New()

	calculator := attendanceService.NewCalculator()
	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		attendanceRepo,
		attendanceLogRepo,
		shiftRepo,
		employeeRepo,
		calculator,
		reg,
		cfg.Attendance,
		location,
	)
	recalculationSvc := attendanceService.NewRecalculationService(
		attendanceRepo,
		attendanceLogRepo,
		shiftRepo,
		employeeRepo,
		holidayRepo,
		calculator,
		reg,
		location,
	)
	regularizationSvc := regularizationService.NewRegularizationService(
		db,
		regularizationRepo,
		attendanceRepo,
		attendanceLogRepo,
		shiftRepo,
		employeeRepo,
		fileService,
		calculator,
		reg,
		location,
	)
	compOffSvc := compOffService.NewCompOffService(db, compOffRepo, employeeRepo, cfg.Attendance, location)
	holidaySvc := master.NewHolidayService(holidayRepo, employeeRepo, location)
	leaveTypeSvc := master.NewLeaveTypeService(leaveTypeRepo)
	lifecycleSvc := lifecycleService.NewLifecycleService(lifecycleEventRepo, employeeRepo, location)
	reportSvc := reportService.NewReportService(
		reportRepo,
		employeeRepo,
		holidayRepo,
		lifecycleEventRepo,
		reportCache,
		location,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, recalculationSvc, location)
	regularizationHandler := appHTTP.NewRegularizationHandler(regularizationSvc, location)
	compOffHandler := appHTTP.NewCompOffHandler(compOffSvc)
	masterHandler := appHTTP.NewMasterHandler(holidaySvc, leaveTypeSvc)
	lifecycleHandler := appHTTP.NewLifecycleHandler(lifecycleSvc, location)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	capabilityHandler := appHTTP.NewCapabilityHandler(reg)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:         cfg.App.Env,
			FrontendURL: cfg.App.FrontendURL,
		},
		JWTService,
		attendanceHandler,
		regularizationHandler,
		compOffHandler,
		masterHandler,
		lifecycleHandler,
		reportHandler,
		capabilityHandler,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(recalculationSvc, compOffSvc, db, location)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Forced shutdown:", err)
	}
}
