package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/opencore-hr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/jwt"
)

type RouterConfig struct {
	Env         string
	FrontendURL string
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	regularizationHandler RegularizationHandler,
	compOffHandler CompOffHandler,
	masterHandler MasterHandler,
	lifecycleHandler LifecycleHandler,
	reportHandler ReportHandler,
	capabilityHandler CapabilityHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/", attendanceHandler.List)
				r.Get("/{id}", attendanceHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}", attendanceHandler.Update)
					r.Post("/{id}/approve-overtime", attendanceHandler.ApproveOvertime)
					r.Post("/recalculate", attendanceHandler.Recalculate)
				})
			})

			r.Route("/regularizations", func(r chi.Router) {
				r.Post("/", regularizationHandler.Create)
				r.Get("/", regularizationHandler.List)
				r.Get("/{id}", regularizationHandler.Get)
				r.Put("/{id}", regularizationHandler.Update)
				r.Delete("/{id}", regularizationHandler.Delete)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/{id}/approve", regularizationHandler.Approve)
					r.Post("/{id}/reject", regularizationHandler.Reject)
				})
			})

			r.Route("/comp-offs", func(r chi.Router) {
				r.Post("/", compOffHandler.Create)
				r.Get("/", compOffHandler.List)
				r.Post("/consume", compOffHandler.Consume)
				r.Get("/balance/{employeeID}", compOffHandler.GetBalance)
				r.Get("/{id}", compOffHandler.Get)
				r.Put("/{id}", compOffHandler.Update)
				r.Delete("/{id}", compOffHandler.Delete)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/{id}/approve", compOffHandler.Approve)
					r.Post("/{id}/reject", compOffHandler.Reject)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", masterHandler.ListHolidays)
				r.Get("/{id}", masterHandler.GetHoliday)
				r.Get("/employee/{employeeID}", masterHandler.ListHolidaysForEmployee)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", masterHandler.CreateHoliday)
					r.Put("/{id}", masterHandler.UpdateHoliday)
					r.Delete("/{id}", masterHandler.DeleteHoliday)
				})
			})

			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", masterHandler.ListLeaveTypes)
				r.Get("/{id}", masterHandler.GetLeaveType)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", masterHandler.CreateLeaveType)
					r.Put("/{id}", masterHandler.UpdateLeaveType)
					r.Delete("/{id}", masterHandler.DeleteLeaveType)
				})
			})

			r.Route("/lifecycle-events", func(r chi.Router) {
				r.Get("/", lifecycleHandler.List)
				r.Get("/{id}", lifecycleHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", lifecycleHandler.Record)
					r.Get("/statistics", lifecycleHandler.Statistics)
				})
			})

			// Admin only
			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/attendance", func(r chi.Router) {
					r.Get("/daily", reportHandler.GetDailyReport)
					r.Get("/monthly", reportHandler.GetMonthlyReport)
					r.Get("/departments", reportHandler.GetDepartmentComparison)
					r.Get("/overtime", reportHandler.GetOvertimeReport)
				})

				r.Route("/workforce", func(r chi.Router) {
					r.Get("/turnover", reportHandler.GetTurnoverReport)
					r.Get("/headcount", reportHandler.GetHeadcountReport)
					r.Get("/demographics", reportHandler.GetDemographicsReport)
					r.Get("/probation", reportHandler.GetProbationReport)
				})
			})

			// Admin only
			r.Route("/capabilities", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", capabilityHandler.List)
				r.Delete("/{name}", capabilityHandler.Disable)
			})
		})
	})
	return r
}
