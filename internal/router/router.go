package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"clinic-portal/internal/config"
	"clinic-portal/internal/handler"
	"clinic-portal/internal/middleware"
	"clinic-portal/internal/model"
	"clinic-portal/internal/policy"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Staff       *handler.StaffHandler
	Patient     *handler.PatientHandler
	Doctor      *handler.DoctorHandler
	Clinic      *handler.ClinicHandler
	Appointment *handler.AppointmentHandler
	Audit       *handler.AuditHandler
	Page        *handler.PageHandler
	Health      *handler.HealthHandler
}

// pagePrefixes are the role areas served behind the route gate.
var pagePrefixes = []string{"/admin", "/clinic-admin", "/doctor", "/secretary", "/purchasing", "/patient"}

func New(
	cfg *config.Config,
	sessions *middleware.SessionMiddleware,
	gate *middleware.RouteGate,
	access middleware.PermissionChecker,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Live)
	r.Get("/health/db", h.Health.Database)

	r.Group(func(pages chi.Router) {
		pages.Use(middleware.Timeout(cfg.RequestTimeout))
		pages.Use(gate.Handler)

		pages.Get("/", h.Page.Serve)
		pages.Get(policy.LoginPath, h.Page.Serve)
		pages.Get(policy.RegisterPath, h.Page.Serve)
		pages.Get(policy.ChangePasswordPath, h.Page.Serve)
		pages.Get(policy.ErrorPath, h.Page.Serve)
		for _, prefix := range pagePrefixes {
			pages.Get(prefix, h.Page.Serve)
			pages.Get(prefix+"/*", h.Page.Serve)
		}
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(sessions.LoadSession)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/register", h.Auth.Register)
			auth.Post("/logout", h.Auth.Logout)
			auth.Post("/forgot-password", h.Auth.ForgotPassword)
			auth.Post("/reset-password", h.Auth.ResetPassword)
			auth.With(middleware.RequireSession).Get("/me", h.Auth.Me)
			auth.With(middleware.RequireSession).Post("/change-password", h.Auth.ChangePassword)
		})

		api.Group(func(private chi.Router) {
			private.Use(middleware.RequireSession)
			private.Use(middleware.RequirePasswordCurrent)
			private.Use(middleware.RequireClinic)

			private.Route("/staff", func(staff chi.Router) {
				staff.Use(middleware.RequireRoles(model.RoleClinicAdmin, model.RoleSuperAdmin))
				staff.With(middleware.RequirePermission(access, "staff", "create")).Post("/", h.Staff.Create)
				staff.With(middleware.RequirePermission(access, "staff", "read")).Get("/", h.Staff.List)
				staff.With(middleware.RequirePermission(access, "staff", "read")).Get("/export", h.Staff.Export)
				staff.With(middleware.RequirePermission(access, "staff", "update")).Patch("/{userId}/active", h.Staff.SetActive)
			})

			private.Get("/doctors", h.Doctor.List)

			private.Route("/patients/{patientId}", func(patients chi.Router) {
				patients.Get("/", h.Patient.Get)
				patients.Put("/", h.Patient.Update)
			})

			private.Route("/clinics", func(clinics chi.Router) {
				clinics.With(middleware.RequireRoles(model.RoleSuperAdmin)).Post("/", h.Clinic.Create)
				clinics.With(middleware.RequireRoles(model.RoleSuperAdmin)).Get("/", h.Clinic.List)
				clinics.Get("/{clinicId}", h.Clinic.Get)
			})

			private.Route("/appointments", func(appts chi.Router) {
				appts.With(
					middleware.RequireRoles(model.RolePatient),
					middleware.RequirePermission(access, "appointments", "create"),
				).Post("/", h.Appointment.Book)
				appts.Get("/patient/{patientId}", h.Appointment.ListForPatient)
				appts.With(middleware.RequirePermission(access, "appointments", "read")).Get("/clinic/{clinicId}", h.Appointment.ListForClinic)
			})

			private.With(middleware.RequireRoles(model.RoleSuperAdmin)).Get("/admin/audit", h.Audit.List)
		})
	})

	return r
}
