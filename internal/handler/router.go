package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/warin-dev/sis-api/internal/middleware"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/service"
)

// Router bundles the handlers for route registration.
type Router struct {
	Auth         *AuthHandler
	Students     *StudentHandler
	Teachers     *TeacherHandler
	Classrooms   *ClassroomHandler
	Contacts     *ContactHandler
	Subjects     *SubjectHandler
	Groups       *SubjectGroupHandler
	Clubs        *ClubHandler
	Attendance   *AttendanceHandler
	Certificates *CertificateHandler
	Exports      *ExportHandler
	Health       *HealthHandler

	AuthService *service.AuthService
}

// Register mounts every route under the API prefix. Reads accept anonymous
// requests, which the fetch layer serves at IdOnly only; writes require a
// token. Export submission is additionally role-gated because the rendering
// job outlives the request and its per-request authorizer.
func (r *Router) Register(engine *gin.Engine, prefix string) {
	engine.GET("/health", r.Health.Health)
	engine.GET("/ready", r.Health.Ready)
	engine.GET("/metrics", r.Health.Prometheus)

	api := engine.Group(prefix)

	api.POST("/auth/login", r.Auth.Login)
	api.POST("/auth/refresh", r.Auth.Refresh)
	api.POST("/auth/logout", r.Auth.Logout)

	reads := api.Group("", middleware.OptionalJWT(r.AuthService))
	{
		reads.GET("/students", r.Students.List)
		reads.GET("/students/:id", r.Students.Get)
		reads.GET("/teachers", r.Teachers.List)
		reads.GET("/teachers/:id", r.Teachers.Get)
		reads.GET("/classrooms", r.Classrooms.List)
		reads.GET("/classrooms/:id", r.Classrooms.Get)
		reads.GET("/contacts", r.Contacts.List)
		reads.GET("/contacts/:id", r.Contacts.Get)
		reads.GET("/subjects", r.Subjects.List)
		reads.GET("/subjects/:id", r.Subjects.Get)
		reads.GET("/subject-groups", r.Groups.List)
		reads.GET("/subject-groups/:id", r.Groups.Get)
		reads.GET("/clubs", r.Clubs.List)
		reads.GET("/clubs/:id", r.Clubs.Get)
		reads.GET("/attendance", r.Attendance.List)
		reads.GET("/attendance/:id", r.Attendance.Get)
		reads.GET("/certificates", r.Certificates.List)
		reads.GET("/certificates/:id", r.Certificates.Get)
	}

	writes := api.Group("", middleware.JWT(r.AuthService))
	{
		writes.PATCH("/students/:id", r.Students.Update)
		writes.GET("/students/:id/award-sheet", r.Certificates.StudentAwardSheet)
		writes.PATCH("/teachers/:id", r.Teachers.Update)
		writes.PATCH("/classrooms/:id", r.Classrooms.Update)
		writes.POST("/contacts", r.Contacts.Create)
		writes.PATCH("/contacts/:id", r.Contacts.Update)
		writes.DELETE("/contacts/:id", r.Contacts.Delete)
		writes.PATCH("/subjects/:id", r.Subjects.Update)
		writes.POST("/attendance", r.Attendance.Record)
	}

	if r.Exports != nil {
		exports := api.Group("/exports",
			middleware.JWT(r.AuthService),
			middleware.RequireRoles(models.RoleAdmin, models.RoleManagement))
		{
			exports.POST("", r.Exports.Submit)
			exports.GET("/jobs/:id", r.Exports.Status)
		}
		api.GET("/exports/download/:token", r.Exports.Download)
	}

	api.GET("/health/metrics",
		middleware.JWT(r.AuthService),
		middleware.RequireRoles(models.RoleAdmin, models.RoleManagement),
		r.Health.Snapshot)
}
