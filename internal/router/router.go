package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/soulbliss/soulbliss-api/internal/handler"
	"github.com/soulbliss/soulbliss-api/internal/middleware"
	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/service"
	"github.com/soulbliss/soulbliss-api/pkg/config"
)

// Handlers groups every HTTP handler mounted by Register.
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Classes     *handler.ClassHandler
	Selections  *handler.SelectionHandler
	Payments    *handler.PaymentHandler
	Enrollments *handler.EnrollmentHandler
	Metrics     *handler.MetricsHandler
}

// Guards holds the services backing route protection.
type Guards struct {
	Auth  *service.AuthService
	Roles *service.RoleGate
}

// Register wires routes and route-level middleware.
func Register(r *gin.Engine, cfg *config.Config, h Handlers, g Guards) {
	token := middleware.JWT(g.Auth)
	self := middleware.RequireSelf("email")
	admin := middleware.RequireRole(g.Roles, models.RoleAdmin)

	r.GET("/", h.Metrics.Root)
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/jwt", h.Auth.IssueToken)

	users := r.Group("/users")
	users.POST("", h.Users.Create)
	users.GET("", token, admin, h.Users.List)
	users.GET("/instructors/all", h.Users.ListInstructors)
	users.GET("/admin/:email", token, h.Users.IsAdmin)
	users.GET("/instructor/:email", token, h.Users.IsInstructor)
	users.PATCH("/admin/:id", h.Users.MakeAdmin)
	users.PATCH("/instructor/:id", h.Users.MakeInstructor)
	users.DELETE("/delete/:id", token, admin, h.Users.Delete)

	classes := r.Group("/classes")
	classes.POST("", h.Classes.Create)
	classes.GET("", h.Classes.List)
	classes.GET("/approved/all", h.Classes.ListApproved)
	classes.GET("/single/:id", h.Classes.Get)
	classes.GET("/:email", token, self, h.Classes.ListByInstructor)
	classes.PATCH("/approved/:id", h.Classes.Approve)
	classes.PATCH("/denied/:id", h.Classes.Deny)
	classes.PATCH("/feedback/:id", h.Classes.Feedback)

	selected := r.Group("/selected")
	selected.POST("", h.Selections.Create)
	selected.GET("/single/:id", h.Selections.Get)
	selected.GET("/:email", token, self, h.Selections.ListByBuyer)
	selected.DELETE("/delete/:id", h.Selections.Delete)

	r.POST("/create-payment-intent", token, h.Payments.CreateIntent)
	r.POST("/payments", token, h.Payments.Complete)

	enrolled := r.Group("/enrolled", token, self)
	enrolled.GET("/:email", h.Enrollments.ListByBuyer)
	enrolled.GET("/:email/export", h.Enrollments.Export)
}
