package router // wires HTTP routes to their handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/hortaviva/community-garden/internal/handler"
	"github.com/hortaviva/community-garden/internal/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth              *handler.AuthHandler
	Users             *handler.UserHandler
	Grounds           *handler.GroundHandler
	BedSchedules      *handler.BedScheduleHandler
	Seeds             *handler.SeedHandler
	Tools             *handler.ToolHandler
	Peoples           *handler.PeopleHandler
	Voluntaries       *handler.VoluntaryHandler
	SeedUsages        *handler.SeedUsageHandler
	ToolUsages        *handler.ToolUsageHandler
	GroundDonates     *handler.GroundDonateHandler
	VoluntaryRequests *handler.VoluntaryRequestHandler
}

// Register mounts all routes on e. Unauthenticated surface: health
// probe, login/refresh, and the two public contact forms. Everything
// else sits behind JWT under /api.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	// Session endpoints. Logout works with just a refresh token, so it
	// stays outside the protected group.
	auth := e.Group("/api/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Public contact forms: offering land and asking to volunteer.
	e.POST("/api/grounds-donates", h.GroundDonates.Store)
	e.POST("/api/voluntaries-requests", h.VoluntaryRequests.Store)

	api := e.Group("/api")
	api.Use(middleware.JWTAuth(jwtSecret))

	api.GET("/auth/me", h.Auth.Me)

	api.GET("/users", h.Users.Index)
	api.GET("/users/:id", h.Users.Show)
	api.POST("/users", h.Users.Store)
	api.PATCH("/users/:id", h.Users.Update)
	api.DELETE("/users/:id", h.Users.Delete)

	api.GET("/grounds", h.Grounds.Index)
	api.GET("/grounds/:id", h.Grounds.Show)
	api.POST("/grounds", h.Grounds.Store)
	api.PATCH("/grounds/:id", h.Grounds.Update)
	api.PATCH("/grounds/:id/beds/:label", h.Grounds.UpdateBed)
	api.DELETE("/grounds/:id", h.Grounds.Delete)

	api.GET("/bed-schedules", h.BedSchedules.Index)
	api.GET("/bed-schedules/:id", h.BedSchedules.Show)
	api.POST("/bed-schedules", h.BedSchedules.Store)
	api.PUT("/bed-schedules/:id", h.BedSchedules.Update)
	api.POST("/bed-schedules/:id/close", h.BedSchedules.Close)
	api.POST("/bed-schedules/:id/adjust", h.BedSchedules.Adjust)
	api.DELETE("/bed-schedules/:id", h.BedSchedules.Delete)

	api.GET("/seeds", h.Seeds.Index)
	api.GET("/seeds/:id", h.Seeds.Show)
	api.POST("/seeds", h.Seeds.Store)
	api.PATCH("/seeds/:id", h.Seeds.Update)
	api.DELETE("/seeds/:id", h.Seeds.Delete)

	api.GET("/tools", h.Tools.Index)
	api.GET("/tools/:id", h.Tools.Show)
	api.POST("/tools", h.Tools.Store)
	api.PATCH("/tools/:id", h.Tools.Update)
	api.DELETE("/tools/:id", h.Tools.Delete)

	api.GET("/peoples", h.Peoples.Index)
	api.GET("/peoples/:id", h.Peoples.Show)
	api.POST("/peoples", h.Peoples.Store)
	api.PATCH("/peoples/:id", h.Peoples.Update)
	api.DELETE("/peoples/:id", h.Peoples.Delete)

	api.GET("/voluntaries", h.Voluntaries.Index)
	api.GET("/voluntaries/:id", h.Voluntaries.Show)
	api.POST("/voluntaries", h.Voluntaries.Store)
	api.POST("/voluntaries/many", h.Voluntaries.StoreMany)
	api.PATCH("/voluntaries/:id", h.Voluntaries.Update)
	api.DELETE("/voluntaries/:id", h.Voluntaries.Delete)

	api.GET("/voluntaries-using-seeds", h.SeedUsages.Index)
	api.GET("/voluntaries-using-seeds/:id", h.SeedUsages.Show)
	api.POST("/voluntaries-using-seeds", h.SeedUsages.Start)
	api.POST("/voluntaries-using-seeds/:id/end", h.SeedUsages.End)
	api.DELETE("/voluntaries-using-seeds/:id", h.SeedUsages.Delete)

	api.GET("/voluntaries-using-tools", h.ToolUsages.Index)
	api.GET("/voluntaries-using-tools/:id", h.ToolUsages.Show)
	api.POST("/voluntaries-using-tools", h.ToolUsages.Start)
	api.POST("/voluntaries-using-tools/:id/end", h.ToolUsages.End)
	api.DELETE("/voluntaries-using-tools/:id", h.ToolUsages.Delete)

	api.GET("/grounds-donates", h.GroundDonates.Index)
	api.GET("/grounds-donates/:id", h.GroundDonates.Show)
	api.PUT("/grounds-donates/:id", h.GroundDonates.Update)
	api.DELETE("/grounds-donates/:id", h.GroundDonates.Delete)

	api.GET("/voluntaries-requests", h.VoluntaryRequests.Index)
	api.GET("/voluntaries-requests/:id", h.VoluntaryRequests.Show)
	api.PUT("/voluntaries-requests/:id", h.VoluntaryRequests.Update)
	api.DELETE("/voluntaries-requests/:id", h.VoluntaryRequests.Delete)
}
