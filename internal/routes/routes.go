package routes

import (
	"github.com/circlehub/circlehub-backend/internal/handler"
	"github.com/circlehub/circlehub-backend/internal/middleware"
	"github.com/circlehub/circlehub-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	wsHandler *handler.WSHandler,
	groupHandler *handler.GroupHandler,
	friendHandler *handler.FriendHandler,
	classroomHandler *handler.ClassroomHandler,
	adminHandler *handler.AdminHandler,
	jwtManager *jwt.Manager,
) {
	// Live event channel
	router.GET("/ws", middleware.JWTAuth(jwtManager), wsHandler.Connect)

	api := router.Group("/api/v1", middleware.JWTAuth(jwtManager))

	// Groups
	groups := api.Group("/groups")
	{
		groups.POST("", groupHandler.Create)
		groups.GET("", groupHandler.List)
		groups.GET("/:id", groupHandler.Get)
		groups.DELETE("/:id", groupHandler.Delete)
		groups.POST("/:id/leave", groupHandler.Leave)

		groups.POST("/:id/join-requests", groupHandler.SubmitJoinRequest)
		groups.GET("/:id/join-requests", groupHandler.ListJoinRequests)
		groups.POST("/:id/join-requests/:reqID/decision", groupHandler.DecideJoinRequest)

		groups.GET("/:id/messages", groupHandler.ListMessages)
		groups.GET("/:id/messages/archived", groupHandler.ListArchivedMessages)
		groups.POST("/:id/messages/:msgID/archive", groupHandler.ArchiveMessage)
	}

	// Social graph
	friends := api.Group("/friends")
	{
		friends.GET("", friendHandler.ListFriends)
		friends.POST("/requests", friendHandler.SendRequest)
		friends.GET("/requests", friendHandler.ListRequests)
		friends.POST("/requests/:senderID/respond", friendHandler.Respond)
	}

	// Classroom workflow
	classrooms := api.Group("/classrooms")
	{
		classrooms.POST("/requests", classroomHandler.Submit)
		classrooms.GET("/requests", classroomHandler.List)
		classrooms.POST("/requests/:id/approve", middleware.RequireAdmin(), classroomHandler.Approve)
		classrooms.POST("/requests/:id/decline", middleware.RequireAdmin(), classroomHandler.Decline)
	}

	// Administration
	admin := api.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users/:id/suspend", adminHandler.Suspend)
		admin.POST("/users/:id/reinstate", adminHandler.Reinstate)
		admin.DELETE("/users/:id", adminHandler.Delete)
		admin.PUT("/users/:id/role", adminHandler.UpdateRole)
		admin.GET("/logs", adminHandler.ListAuditLog)
		admin.GET("/violations", adminHandler.ListViolations)
	}
}
