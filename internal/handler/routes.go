package handler

import (
	"instaclone/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API under /api/v1. The limiter throttles the token endpoint.
func (h *Handler) RegisterRoutes(r gin.IRouter, limiter *auth.RateLimiter) {
	api := r.Group("/api/v1")

	oauth := api.Group("/oauth2")
	if limiter != nil {
		oauth.Use(limiter.Middleware())
	}
	oauth.POST("/access_token", h.IssueToken)

	api.POST("/users/create", h.CreateUser)

	protected := api.Group("")
	protected.Use(auth.AuthMiddleware(h.Tokens))
	{
		protected.GET("/users", auth.AdminMiddleware(h.Users), h.ListUsers)
		protected.GET("/users/me/links", h.ListLinks)
		protected.POST("/users/me/links", h.CreateLink)
		protected.DELETE("/users/me/links/:id", h.DeleteLink)
		protected.GET("/users/:id", h.GetUser)
		protected.POST("/users/:id/profile", h.SaveProfile)
		protected.POST("/users/:id/profile/image", h.UpdateProfileImage)

		requests := protected.Group("/friend/request")
		requests.POST("", h.SendFriendRequest)
		requests.GET("", h.ListFriendRequests)
		requests.POST("/:id/accept", h.AcceptFriendRequest)
		requests.POST("/:id/reject", h.RejectFriendRequest)
		requests.DELETE("/:id", MethodNotAllowed)

		friends := protected.Group("/friends")
		friends.GET("", h.ListFriends)
		friends.POST("", MethodNotAllowed)
		friends.GET("/:id", h.GetFriend)
		friends.PUT("/:id", MethodNotAllowed)
		friends.PUT("/:id/close-friend/add", h.AddCloseFriend)
		friends.PUT("/:id/close-friend/remove", h.RemoveCloseFriend)
		friends.DELETE("/:id/remove", h.RemoveFriend)

		posts := protected.Group("/posts")
		posts.GET("", h.ListPosts)
		posts.POST("", MethodNotAllowed)
		posts.POST("/upload/file", h.UploadPost)
		posts.GET("/:id", h.GetPost)
		posts.PUT("/:id", h.UpdatePost)
		posts.PATCH("/:id", h.UpdatePost)
		posts.DELETE("/:id", h.DeletePost)

		protected.POST("/post/like", h.LikePost)
		protected.POST("/post/comment", h.CommentPost)
		protected.GET("/feed", h.GetFeed)

		protected.GET("/notifications/stream", h.StreamNotifications)
	}
}
