package router

import (
	"Octo_Social/internal/handler"
	"Octo_Social/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps 路由依赖，由 main 组装
type Deps struct {
	Auth         *handler.AuthHandler
	Post         *handler.PostHandler
	Follow       *handler.FollowHandler
	User         *handler.UserHandler
	Conversation *handler.ConversationHandler
	Media        *handler.MediaHandler
	Health       map[string]handler.Pinger

	// RequireLogin 鉴权中间件
	RequireLogin gin.HandlerFunc
	Log          *zap.Logger
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))

	r.GET("/health", handler.Health(d.Health))

	api := r.Group("/api")

	// GitHub 登录
	authGroup := api.Group("/auth")
	{
		authGroup.GET("/github/login", d.Auth.GitHubLogin)
		authGroup.GET("/github/callback", d.Auth.GitHubCallback)
		authGroup.POST("/logout", d.RequireLogin, d.Auth.Logout)
	}

	// token相关接口
	api.POST("/token/refresh", d.Auth.TokenRefresh)

	// 关系列表公开
	api.GET("/followers", d.Follow.ListFollowers)
	api.GET("/following", d.Follow.ListFollowing)

	// 登录态接口
	authed := api.Group("")
	authed.Use(d.RequireLogin)
	{
		authed.POST("/posts", d.Post.CreatePost)
		authed.GET("/posts", d.Post.ListFeed)
		authed.GET("/comments", d.Post.ListComments)
		authed.POST("/comments", d.Post.AddComment)

		authed.POST("/follow", d.Follow.Follow)
		authed.DELETE("/follow", d.Follow.Unfollow)
		authed.GET("/follow", d.Follow.IsFollowing)

		authed.GET("/users", d.User.List)
		authed.GET("/users/search", d.User.Search)
		authed.GET("/profile", d.User.Profile)

		authed.GET("/conversations", d.Conversation.List)
		authed.POST("/conversations", d.Conversation.Start)
		authed.GET("/messages", d.Conversation.ListMessages)
		authed.POST("/messages", d.Conversation.SendMessage)

		authed.POST("/media", d.Media.Upload)
	}

	return r
}
