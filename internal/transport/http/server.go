package http

import (
	"github.com/gin-gonic/gin"

	"studyboard/internal/access"
	appsvc "studyboard/internal/app"
	"studyboard/internal/bootstrap"
	"studyboard/internal/cache"
	"studyboard/internal/pkg/credential"
	"studyboard/internal/pkg/jwtutil"
	"studyboard/internal/repository"
	"studyboard/internal/transport/http/handler"
	"studyboard/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	logger := app.Logger
	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	postRepo := repository.NewPostRepository(app.MySQL)
	commentRepo := repository.NewCommentRepository(app.MySQL)
	courseRepo := repository.NewCourseRepository(app.MySQL)
	groupRepo := repository.NewGroupRepository(app.MySQL)

	tokens := jwtutil.NewService(app.Config.Auth.JWTSecret, app.Config.TokenTTL())
	hasher := credential.NewHasher(app.Config.Auth.BcryptCost)
	policy := access.NewPolicy(groupRepo)
	audit := appsvc.NewAuditor(app.AuditPublisher(), logger)
	courseCache := cache.NewCourseCache(app.Redis, app.Config.CourseCacheTTL())

	authService := appsvc.NewAuthService(userRepo, hasher, tokens, audit, logger)
	postService := appsvc.NewPostService(postRepo, groupRepo, policy, audit, logger)
	commentService := appsvc.NewCommentService(commentRepo, postRepo, policy, audit, logger)
	courseService := appsvc.NewCourseService(courseRepo, courseCache, policy, audit, logger)
	groupService := appsvc.NewGroupService(groupRepo, userRepo, policy, audit, logger)
	userService := appsvc.NewUserService(userRepo, postService)

	authenticator := appsvc.NewAuthenticator(tokens, userRepo, logger)
	requireAuth := middleware.RequireAuth(authenticator)
	optionalAuth := middleware.OptionalAuth(authenticator)

	authHandler := handler.NewAuthHandler(authService, logger)
	postHandler := handler.NewPostHandler(postService, commentService, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	courseHandler := handler.NewCourseHandler(courseService, logger)
	groupHandler := handler.NewGroupHandler(groupService, postService, logger)
	userHandler := handler.NewUserHandler(userService, groupService, logger)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/profile", requireAuth, authHandler.Profile)
	authGroup.PUT("/profile", requireAuth, authHandler.UpdateProfile)
	authGroup.POST("/change-password", requireAuth, authHandler.ChangePassword)
	authGroup.POST("/logout", requireAuth, authHandler.Logout)

	postGroup := v1.Group("/posts")
	postGroup.GET("", optionalAuth, postHandler.List)
	postGroup.POST("", requireAuth, postHandler.Create)
	postGroup.GET("/:id", optionalAuth, postHandler.Get)
	postGroup.DELETE("/:id", requireAuth, postHandler.Delete)
	postGroup.GET("/:id/comments", optionalAuth, postHandler.ListComments)

	v1.POST("/comments", requireAuth, commentHandler.Create)

	courseGroup := v1.Group("/courses")
	courseGroup.GET("", courseHandler.List)
	courseGroup.POST("", requireAuth, courseHandler.Create)
	courseGroup.DELETE("/:id", requireAuth, courseHandler.Delete)

	groupGroup := v1.Group("/groups")
	groupGroup.GET("", groupHandler.List)
	groupGroup.POST("", requireAuth, groupHandler.Create)
	groupGroup.GET("/:id", groupHandler.Get)
	groupGroup.PUT("/:id", requireAuth, groupHandler.Update)
	groupGroup.DELETE("/:id", requireAuth, groupHandler.Delete)
	groupGroup.POST("/:id/members", requireAuth, groupHandler.AddMember)
	groupGroup.DELETE("/:id/members/:user_id", requireAuth, groupHandler.RemoveMember)
	groupGroup.GET("/:id/posts", requireAuth, groupHandler.ListPosts)

	userGroup := v1.Group("/users")
	userGroup.GET("", userHandler.List)
	userGroup.GET("/:id", optionalAuth, userHandler.Get)
	userGroup.GET("/:id/posts", optionalAuth, userHandler.ListPosts)
	userGroup.GET("/:id/groups", userHandler.ListGroups)

	return router
}
