package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/api/handler"
	"github.com/squirrelip/squirrel_server/internal/api/middleware"
	"github.com/squirrelip/squirrel_server/internal/model"
)

type Router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	patentHandler       *handler.PatentHandler
	interactionHandler  *handler.InteractionHandler
	subscriptionHandler *handler.SubscriptionHandler
	uploadHandler       *handler.UploadHandler
	emailHandler        *handler.EmailHandler
	limiter             *middleware.RateLimiter
	logger              *zap.Logger
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	patentHandler *handler.PatentHandler,
	interactionHandler *handler.InteractionHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	uploadHandler *handler.UploadHandler,
	emailHandler *handler.EmailHandler,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		userHandler:         userHandler,
		patentHandler:       patentHandler,
		interactionHandler:  interactionHandler,
		subscriptionHandler: subscriptionHandler,
		uploadHandler:       uploadHandler,
		emailHandler:        emailHandler,
		limiter:             limiter,
		logger:              logger,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if r.cfg.Upload.MaxMemory > 0 {
		engine.MaxMultipartMemory = r.cfg.Upload.MaxMemory
	}
	engine.Use(middleware.Recovery(r.logger))
	engine.Use(middleware.RequestLogger(r.logger))
	engine.Use(middleware.CORS(r.cfg.CORS))
	if r.limiter != nil {
		engine.Use(r.limiter.Middleware())
	}

	engine.GET("/", handler.Health)

	authorize := middleware.Auth(r.cfg.JWT.Secret, r.cfg.JWT.CookieName)

	engine.POST("/upload", authorize, r.uploadHandler.Upload)

	api := engine.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/auto-login", authorize, r.authHandler.AutoLogin)
			auth.POST("/logout", r.authHandler.Logout)
		}

		profile := api.Group("/profile", authorize)
		{
			profile.PUT("/update", r.userHandler.UpdateProfile)
			profile.DELETE("/delete-user", r.userHandler.DeleteUser)
		}

		api.POST("/subscribe", r.subscriptionHandler.Subscribe)
		api.POST("/email", authorize, r.emailHandler.Send)

		patent := api.Group("/patent")
		{
			patent.GET("/search-patents", r.patentHandler.SearchPatents)
			patent.GET("/get-all-patents", r.patentHandler.GetAllPatents)

			patent.POST("/create-patent", authorize, r.patentHandler.CreatePatent)
			patent.POST("/add-patent", authorize, r.patentHandler.AddPatent)
			patent.GET("/my-patents", authorize, r.patentHandler.MyPatents)
			patent.POST("/get-patents-by-ids", authorize, r.patentHandler.GetPatentsByIDs)
			patent.DELETE("/delete-patent/:patentId", authorize, r.patentHandler.DeletePatent)
		}

		interaction := api.Group("/interaction", authorize)
		{
			for _, kind := range model.InteractionKinds {
				interaction.POST("/"+string(kind), r.interactionHandler.Toggle(kind))
				interaction.GET("/"+string(kind), r.interactionHandler.Doer(kind))
				interaction.GET("/received-"+string(kind), r.interactionHandler.Received(kind))
			}
			interaction.GET("/received-summary", r.interactionHandler.ReceivedSummary)
		}
	}

	return engine
}
