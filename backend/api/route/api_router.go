package route

import (
	"uplink/backend/api/handler"
	"uplink/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetApiRouter(route *gin.Engine) {
	// Public upload surface, outside /api so slugs stay short.
	uploadRoute := route.Group("/u")
	uploadRoute.Use(middleware.UploadRateLimit())
	{
		uploadRoute.GET("/:slug", handler.ResolveLink)
		uploadRoute.POST("/:slug", handler.UploadToLink)
	}

	apiRouter := route.Group("/api")
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		apiRouter.GET("/status", handler.GetStatus)

		authRoutes := apiRouter.Group("/auth")
		{
			authRoutes.POST("/register", middleware.CriticalRateLimit(), handler.Register)
			authRoutes.POST("/login", middleware.CriticalRateLimit(), handler.Login)
			authRoutes.POST("/refresh", middleware.CriticalRateLimit(), handler.RefreshToken)
			authRoutes.POST("/logout", middleware.JWTAuth(), handler.Logout)
		}

		// Billing webhook is authenticated by signature, not by JWT.
		apiRouter.POST("/billing/webhook", middleware.CriticalRateLimit(), handler.BillingWebhook)

		userRoute := apiRouter.Group("/user")
		{
			selfRoute := userRoute.Group("/")
			selfRoute.Use(middleware.JWTAuth())
			{
				selfRoute.GET("/self", handler.GetSelf)
				selfRoute.PUT("/self", handler.UpdateSelf)
			}

			adminRoute := userRoute.Group("/")
			adminRoute.Use(middleware.JWTAuth(), middleware.AdminAuth())
			{
				adminRoute.GET("/", handler.GetAllUsers)
				adminRoute.GET("/search", handler.SearchUsers)
				adminRoute.GET("/:id", handler.GetUser)
				adminRoute.POST("/manage", handler.ManageUser)
				adminRoute.DELETE("/:id", handler.DeleteUser)
			}
		}

		workspaceRoute := apiRouter.Group("/workspace")
		workspaceRoute.Use(middleware.JWTAuth())
		{
			workspaceRoute.GET("/", handler.GetWorkspace)
			workspaceRoute.PUT("/", handler.RenameWorkspace)
		}

		folderRoute := apiRouter.Group("/folders")
		folderRoute.Use(middleware.JWTAuth())
		{
			folderRoute.GET("/", handler.GetFolders)
			folderRoute.POST("/", handler.CreateFolder)
			folderRoute.PUT("/:id", handler.UpdateFolder)
			folderRoute.DELETE("/:id", handler.DeleteFolderHandler)
		}

		linkRoute := apiRouter.Group("/links")
		linkRoute.Use(middleware.JWTAuth())
		{
			linkRoute.GET("/", handler.GetLinks)
			linkRoute.POST("/", handler.CreateLink)
			linkRoute.GET("/:id", handler.GetLink)
			linkRoute.PUT("/:id", handler.UpdateLink)
			linkRoute.POST("/:id/toggle", handler.ToggleLink)
			linkRoute.POST("/:id/slug", handler.RegenerateSlug)
			linkRoute.GET("/:id/activity", handler.GetLinkActivity)
			linkRoute.DELETE("/:id", handler.DeleteLinkHandler)
		}

		fileRoute := apiRouter.Group("/files")
		fileRoute.Use(middleware.JWTAuth())
		{
			fileRoute.GET("/", handler.GetFiles)
			fileRoute.GET("/search", handler.SearchWorkspaceFiles)
			fileRoute.GET("/:id/download", handler.DownloadFile)
			fileRoute.DELETE("/:id", handler.DeleteFileHandler)
		}

		batchRoute := apiRouter.Group("/batches")
		batchRoute.Use(middleware.JWTAuth())
		{
			batchRoute.GET("/", handler.GetBatches)
			batchRoute.GET("/:public_id", handler.GetBatch)
			batchRoute.DELETE("/:public_id", handler.DeleteBatchHandler)
		}

		notificationRoute := apiRouter.Group("/notifications")
		notificationRoute.Use(middleware.JWTAuth())
		{
			notificationRoute.GET("/", handler.GetNotifications)
			notificationRoute.GET("/unread", handler.GetUnreadCount)
			notificationRoute.POST("/:id/read", handler.MarkNotificationRead)
			notificationRoute.POST("/read_all", handler.MarkAllNotificationsRead)
			notificationRoute.DELETE("/:id", handler.DeleteNotificationHandler)
		}

		analyticsRoute := apiRouter.Group("/analytics")
		analyticsRoute.Use(middleware.JWTAuth())
		{
			analyticsRoute.GET("/activity", handler.GetUploadActivity)
			analyticsRoute.GET("/top_links", handler.GetTopLinks)
		}

		billingRoute := apiRouter.Group("/billing")
		billingRoute.Use(middleware.JWTAuth())
		{
			billingRoute.GET("/subscription", handler.GetSubscription)
		}

		optionRoute := apiRouter.Group("/option")
		optionRoute.Use(middleware.JWTAuth(), middleware.RootAuth())
		{
			optionRoute.GET("/", handler.GetOptions)
			optionRoute.PUT("/", handler.UpdateOption)
		}
	}
}
