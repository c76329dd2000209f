package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"uplink/backend/api/middleware"
	"uplink/backend/api/route"
	"uplink/backend/common"
	"uplink/backend/library/queue"
	"uplink/backend/model"
	"uplink/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	flag.Parse()
	if *common.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if *common.PrintHelpFlag {
		common.PrintHelp()
		os.Exit(0)
	}
	common.SetupGinLog()
	common.LoadEnv()
	common.SysLog("Uplink backend " + common.Version + " started")
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := common.InitRedisClient(); err != nil {
		common.FatalLog(err)
	}
	if err := model.InitDB(); err != nil {
		common.FatalLog(err)
	}
	defer func() {
		if err := model.CloseDB(); err != nil {
			common.FatalLog(err)
		}
	}()

	if err := service.InitStorage(); err != nil {
		common.FatalLog(err)
	}
	if err := queue.InitPublisher(); err != nil {
		// Analytics degrade to synchronous rows, uploads keep working.
		common.SysError("failed to initialize RabbitMQ publisher: " + err.Error())
	}

	server := gin.Default()
	server.Use(middleware.CORS())
	server.Use(middleware.Lang())

	if common.RedisEnabled {
		opt := common.ParseRedisOption()
		store, err := redis.NewStore(10, opt.Network, opt.Addr, opt.Username, opt.Password, []byte(common.SessionSecret))
		if err != nil {
			common.FatalLog(err)
		}
		server.Use(sessions.Sessions("session", store))
	} else {
		store := cookie.NewStore([]byte(common.SessionSecret))
		server.Use(sessions.Sessions("session", store))
	}

	route.SetRouter(server)
	server.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "API route not found",
			})
			return
		}
		c.Status(http.StatusNotFound)
	})

	setupGracefulShutdown()

	port := strconv.Itoa(*common.Port)
	common.SysLog("Server listening on port: " + port)
	if err := server.Run(":" + port); err != nil {
		log.Fatal("failed to start server: " + err.Error())
	}
}

// setupGracefulShutdown releases the queue connection on SIGINT/SIGTERM.
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		common.SysLog("Shutting down...")
		queue.ClosePublisher()
		if err := model.CloseDB(); err != nil {
			common.SysError("error closing database: " + err.Error())
		}
		os.Exit(0)
	}()
}
