package common

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var Version = "v0.3.0"
var StartTime = time.Now().Unix()

var (
	Port          = flag.Int("port", 3000, "the listening port")
	PrintVersion  = flag.Bool("version", false, "print version and exit")
	PrintHelpFlag = flag.Bool("help", false, "print help and exit")
	LogDir        = flag.String("log-dir", "", "specify the log directory")
)

// Runtime configuration, populated from the environment in LoadEnv.
var (
	SQLitePath       = "data/uplink.db"
	SessionSecret    = uuid.New().String()
	JWTSecret        = ""
	JWTRefreshSecret = ""
	ServerAddress    = "http://localhost:3000"
	UploadPath       = "data/uploads"
	RedisConnString  = ""
	QueueConnString  = ""
	UploadQueue      = "uplink.upload-events"
)

const (
	ItemsPerPage = 20
	MaxBatchSize = 100
)

// Access token lifetime is short; refresh tokens carry the session.
const (
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 7 * 24 * time.Hour
)

const (
	RoleGuestUser  = 0
	RoleCommonUser = 1
	RoleAdminUser  = 10
	RoleRootUser   = 100
)

const (
	UserStatusEnabled  = 1
	UserStatusDisabled = 2
)

// LoadEnv reads .env if present and applies environment overrides.
// Secrets left empty here are generated or rejected at startup depending
// on how sensitive they are.
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		SysError("failed to load .env: " + err.Error())
	}

	if v := os.Getenv("SQLITE_PATH"); v != "" {
		SQLitePath = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		SessionSecret = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		JWTSecret = v
	} else {
		JWTSecret = uuid.New().String()
		SysLog("JWT_SECRET not set, generated an ephemeral secret; tokens will not survive restarts")
	}
	if v := os.Getenv("JWT_REFRESH_SECRET"); v != "" {
		JWTRefreshSecret = v
	} else {
		JWTRefreshSecret = JWTSecret + "-refresh"
	}
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		ServerAddress = v
	}
	if v := os.Getenv("UPLOAD_PATH"); v != "" {
		UploadPath = v
	}
	RedisConnString = os.Getenv("REDIS_CONN_STRING")
	QueueConnString = os.Getenv("RABBITMQ_CONN_STRING")
	if v := os.Getenv("UPLOAD_QUEUE"); v != "" {
		UploadQueue = v
	}
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			FatalLog(fmt.Errorf("invalid PORT %q: %w", v, err))
		}
		*Port = p
	}
}

func PrintHelp() {
	fmt.Println("Uplink " + Version)
	fmt.Println("Usage: uplink [--port <port>] [--log-dir <log dir>]")
	fmt.Println("Configuration is read from the environment (optionally via .env).")
}
