package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog_backend/internal/handlers"
	"blog_backend/internal/logger"
	"blog_backend/internal/repository"
	"blog_backend/internal/repository/db"
	"blog_backend/internal/server"
	"blog_backend/internal/service"
	"blog_backend/internal/storage"

	_ "blog_backend/docs"

	"github.com/spf13/viper"
)

const (
	defaultPort       = "8000"
	defaultDBPath     = "blog.db"
	defaultUploadsDir = "uploads"
)

// @title        Blog Backend API
// @version      1.0
// @description  Registration/login with JWT and post CRUD with image upload.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml + environment
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// The signing secret must be present before anything is served; a missing
	// secret would otherwise only surface on the first login.
	secret := viper.GetString("jwt.secret")
	if secret == "" {
		log.Fatalw("JWT_SECRET_KEY is not set")
	}

	// open DB
	store, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// image blob store on local disk
	blobs, err := openBlobStore()
	if err != nil {
		log.Fatalw("failed to init image store", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(store)
	services := service.NewService(repos, blobs, []byte(secret))
	apiHandler := handlers.NewHandler(services, log, handlers.Config{
		AllowedOrigin: viper.GetString("cors.origin"),
		UploadsDir:    blobs.Dir(),
	})

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	// The secret comes from the environment only, never the config file.
	if err := viper.BindEnv("jwt.secret", "JWT_SECRET_KEY"); err != nil {
		return err
	}

	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", defaultDBPath)
		dbPath = defaultDBPath
	}
	return db.InitDB(dbPath)
}

// openBlobStore initializes the local image store using configuration.
func openBlobStore() (*storage.DiskStore, error) {
	dir := viper.GetString("storage.dir")
	if dir == "" {
		dir = defaultUploadsDir
	}
	baseURL := viper.GetString("storage.base_url")
	if baseURL == "" {
		port := viper.GetString("port")
		if port == "" {
			port = defaultPort
		}
		baseURL = "http://localhost:" + port + "/uploads"
	}
	return storage.NewDiskStore(dir, baseURL)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = defaultPort
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
