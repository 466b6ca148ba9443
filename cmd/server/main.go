package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"mineconect/internal/auth"
	"mineconect/internal/config"
	"mineconect/internal/database"
	"mineconect/internal/email"
	"mineconect/internal/logging"
	"mineconect/internal/redisx"
	"mineconect/internal/server"
)

const (
	logMaxSizeBytes = 10 << 20
	logMaxBackups   = 3
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.LogFile != "" {
		fileWriter, err := logging.NewRotatingFileWriter(cfg.LogFile, logMaxSizeBytes, logMaxBackups)
		if err != nil {
			log.Fatalf("log setup error: %v", err)
		}
		defer fileWriter.Close()
		logOutput = io.MultiWriter(os.Stdout, fileWriter)
	}
	log.SetOutput(logOutput)
	log.SetFlags(log.LstdFlags | log.LUTC | log.Lshortfile)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer db.Close()

	redisClient, err := redisx.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis error: %v", err)
	}
	defer redisClient.Close()

	users := auth.NewUserRepository(db)
	sessions := &auth.SessionStore{Redis: redisClient}
	mailer := email.NewSender(cfg.Email)
	tokens := auth.NewTokenSigner(cfg.SecretKey)
	hasher := auth.NewBcryptHasher()

	api := server.NewServer(cfg, users, sessions, mailer, tokens, hasher)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Router(),
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	log.Printf("Listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
