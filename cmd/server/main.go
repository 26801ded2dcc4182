package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ukai02/iitk-transport/config"
	"github.com/ukai02/iitk-transport/internal/database"
	"github.com/ukai02/iitk-transport/internal/router"
	"github.com/ukai02/iitk-transport/pkg/media"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables")
	}
	cfg := config.Load()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db, &cfg.Admin)

	photos, err := newPhotoStore(cfg)
	if err != nil {
		log.Fatalf("photo store: %v", err)
	}

	engine := router.Setup(cfg, db, photos)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}

func newPhotoStore(cfg *config.Config) (media.PhotoStore, error) {
	if cfg.Cloudinary.CloudName != "" {
		log.Println("[media] using Cloudinary photo storage")
		return media.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	}
	log.Printf("[media] using local photo storage at %s", cfg.Server.UploadDir)
	return media.NewDiskStore(cfg.Server.UploadDir)
}
