package main

import (
	"context"
	"log"

	"lexi-legal-be/internal/bootstrap"
	"lexi-legal-be/internal/config"
	"lexi-legal-be/internal/model"
	"lexi-legal-be/internal/server"
	"lexi-legal-be/internal/tracer"
	"lexi-legal-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.ChatThread{},
		&model.ChatMessage{},
		&model.KnowledgeDocument{},
	); err != nil {
		log.Panicf("Migration failed: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting ingest consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background consumer error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
