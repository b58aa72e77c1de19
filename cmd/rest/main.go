package main

import (
	"context"
	"log"

	"vytalcare-rag-be/internal/bootstrap"
	"vytalcare-rag-be/internal/config"
	"vytalcare-rag-be/internal/server"
	"vytalcare-rag-be/internal/tracer"
	"vytalcare-rag-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load Configuration
	cfg := config.Load()

	// 3. Initialize Database. The chat path must stay up without a
	// vector index, so a failed connection degrades instead of exiting.
	var gormDB *gorm.DB
	if cfg.Database.Connection == "" {
		log.Println("No database configured, starting without a vector index")
	} else {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Printf("Unable to connect to GORM DB, starting without a vector index: %v", err)
		} else {
			gormDB = db
		}
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
