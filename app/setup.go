package app

import (
	"fmt"
	"log"
	"os"

	"github.com/codeforchange/community-api/api"
	"github.com/codeforchange/community-api/config"
	"github.com/codeforchange/community-api/database"
	"github.com/codeforchange/community-api/router"
	"github.com/codeforchange/community-api/services/cron"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Create the database when it does not exist yet, then connect
	if err := database.EnsureDatabase(); err != nil {
		log.Println("Check whether Postgres is running and reachable")
		return err
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Println("Check whether Postgres is running and reachable")
		return err
	}

	if err := store.Init(); err != nil {
		log.Println("Error running migrations")
		return err
	}

	// Background jobs, unless disabled via environment variable
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" {
		db, ok := store.GetDB().(*gorm.DB)
		if !ok {
			log.Println("Warning: Failed to get database connection for cron jobs")
		} else {
			cronManager = cron.NewCronManager(db, getEnv.AUTO_CLOSE_PROGRAMS)
			if err := cronManager.Start(); err != nil {
				// The API can run without background jobs
				log.Println("Warning: Failed to start cron jobs:", err)
			}
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is attached inside)
	router.SetupRoutes(app, store)

	return server.Run()
}
