package main

import (
	"fmt"
	"log"
	"os"

	"aim-achiever/internal/api"
	"aim-achiever/internal/config"
	"aim-achiever/internal/db"
	"aim-achiever/internal/mail"
	redisdb "aim-achiever/internal/redis"
	"aim-achiever/internal/reminder"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)

	if cfg.Reminder.Enabled {
		log.Printf("[Main] Starting deadline reminder worker (%s)", cfg.Reminder.Schedule)
		worker := reminder.NewWorker(db.DB, mail.NewMailer(cfg.SMTP))
		if err := worker.Start(cfg.Reminder.Schedule); err != nil {
			log.Printf("[Main] WARNING: reminder worker failed to start: %v", err)
		} else {
			defer worker.Stop()
		}
	}

	r := api.SetupRouter(cfg, rdb)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("[Main] Listening on %s%s", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
