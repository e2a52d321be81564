package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/XJIeI5/keypad/internal/config"
	"github.com/XJIeI5/keypad/internal/storage"
)

func main() {
	log.SetPrefix("keypad-server: ")
	cfg, err := config.FromFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("sqlite3", cfg.DB)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.PingContext(context.TODO()); err != nil {
		log.Fatal(err)
	}
	if err := storage.CreateTables(context.TODO(), db); err != nil {
		log.Fatal(err)
	}

	srv, flush := storage.GetServer(cfg, db, reg)
	go func() {
		log.Printf("run session server at %s:%d", cfg.Host, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	var stopChan = make(chan os.Signal, 2)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-stopChan // wait for SIGINT
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Print(err)
	}
	flush()
	log.Println("stop session server")
}
