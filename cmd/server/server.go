package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/mazekeys/game"
	"github.com/zucenko/mazekeys/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	levelsPath := flag.String("levels", "", "level file or directory (.yaml, .yml, .txt)")
	logPath := flag.String("log", "", "rotating log file, stderr only when empty")
	logLevel := flag.String("log-level", "info", "logrus level")
	flag.Parse()

	if err := server.InitLogging(*logPath, *logLevel); err != nil {
		log.Fatalf("logging: %v", err)
	}

	levels := server.NewLevelCatalog()
	if *levelsPath != "" {
		if err := levels.LoadPath(*levelsPath); err != nil {
			log.Fatalf("levels: %v", err)
		}
	}

	cfg := game.LoadConfig()
	s := Server{
		GameServer: server.NewGameServer(levels, cfg),
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go s.GameServer.Loop(ctx)
	s.routes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("Defaulting to port %s", port)
	}
	srv := &http.Server{Addr: ":" + port, Handler: s.router}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Warnf("shutdown: %v", err)
		}
	}()

	log.WithFields(log.Fields{"port": port, "levels": levels.Names(), "tick": cfg.TickRate}).Info("serving")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalln(err)
	}
}
