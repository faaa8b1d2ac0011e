package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/folionet/folio/db"
	"github.com/folionet/folio/util"
	"github.com/folionet/folio/web"
)

func main() {

	conf, err := util.ReadConf()
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Println("Configuration: ")
	fmt.Println(util.PrettyPrint(conf))

	dbPath := conf.Conf.DbPath
	if dbPath == "" {
		dbPath = "database.db"
	}

	database, err := db.Open(dbPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer database.Close()

	router := web.Router(conf, database, database)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", conf.Conf.HttpPort),
		Handler: router,
	}

	startServing(srv, conf)
}

func startServing(srv *http.Server, conf *util.AppConfig) {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Printf("Starting federation gateway on %s:%d (domain %s)", conf.Conf.Host, conf.Conf.HttpPort, conf.Domain())

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln(err)
		}
	}()

	<-done
	log.Println("Stopping federation gateway")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer func() { cancel() }()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalln(err)
	}
}
