package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cartolearn/backend/apps/api/echo"
	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/entitlement"
	"github.com/cartolearn/backend/core/org"
	"github.com/cartolearn/backend/core/progress"
	"github.com/cartolearn/backend/core/user"
	"github.com/cartolearn/backend/services/email"
	"github.com/cartolearn/backend/services/logger"
	"github.com/cartolearn/backend/storage/database"
	"github.com/cartolearn/backend/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var appLogger core.Logger
	if core.Conf.Debug {
		appLogger = logsvc.NewStdLogger(std)
	} else {
		appLogger = logsvc.NewRollbarLogger(std)
	}

	// set up DB
	db, err := database.Open(core.Conf)
	if err != nil {
		appLogger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	orgSvc := org.NewService(sqlxrepos.NewOrgRepository(db))
	catSvc := catalog.NewService(sqlxrepos.NewCatalogRepository(db))

	entRepo := sqlxrepos.NewEntitlementRepository(db)
	editor := entitlement.NewEditor(entRepo, orgSvc, catSvc)
	resolver := entitlement.NewResolver(entRepo, orgSvc, catSvc)

	cmpRepo := sqlxrepos.NewCompletionRepository(db)
	tracker := progress.NewTracker(cmpRepo, usrSvc)
	aggregator := progress.NewAggregator(resolver, catSvc, cmpRepo, usrSvc)

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Address:    core.Conf.Server.Address(),
			Logger:     appLogger,
			Shutdown:   shutdown,
			UserSvc:    usrSvc,
			OrgSvc:     orgSvc,
			CatalogSvc: catSvc,
			Editor:     editor,
			Resolver:   resolver,
			Tracker:    tracker,
			Aggregator: aggregator,
		},
	)
	go app.Start()

	// block until a shutdown signal comes in, then drain in-flight requests
	<-shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		appLogger.Fatal("stopping server", err)
	}
}
