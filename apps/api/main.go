package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	echoapi "github.com/trezcool/kazi/apps/api/echo"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
	"github.com/trezcool/kazi/core/submission"
	logsvc "github.com/trezcool/kazi/services/logger"
	mongodb "github.com/trezcool/kazi/storage/database/mongo"
	objstore "github.com/trezcool/kazi/storage/object"
)

func main() {
	conf := core.NewConfig()
	core.InitValidators()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)

	ctx := context.Background()

	// set up DB & repos
	db, err := mongodb.Open(ctx, conf.Mongo)
	errAndDie(std, err)
	defer func() { errAndDie(std, mongodb.Close(ctx, db)) }()
	errAndDie(std, mongodb.EnsureIndexes(ctx, db))

	acctRepo := mongodb.NewAccountRepository(db)
	schoolRepo := mongodb.NewSchoolRepository(db)
	subRepo := mongodb.NewSubmissionRepository(db)

	// set up file storage
	storage, err := objstore.NewMinioStorage(ctx, conf.Minio)
	errAndDie(std, err)

	// set up services
	schoolSvc := school.NewService(schoolRepo, subRepo)
	acctSvc := account.NewService(acctRepo, schoolRepo)
	subSvc := submission.NewService(subRepo, schoolRepo, storage, logger)

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	app := echoapi.NewServer(
		shutdown,
		&echoapi.Options{
			Addr:          conf.Server.Addr(),
			Conf:          conf,
			Logger:        logger,
			AccountSvc:    acctSvc,
			SchoolSvc:     schoolSvc,
			SubmissionSvc: subSvc,
		},
	)

	go func() {
		if err := app.Start(); err != nil {
			std.Println(err)
			shutdown <- syscall.SIGTERM
		}
	}()
	logger.Info("server started", map[string]interface{}{"addr": conf.Server.Addr(), "env": conf.Env})

	<-shutdown
	logger.Info("shutting down...")

	stopCtx, cancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		std.Printf("server shutdown: %v", err)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
