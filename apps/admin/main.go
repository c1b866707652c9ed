package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
	mongodb "github.com/trezcool/kazi/storage/database/mongo"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	core.InitValidators()

	ctx := context.Background()

	// set up DB
	db, err := mongodb.Open(ctx, conf.Mongo)
	errAndDie(err)
	defer func() { errAndDie(mongodb.Close(ctx, db)) }()
	errAndDie(mongodb.EnsureIndexes(ctx, db))

	schoolRepo := mongodb.NewSchoolRepository(db)
	acctSvc := account.NewService(mongodb.NewAccountRepository(db), schoolRepo)
	schoolSvc := school.NewService(schoolRepo, mongodb.NewSubmissionRepository(db))

	// start CLI
	cli := commandLine{
		acctSvc:   acctSvc,
		schoolSvc: schoolSvc,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
