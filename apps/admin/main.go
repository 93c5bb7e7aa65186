package main

import (
	"log"
	"os"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/user"
	logsvc "github.com/trezcool/educore/services/logger"
	"github.com/trezcool/educore/storage/database"
	"github.com/trezcool/educore/storage/database/sqlxrepos"
)

var logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

func main() {
	conf, err := core.NewConfig()
	errAndDie(err)

	// migration output goes through the app logger
	zl, err := logsvc.NewZapLogger(conf)
	errAndDie(err)
	database.SetMigrationLogger(logsvc.NewRollbarLogger(zl, conf))

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		db:     db,
		usrSvc: user.NewService(sqlxrepos.NewUserRepository(db)),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
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
