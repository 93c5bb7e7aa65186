package main

import (
	"github.com/trezcool/educore/storage/database"
)

var runMigrationsFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	return runMigrationsFunc(cli.db.DB, cli.db.DriverName(), args[0], args[1:]...)
}
