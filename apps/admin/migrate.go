package main

import (
	"github.com/pressly/goose/v3"

	appfs "github.com/cartolearn/backend/fs"
)

var gooseRunFunc = goose.Run // mockable

// migrate delegates to goose on the embedded migrations.
func (cli *commandLine) migrate(args []string) error {
	goose.SetBaseFS(appfs.FS)

	var arguments []string
	if len(args) > 1 {
		arguments = args[1:]
	}
	return gooseRunFunc(args[0], cli.db.DB, "migrations", arguments...)
}
