package main

import (
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/services/logger"
	"github.com/trezcool/college/storage/database"
	"github.com/trezcool/college/storage/database/sqlxrepos"
)

func main() {
	conf := core.NewConfig()
	conf.Debug = true // human readable output
	zl := logsvc.NewZerolog(conf, os.Stderr)
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(false)

	// set up DB
	db, err := database.OpenWithFallback(conf, logger)
	if err != nil {
		zl.Fatal().Err(err).Msg("opening database")
	}
	defer db.Close()
	database.SetMigrationLogging(true)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:         db,
		conf:       conf,
		usrSvc:     user.NewService(sqlxrepos.NewUserRepository(db), validate, conf),
		translator: translator,
		out:        os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			zl.Error().Msg(cli.describe(err))
		}
		os.Exit(1)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
