package main

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sqlx.DB
	conf       *core.Config
	usrSvc     *user.Service
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  seed - create the default admin account if missing")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME -role admin|teacher|student - create an account")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME - reset user's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The new account's username. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", string(user.RoleStudent), "One of admin, teacher or student.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUname, *addUserRole, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	return string(pwd), err
}

// describe renders err for a terminal, spelling out field errors.
func (cli *commandLine) describe(err error) string {
	var fields []string
	var verrs validator.ValidationErrors
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+": "+fe.Translate(cli.translator))
		}
	case errors.As(err, &verr) && len(verr.Fields) > 0:
		for _, fe := range verr.Fields {
			fields = append(fields, fe.Field+": "+fe.Error)
		}
	default:
		return err.Error()
	}
	sort.Strings(fields)
	return strings.Join(fields, "; ")
}
