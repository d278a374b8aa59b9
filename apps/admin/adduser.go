package main

import (
	"context"
	"fmt"

	"github.com/trezcool/college/core/user"
)

// seed creates the default admin account unless it already exists.
func (cli *commandLine) seed() error {
	usr, created, err := cli.usrSvc.SeedAdmin(context.Background(), cli.conf.Auth.SeedAdminPassword)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cli.out, "admin account %q created\n", usr.Username)
	} else {
		fmt.Fprintf(cli.out, "admin account %q already exists\n", usr.Username)
	}
	return nil
}

func (cli *commandLine) addUser(uname, role, pwd string) error {
	usr, err := cli.usrSvc.Register(context.Background(), user.NewUser{
		Username: uname,
		Password: pwd,
		Role:     user.Role(role),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s account %q created (id %d)\n", usr.Role, usr.Username, usr.ID)
	return nil
}
