package main

import (
	"context"
	"fmt"

	"github.com/trezcool/college/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	err := cli.usrSvc.ResetPassword(context.Background(), user.ResetUserPassword{
		Username: uname,
		Password: pwd,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "password of %q updated\n", uname)
	return nil
}
