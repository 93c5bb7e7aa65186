package main

import (
	"context"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	if len(pwd) < 6 {
		return errShortPassword
	}
	return cli.usrSvc.ResetPassword(context.Background(), email, pwd)
}
