package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/auth"
	"github.com/trezcool/educore/core/user"
)

var errShortPassword = errors.New("password must be at least 6 characters")

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(name, email, role, pwd string) error {
	r, err := auth.ParseRole(core.CleanString(role, true /* lower */))
	if err != nil {
		return err
	}
	if len(pwd) < 6 {
		return errShortPassword
	}

	usr := user.User{
		Name:     core.CleanString(name),
		Email:    core.CleanString(email, true /* lower */),
		Role:     r,
		IsActive: true,
	}
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err = cli.usrSvc.Save(context.Background(), usr)
	return err
}
