package main

import (
	"context"
	"time"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/user"
)

// addAdmin updates or creates a platform admin user.
func (cli *commandLine) addAdmin(uname, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Username:  uname,
			Email:     email,
			IsAdmin:   true,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	upd := user.User{
		ID:        usr.ID,
		Username:  uname,
		Email:     email,
		UpdatedAt: now,
	}
	if err := upd.SetPassword(pwd); err != nil {
		return err
	}
	isTrue := true
	_, err = cli.usrRepo.UpdateUser(ctx, upd, &isTrue /* isActive */, &isTrue /* isAdmin */)
	return err
}

// resetPassword sets a new password for an existing user.
func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		return err
	}

	upd := user.User{ID: usr.ID, UpdatedAt: time.Now().UTC()}
	if err := upd.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrRepo.UpdateUser(ctx, upd, nil, nil)
	return err
}
