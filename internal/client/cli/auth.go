package cli

import (
	"context"
	"os"
)

func (a *App) register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	name, err := GetSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	if err := a.session.SignUp(ctx, email, password, name); err != nil {
		printlnFn(err.Error())
		return
	}

	a.email = email
	printlnFn("Success!")
}

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	if err := a.session.SignIn(ctx, email, password); err != nil {
		printlnFn(err.Error())
		return
	}

	a.email = email
	printlnFn("Success!")
}

func (a *App) logout(ctx context.Context) {
	a.session.SignOut()
	a.email = ""
	printlnFn("Logged out")
}
