package cli

import (
	"context"
	"os"
)

func (a *App) show(ctx context.Context, args []string) {
	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		id, err = GetSimpleText(a.reader, "Enter capsule id", os.Stdout)
		if err != nil {
			printlnFn(err.Error())
			return
		}
	}

	v, err := a.store.GetByID(ctx, id)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	printlnFn(formatCapsule(v))
	printlnFn("")
	printlnFn(v.Content)
}
