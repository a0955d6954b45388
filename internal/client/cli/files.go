package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) files(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: files <capsule-id>")
		return
	}

	views, err := a.store.ListFiles(ctx, args[0])
	if err != nil {
		printlnFn(err.Error())
		return
	}

	if len(views) == 0 {
		printlnFn("No attachments")
		return
	}
	for _, f := range views {
		printlnFn(fmt.Sprintf("%s  %q (%s)", f.ID, f.Name, f.MIMEType))
	}
}

func (a *App) get(ctx context.Context, args []string) {
	if len(args) < 2 {
		printlnFn("Usage: get <capsule-id> <file-id>")
		return
	}

	f, err := a.store.DownloadFile(ctx, args[0], args[1])
	if err != nil {
		printlnFn(err.Error())
		return
	}

	if err := os.WriteFile(f.Name, f.Data, 0600); err != nil {
		printlnFn(err.Error())
		return
	}
	printlnFn("Saved", f.Name)
}
