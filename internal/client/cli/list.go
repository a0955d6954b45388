package cli

import (
	"context"
	"fmt"

	"github.com/dkolesni/timecapsule/internal/client/services"
)

func formatCapsule(v *services.CapsuleView) string {
	state := "locked until " + v.UnlockDate.Local().Format("2006-01-02 15:04")
	if v.Unlocked {
		state = "unlocked"
	}
	return fmt.Sprintf("%s  [%s]  %q (%s)", v.ID, state, v.Title, v.CapsuleType)
}

func (a *App) list(ctx context.Context) {
	views, err := a.store.List(ctx)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	if len(views) == 0 {
		printlnFn("No capsules yet")
		return
	}
	for _, v := range views {
		printlnFn(formatCapsule(v))
	}
}
