// Package cli implements the interactive capsule client: a small REPL
// that signs the user in, composes and reads capsules, and prints
// reflections. All encryption happens below it, in the client services.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dkolesni/timecapsule/internal/client/api"
	"github.com/dkolesni/timecapsule/internal/client/config"
	"github.com/dkolesni/timecapsule/internal/client/services"
	"github.com/dkolesni/timecapsule/internal/client/session"
	"github.com/dkolesni/timecapsule/internal/logging"
)

type App struct {
	config      *config.Config
	session     *session.Manager
	store       *services.CapsuleStore
	reflections *services.ReflectionService
	email       string
	reader      *bufio.Reader
}

func NewApp(c *config.Config) *App {
	logger := logging.NewClientLogger()

	apiClient := api.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	sess := session.NewManager(apiClient)
	store := services.NewCapsuleStore(apiClient, sess, logger)

	return &App{
		config:      c,
		session:     sess,
		store:       store,
		reflections: services.NewReflectionService(store),
		reader:      bufio.NewReader(os.Stdin),
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Active()
}
