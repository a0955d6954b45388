package main

import (
	"context"

	"github.com/dkolesni/timecapsule/internal/client/cli"
	"github.com/dkolesni/timecapsule/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app := cli.NewApp(cfg)
	app.Run(ctx)
}
