package config

import (
	"flag"
	"os"
	"time"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the capsule server
//	-t int      request timeout in seconds
//	-c string   path to a JSON config file (consumed by parseJson)
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the capsule server")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	fs.String("c", "", "path to JSON config file")
	fs.String("config", "", "path to JSON config file")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
