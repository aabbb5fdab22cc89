package config

import (
	"flag"
	"io"
	"time"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base address of the tab service
//	-s string   session store path (SQLite file or Badger directory)
//	-d string   session store driver: sqlite, badger or memory
//	-t int      request timeout in seconds
func parseFlags(cfg *Config, args []string) {
	filtered := filterArgs(args, "-a", "-s", "-d", "-t")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "base address of the tab service")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "session store path")
	fs.StringVar(&cfg.StoreDriver, "d", cfg.StoreDriver, "session store driver (sqlite, badger, memory)")
	timeout := fs.Int("t", int(cfg.RequestTimeout/time.Second), "request timeout (in seconds)")

	if err := fs.Parse(filtered); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
