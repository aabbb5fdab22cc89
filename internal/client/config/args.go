package config

import (
	"flag"
	"strings"
)

// filterArgs keeps only the listed flags and their values so that each
// parser sees just the flags it defines. Both "-f value" and "-f=value"
// forms are recognised.
func filterArgs(args []string, keep ...string) []string {
	allowed := make(map[string]struct{}, len(keep))
	for _, f := range keep {
		allowed[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, known := allowed[name]; known {
				out = append(out, arg)
			}
			continue
		}

		if _, known := allowed[arg]; !known {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// configPath returns the file named by -c or -config, or "".
func configPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(filterArgs(args, "-c", "-config"))

	return path
}
