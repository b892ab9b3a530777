package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// loadConfig sets every flag named in the TOML file at path that was not
// given on the command line. Arrays set repeatable flags once per element.
//
//	kind = "big"
//	prec = 256
//	at = [1, 2, 3]
//	func = ["sq=t*t"]
func loadConfig(fs *pflag.FlagSet, path string) error {
	var file map[string]any
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	for name, v := range file {
		f := fs.Lookup(name)
		if f == nil || name == "config" {
			return fmt.Errorf("config %s: unknown option %q", path, name)
		}
		if f.Changed {
			logrus.Debugf("config %s: %s overridden by command line", path, name)
			continue
		}
		vals, ok := v.([]any)
		if !ok {
			vals = []any{v}
		}
		for _, x := range vals {
			if err := fs.Set(name, fmt.Sprint(x)); err != nil {
				return fmt.Errorf("config %s: %s: %w", path, name, err)
			}
		}
	}
	return nil
}
