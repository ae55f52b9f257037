package peaksweep

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlag ties the named flag to a viper key so flags override the config file.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	_ = viper.BindPFlag(key, flags.Lookup(name))
}
