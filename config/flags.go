package config

import (
	"flag"

	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"
)

// Flags is the command line layer of the configuration.
type Flags struct {
	set *pflag.FlagSet
}

// NewFlags registers the configuration flags on a new flag set.
func NewFlags() *Flags {
	fs := pflag.NewFlagSet("shopcheck", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.String("browser", "chrome", "browser to run the tests in: chrome or firefox")
	fs.Bool("headless", false, "run the browser without a window")
	fs.String("base-url", "", "storefront URL, \""+DemoBaseURL+"\" starts the built in demo store")
	fs.String("engine", "playwright", "automation engine: playwright or rod")
	fs.String("config", DefaultFile, "path of the JSON config `file`")
	fs.String("reports", "", "`directory` for logs, screenshots and reports")
	return &Flags{set: fs}
}

// FlagSet returns the flags for use with cobra.
func (f *Flags) FlagSet() *pflag.FlagSet {
	return f.set
}

// Parse parses command line arguments.
func (f *Flags) Parse(args []string) error {
	return f.set.Parse(args)
}

// Register adds the flags to a standard library flag set. Flags set through it
// take effect like flags parsed by Parse. go test only accepts flags of
// flag.CommandLine, so test binaries register there.
func (f *Flags) Register(goFS *flag.FlagSet) {
	f.set.VisitAll(func(pf *pflag.Flag) {
		if goFS.Lookup(pf.Name) != nil {
			return
		}
		goFS.Var(goFlag{set: f.set, flag: pf}, pf.Name, pf.Usage)
	})
}

// ConfigFile returns the config file path.
func (f *Flags) ConfigFile() string {
	return getNullString(f.set, "config").String
}

// Config returns the flags given on the command line as a config layer.
func (f *Flags) Config() Config {
	return Config{
		Browser:    getNullString(f.set, "browser"),
		Engine:     getNullString(f.set, "engine"),
		Headless:   getNullBool(f.set, "headless"),
		BaseURL:    getNullString(f.set, "base-url"),
		ReportsDir: getNullString(f.set, "reports"),
	}
}

func getNullBool(flags *pflag.FlagSet, key string) null.Bool {
	v, err := flags.GetBool(key)
	if err != nil {
		panic(err)
	}
	return null.NewBool(v, flags.Changed(key))
}

func getNullString(flags *pflag.FlagSet, key string) null.String {
	v, err := flags.GetString(key)
	if err != nil {
		panic(err)
	}
	return null.NewString(v, flags.Changed(key))
}

// goFlag exposes a pflag flag as a flag.Value. Setting it goes through the
// pflag set, so it is marked as changed.
type goFlag struct {
	set  *pflag.FlagSet
	flag *pflag.Flag
}

func (g goFlag) String() string {
	if g.flag == nil {
		return ""
	}
	return g.flag.Value.String()
}

func (g goFlag) Set(v string) error {
	return g.set.Set(g.flag.Name, v)
}

func (g goFlag) IsBoolFlag() bool {
	return g.flag.Value.Type() == "bool"
}
