package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"emperror.dev/errors"
	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/NYTimes/logrotate"
	"github.com/apex/log"
	"github.com/apex/log/handlers/multi"
	"github.com/google/uuid"
	"github.com/mitchellh/colorstring"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/scrub-sh/scrub/config"
	"github.com/scrub-sh/scrub/internal/shredder"
	"github.com/scrub-sh/scrub/loggers/cli"
	"github.com/scrub-sh/scrub/system"
)

var (
	configPath  = config.DefaultLocation
	debug       = false
	profiler    = ""
	showVersion = false

	shredArgs struct {
		Passes  int
		Pattern string
		Confirm bool
		Exclude []string
	}
)

var root = &cobra.Command{
	Use:   "scrub [path]",
	Short: "Securely overwrite and remove a file or directory tree",
	Long: "scrub destroys file contents with repeated overwrite passes before renaming\n" +
		"the entry to a random name and unlinking it. Directories are processed\n" +
		"depth-first and removed once empty. Destroyed data is not recoverable.",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateArgs,
	Run:     rootCmdRun,
}

func init() {
	root.PersistentFlags().BoolVar(&showVersion, "version", false, "show the version and exit")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultLocation, "set the location for the configuration file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "pass in order to run scrub in debug mode")
	root.PersistentFlags().StringVar(&profiler, "profiler", "", "the profiler to run for this instance")

	root.Flags().IntVarP(&shredArgs.Passes, "passes", "p", 3, "the number of overwrite passes, values below 1 are clamped to 1")
	root.Flags().StringVar(&shredArgs.Pattern, "pattern", "random", "the fill pattern to write, one of zeros, ones or random")
	root.Flags().BoolVarP(&shredArgs.Confirm, "confirm", "c", false, "ask for confirmation before destroying the target")
	root.Flags().StringSliceVar(&shredArgs.Exclude, "exclude", nil, "gitignore style patterns for entries to leave untouched")
}

// Execute calls cobra to handle cli commands.
func Execute() error {
	return root.Execute()
}

// validateArgs rejects malformed invocations before anything destructive can
// happen, so they surface as usage errors with a distinct exit status.
func validateArgs(cmd *cobra.Command, args []string) error {
	if showVersion {
		return nil
	}
	if len(args) == 0 {
		return errors.New("a target path is required")
	}
	if _, err := shredder.ParsePattern(shredArgs.Pattern); err != nil {
		return err
	}
	return nil
}

func rootCmdRun(cmd *cobra.Command, args []string) {
	if showVersion {
		fmt.Println(system.Version)
		return
	}

	switch profiler {
	case "cpu":
		defer profile.Start(profile.CPUProfile).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile).Stop()
	case "heap":
		defer profile.Start(profile.MemProfile, profile.MemProfileHeap).Stop()
	case "block":
		defer profile.Start(profile.BlockProfile).Stop()
	}

	c, err := config.FromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrub: failed to load configuration: %s\n", err)
		os.Exit(2)
	}
	if debug {
		c.Debug = true
	}
	config.Set(c)

	printBanner()
	if err := configureLogging(c.LogDirectory, c.Debug); err != nil {
		panic(err)
	}

	// Flags override whatever the configuration file carries, but only when
	// they were passed explicitly.
	passes := c.Shredder.Passes
	if cmd.Flags().Changed("passes") {
		passes = shredArgs.Passes
	}
	patternName := c.Shredder.Pattern
	if cmd.Flags().Changed("pattern") {
		patternName = shredArgs.Pattern
	}
	pattern, err := shredder.ParsePattern(patternName)
	if err != nil {
		// Validation catches this for the flag; reaching here means the
		// configuration file carried a bad value.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	target := args[0]
	s := shredder.New(shredder.Opts{
		Passes:    passes,
		Pattern:   pattern,
		Confirm:   confirmFunc(),
		Exclude:   append(c.Shredder.Exclude, shredArgs.Exclude...),
		PassPause: time.Duration(c.Shredder.PassPauseMs) * time.Millisecond,
	})

	log.WithFields(log.Fields{
		"run":     uuid.New().String()[:8],
		"target":  target,
		"passes":  s.Passes(),
		"pattern": pattern.String(),
	}).Info("starting secure deletion")

	if err := s.Process(target); err != nil {
		log.WithField("target", target).WithField("error", err).Error("secure deletion failed")
		os.Exit(2)
	}
	log.WithField("target", target).Info("secure deletion complete")
}

// confirmFunc returns the interactive confirmation collaborator consulted by
// the dispatcher, or nil when the run does not require confirmation. An
// interrupt at the prompt counts as a no.
func confirmFunc() shredder.ConfirmFunc {
	if !shredArgs.Confirm {
		return nil
	}
	return func(question string) bool {
		var ok bool
		if err := survey.AskOne(&survey.Confirm{Message: question, Default: false}, &ok); err != nil {
			if err == terminal.InterruptErr {
				return false
			}
			return false
		}
		return ok
	}
}

// Configures the global logger so that it can be called from any location in
// the code without passing around a logger instance. With a log directory
// configured, output is mirrored to a rotating file.
func configureLogging(logDir string, debug bool) error {
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if logDir == "" {
		log.SetHandler(cli.Default)
		return nil
	}

	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return err
	}
	p := filepath.Join(logDir, "scrub.log")
	w, err := logrotate.NewFile(p)
	if err != nil {
		return errors.WithMessage(err, "cmd: failed to open process log file")
	}

	log.SetHandler(multi.New(
		cli.Default,
		cli.New(w.File, false),
	))
	log.WithField("path", p).Debug("writing log files to disk")
	return nil
}

func printBanner() {
	fmt.Printf(colorstring.Color("[red][bold]scrub[reset] v%s :: overwritten data is not recoverable\n\n"), system.Version)
}
