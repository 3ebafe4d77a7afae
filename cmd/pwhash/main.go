// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdhender/pwhash"
	"github.com/mdhender/pwhash/internal/config"
	"github.com/mdhender/pwhash/internal/secret"
	"github.com/spf13/cobra"
)

var errMismatch = errors.New("password does not match hash")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmdRoot().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries the settings shared by every sub-command.
type app struct {
	cfg     *config.Config
	envFile string
	debug   bool
	quiet   bool
	verbose bool
}

// config loads the configuration on first use so that commands which do not
// hash (version) still run when the environment holds bad settings.
func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return nil, err
	}
	if a.debug {
		log.Printf("config: cost %d: algorithm %q: time target %s: max cost %d\n", cfg.Cost, cfg.Algorithm, cfg.TimeTarget, cfg.MaxCost)
	}
	a.cfg = cfg
	return cfg, nil
}

// newHasher builds a Hasher from the loaded configuration, then applies options.
func (a *app) newHasher(options ...pwhash.Option) (*pwhash.Hasher, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	var logger *log.Logger
	if a.verbose || a.debug {
		logger = log.Default()
	}
	options = append(append(cfg.Options(), pwhash.WithLogger(logger)), options...)
	return pwhash.New(options...)
}

func cmdRoot() *cobra.Command {
	a := &app{envFile: ".env"}
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().StringVar(&a.envFile, "env-file", a.envFile, "load settings from env file")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", true, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "pwhash",
		Short: "bcrypt password hashing utility",
		Long:  `Create and check bcrypt password hashes and find the cost that fits a time budget`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
			logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
			logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
			logFlags := 0
			if logWithShortFileName {
				logFlags |= log.Lshortfile
			}
			if logWithTimestamp {
				logFlags |= log.Ltime
			}
			if logWithDefaultFlags || logFlags == 0 {
				logFlags = log.LstdFlags
			}
			log.SetFlags(logFlags)
			log.SetOutput(cmd.ErrOrStderr())

			a.debug, _ = cmd.Flags().GetBool("debug")
			a.quiet, _ = cmd.Flags().GetBool("quiet")
			a.verbose, _ = cmd.Flags().GetBool("verbose")
			if a.quiet {
				a.verbose = false
			}

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				fmt.Fprintf(cmd.ErrOrStderr(), "pwhash: version %q\n", pwhash.Version().Core())
			}

			return nil
		},
	}
	cmd.AddCommand(cmdHash(a))
	cmd.AddCommand(cmdCheck(a))
	cmd.AddCommand(cmdCost(a))
	cmd.AddCommand(cmdInfo(a))
	cmd.AddCommand(cmdVersion())
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdHash(a *app) *cobra.Command {
	var algorithmName string
	var cost int
	var passwordFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVarP(&algorithmName, "algorithm", "a", algorithmName, "hash algorithm (default, bcrypt)")
		cmd.Flags().IntVarP(&cost, "cost", "c", cost, "bcrypt cost (4-31)")
		cmd.Flags().StringVarP(&passwordFile, "password-file", "p", passwordFile, "read password from file (- for stdin)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "hash",
		Short:        "hash a password read from a file or stdin",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.newHasher()
			if err != nil {
				return err
			}

			algorithm := h.Algorithm()
			if cmd.Flags().Changed("algorithm") {
				if algorithm, err = pwhash.ParseAlgorithm(algorithmName); err != nil {
					return err
				}
			}
			workFactor := h.DefaultWorkFactor()
			if cmd.Flags().Changed("cost") {
				workFactor = cost
				if a.verbose && (cost < pwhash.MinCost || cost > pwhash.MaxCost) {
					log.Printf("hash: cost %d is outside %d-%d: using %d\n", cost, pwhash.MinCost, pwhash.MaxCost, pwhash.DefaultCost)
				}
			}

			password, err := secret.NewReader(cmd.InOrStdin()).Read(passwordFile)
			if err != nil {
				return err
			}

			started := time.Now()
			hash, err := h.Hash(password, algorithm, workFactor)
			if err != nil {
				return err
			}
			if a.verbose {
				log.Printf("hash: %s: created in %v\n", algorithm, time.Since(started))
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)

			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdCheck(a *app) *cobra.Command {
	var hash string
	var hashFile string
	var passwordFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&hash, "hash", hash, "hash to check against")
		cmd.Flags().StringVar(&hashFile, "hash-file", hashFile, "read hash from file")
		cmd.Flags().StringVarP(&passwordFile, "password-file", "p", passwordFile, "read password from file (- for stdin)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "check",
		Short:        "check a password against a hash",
		Long:         `Check a password against a hash. Exits with status 1 when the password does not match.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if hash == "" && hashFile == "" {
				return fmt.Errorf("one of --hash or --hash-file is required")
			} else if hash != "" && hashFile != "" {
				return fmt.Errorf("--hash and --hash-file are mutually exclusive")
			}
			isStdin := func(path string) bool { return path == "" || path == secret.StdinPath }
			if hashFile != "" && isStdin(hashFile) && isStdin(passwordFile) {
				return fmt.Errorf("hash and password cannot both be read from stdin")
			}

			h, err := a.newHasher()
			if err != nil {
				return err
			}

			rd := secret.NewReader(cmd.InOrStdin())
			if hashFile != "" {
				if hash, err = rd.Read(hashFile); err != nil {
					return err
				}
			}
			password, err := rd.Read(passwordFile)
			if err != nil {
				return err
			}

			if !h.Check(password, hash) {
				if !a.quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "mismatch")
				}
				return errMismatch
			}
			if !a.quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
			}
			if a.verbose && h.NeedsRehash(hash) {
				log.Printf("check: hash should be rehashed at cost %d\n", h.DefaultWorkFactor())
			}

			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdCost(a *app) *cobra.Command {
	var target time.Duration
	var startCost int
	var maxCost int
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().DurationVarP(&target, "target", "t", target, "target time for one hash (default from config, 200ms)")
		cmd.Flags().IntVarP(&startCost, "start", "s", startCost, "cost to start searching from (default from config, 9)")
		cmd.Flags().IntVar(&maxCost, "max", maxCost, "highest cost to probe (default from config, 31)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "cost",
		Short:        "find the bcrypt cost that meets a target hashing time",
		Long:         `Benchmark bcrypt on this machine and report the first cost whose hash time meets the target. Run this offline; it blocks for the duration of each probe.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var options []pwhash.Option
			if cmd.Flags().Changed("max") {
				options = append(options, pwhash.WithMaxCost(maxCost))
			}
			h, err := a.newHasher(options...)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("target") {
				target = a.cfg.TimeTargetValue()
			}
			if !cmd.Flags().Changed("start") {
				startCost = h.DefaultWorkFactor()
			}

			started := time.Now()
			cost, err := h.AppropriateCost(cmd.Context(), target, startCost)
			if err != nil {
				return err
			}
			if a.verbose {
				log.Printf("cost: target %v: found %d in %v\n", target, cost, time.Since(started))
			}
			fmt.Fprintln(cmd.OutOrStdout(), cost)

			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdInfo(a *app) *cobra.Command {
	var hash string
	var hashFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&hash, "hash", hash, "hash to inspect")
		cmd.Flags().StringVar(&hashFile, "hash-file", hashFile, "read hash from file (- for stdin)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "info",
		Short:        "show the cost embedded in a hash",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.newHasher()
			if err != nil {
				return err
			}
			if hash == "" {
				if hash, err = secret.NewReader(cmd.InOrStdin()).Read(hashFile); err != nil {
					return err
				}
			}
			cost, err := h.Cost(hash)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "cost:         %d\n", cost)
			fmt.Fprintf(w, "needs-rehash: %v\n", h.NeedsRehash(hash))
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Fprintln(cmd.OutOrStdout(), pwhash.Version().String())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), pwhash.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
