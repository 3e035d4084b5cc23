package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/holdem-client/internal"
	"github.com/rocketscienceinc/holdem-client/internal/config"
)

// main - is the entry point of the application. It builds the command tree and runs it.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "holdem",
		Short:         "Texas Hold'em console client",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(configPath)
			return report(app.RunApp(initLogger(conf), conf, os.Stdin, os.Stdout))
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "./config.yml", "path to the config file")

	root.AddCommand(
		newLoginCommand(&configPath),
		newRegisterCommand(&configPath),
		newLogoutCommand(&configPath),
		newSandboxCommand(&configPath),
	)

	return root
}

func newLoginCommand(configPath *string) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(*configPath)
			if err := app.Login(cmd.Context(), initLogger(conf), conf, username, password); err != nil {
				return report(err)
			}

			pterm.Success.Printfln("logged in as %s", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCommand(configPath *string) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(*configPath)
			if err := app.Register(cmd.Context(), initLogger(conf), conf, username, email, password); err != nil {
				return report(err)
			}

			pterm.Success.Printfln("registered %s", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(*configPath)
			return report(app.Logout(cmd.Context(), initLogger(conf), conf))
		},
	}
}

func newSandboxCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sandbox",
		Short: "Serve a local table server for offline play",
		RunE: func(_ *cobra.Command, _ []string) error {
			conf := initConfig(*configPath)
			return report(app.RunSandbox(initLogger(conf), conf))
		},
	}
}

func report(err error) error {
	if err != nil {
		pterm.Error.Println(err.Error())
	}

	return err
}

// initialize config.
func initConfig(path string) *config.Config {
	return config.MustLoad(path)
}

// initialize logger. Logs go to stderr so they stay out of the console.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
