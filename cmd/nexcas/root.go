// Copyright 2025 by Harald Albrecht
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/thediveo/nexcas"
	"github.com/thediveo/nexcas/config"
	"github.com/thediveo/nexcas/nexus"
	"golang.org/x/exp/slices"
	"golang.org/x/time/rate"
)

const (
	urlFlag            = "url"
	userFlag           = "user"
	passwordFlag       = "password"
	dryRunFlag         = "dry-run"
	strictFlag         = "strict"
	requireVersionFlag = "require-version"
	rateFlag           = "rate"
	debugFlag          = "debug"
)

// Environment variables used when the corresponding flags haven't been
// specified.
const (
	urlEnv      = "NEXUS_URL"
	userEnv     = "NEXUS_USER"
	passwordEnv = "NEXUS_PASSWORD"
)

func buildInfo(info *debug.BuildInfo, key string) string {
	idx := slices.IndexFunc(info.Settings,
		func(setting debug.BuildSetting) bool {
			return setting.Key == key
		})
	if idx < 0 {
		return ""
	}
	return info.Settings[idx].Value
}

// flagOrEnv returns the value of the specified flag if it has been set
// explicitly, otherwise the value of the environment variable if set, and
// finally the flag's default.
func flagOrEnv(cmd *cobra.Command, flag string, env string) string {
	value, _ := cmd.Flags().GetString(flag)
	if cmd.Flags().Changed(flag) {
		return value
	}
	if envvalue, ok := os.LookupEnv(env); ok {
		return envvalue
	}
	return value
}

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "nexcas [flags] [config-file]",
		Short: "nexcas applies configuration as code to Nexus Repository Manager",
		Long: "nexcas applies configuration as code to Nexus Repository Manager.\n\n" +
			"The configuration file defaults to the file named in $" + config.EnvConfig + ".",
		Version: "(unknown)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbg, _ := cmd.Flags().GetBool(debugFlag); dbg {
				log.SetLevel(log.DebugLevel)
			}
			log.Info("🗩  nexcas ... Nexus configuration as code")
			log.Info(fmt.Sprintf("   %s", rootCmd.Version))
			log.Info("⚖  Apache 2.0 License")

			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			path, err := config.Locate(path)
			if err != nil {
				return err
			}
			var loadOpts []config.LoadOption
			if strict, _ := cmd.Flags().GetBool(strictFlag); strict {
				loadOpts = append(loadOpts, config.Strict())
			}
			cfg, err := config.Load(path, loadOpts...)
			if err != nil {
				return err
			}

			if dryRun, _ := cmd.Flags().GetBool(dryRunFlag); dryRun {
				log.Info("🧪 dry run, not applying configuration")
				return cfg.Save(cmd.OutOrStdout())
			}

			url := flagOrEnv(cmd, urlFlag, urlEnv)
			clientOpts := []nexus.ClientOption{
				nexus.WithCredentials(
					flagOrEnv(cmd, userFlag, userEnv),
					flagOrEnv(cmd, passwordFlag, passwordEnv)),
			}
			if limit, _ := cmd.Flags().GetFloat64(rateFlag); limit > 0 {
				clientOpts = append(clientOpts, nexus.WithRateLimit(rate.Limit(limit), 1))
			}
			client := nexus.NewClient(url, clientOpts...)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			log.Info(fmt.Sprintf("🔗 Nexus at %s", url))
			if constraint, _ := cmd.Flags().GetString(requireVersionFlag); constraint != "" {
				version, err := client.RequireVersion(ctx, constraint)
				if err != nil {
					return err
				}
				log.Info(fmt.Sprintf("🏷  Nexus version %s satisfies %s", version, constraint))
			}
			return nexcas.NewReconciler(client).Apply(ctx, cfg)
		},
	}
	rootCmd.Flags().String(urlFlag, "http://localhost:8081",
		"Nexus base URL, defaults to $"+urlEnv)
	rootCmd.Flags().StringP(userFlag, "u", "admin",
		"Nexus user, defaults to $"+userEnv)
	rootCmd.Flags().StringP(passwordFlag, "p", "",
		"Nexus password, defaults to $"+passwordEnv)
	rootCmd.Flags().Bool(dryRunFlag, false,
		"print the interpolated configuration with redacted passwords instead of applying it")
	rootCmd.Flags().Bool(strictFlag, false,
		"reject configurations with unresolved placeholders")
	rootCmd.Flags().String(requireVersionFlag, "",
		"semantic version constraint the Nexus version must satisfy, such as \">= 3.40\"")
	rootCmd.Flags().Float64(rateFlag, 0,
		"maximum number of requests per second, unlimited if zero")
	rootCmd.Flags().Bool(debugFlag, false,
		"enable debug logging")

	if info, biok := debug.ReadBuildInfo(); biok {
		commit := buildInfo(info, "vcs.revision")
		if commit != "" {
			modified := ""
			if buildInfo(info, "vcs.modified") == "true" {
				modified = " (modified)"
			}
			rootCmd.Version = fmt.Sprintf("commit %s%s", commit[:8], modified)
		} else if modver := info.Main.Version; modver != "" {
			rootCmd.Version = modver
		}
	}

	return rootCmd
}
