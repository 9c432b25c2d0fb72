// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/poiesic/rf2boot"
	"github.com/poiesic/rf2boot/importer"
	"github.com/poiesic/rf2boot/profile"
	"github.com/poiesic/rf2boot/release"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rf2boot",
		Usage: "Load RF2 terminology releases into memory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"RF2BOOT_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Set log output format (text, json)",
				Value:   "text",
				EnvVars: []string{"RF2BOOT_LOG_FORMAT"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "load",
				Usage:     "Load a release directory and print a summary",
				ArgsUsage: "<release-dir>",
				Action:    loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "profile",
						Aliases: []string{"p"},
						Usage:   "Loading profile preset (light, standard, full)",
						Value:   "light",
						EnvVars: []string{"RF2BOOT_PROFILE"},
					},
					&cli.StringFlag{
						Name:    "profile-file",
						Usage:   "YAML loading profile; overrides --profile",
						EnvVars: []string{"RF2BOOT_PROFILE_FILE"},
					},
					&cli.StringSliceFlag{
						Name:    "refset",
						Usage:   "Reference set id to track (repeatable)",
						EnvVars: []string{"RF2BOOT_REFSETS"},
					},
					&cli.IntFlag{
						Name:    "pool-size",
						Usage:   "Number of files loaded concurrently (0 uses every CPU)",
						EnvVars: []string{"RF2BOOT_POOL_SIZE"},
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Print loading progress to stderr",
					},
					&cli.StringFlag{
						Name:    "archive",
						Usage:   "Where full component records are kept (memory, badger)",
						Value:   string(rf2boot.ArchiveMemory),
						EnvVars: []string{"RF2BOOT_ARCHIVE"},
					},
				},
			},
			{
				Name:      "classify",
				Usage:     "List the release files found in a directory",
				ArgsUsage: "<release-dir>",
				Action:    classifyCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Fail unless the international concept and relationship snapshots are present",
					},
				},
			},
		},
	}
}

func releaseDir(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one release directory argument")
	}
	return c.Args().First(), nil
}

// resolveProfile builds the loading profile from the command flags.
func resolveProfile(c *cli.Context) (*profile.LoadingProfile, error) {
	var p *profile.LoadingProfile
	var err error
	if path := c.String("profile-file"); path != "" {
		p, err = profile.LoadFromFile(path)
	} else {
		p, err = profile.Preset(c.String("profile"))
	}
	if err != nil {
		return nil, err
	}

	if refsets := c.StringSlice("refset"); len(refsets) > 0 {
		p = p.With(profile.WithRefsets(refsets...))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func loadCommand(c *cli.Context) error {
	dir, err := releaseDir(c)
	if err != nil {
		return err
	}
	p, err := resolveProfile(c)
	if err != nil {
		return err
	}

	var importerOpts []importer.Option
	if size := c.Int("pool-size"); size > 0 {
		importerOpts = append(importerOpts, importer.WithPoolSize(size))
	}
	if c.Bool("progress") {
		importerOpts = append(importerOpts, importer.WithProgress(c.App.ErrWriter))
	}

	loader, err := rf2boot.NewLoader(
		rf2boot.WithArchive(rf2boot.ArchiveKind(c.String("archive"))),
		rf2boot.WithImporterOptions(importerOpts...),
	)
	if err != nil {
		return err
	}
	defer loader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := loader.Import(ctx, dir, p)
	if err != nil {
		return err
	}

	printReport(c.App.Writer, loader, report)
	return nil
}

func printReport(w io.Writer, loader *rf2boot.Loader, report *importer.Report) {
	archived := loader.Archive().Count()
	fmt.Fprintf(w, "Run:            %s\n", report.Run)
	fmt.Fprintf(w, "Concepts:       %s\n", humanize.Comma(int64(report.Concepts)))
	fmt.Fprintf(w, "Rows read:      %s\n", humanize.Comma(report.RowsRead()))
	fmt.Fprintf(w, "Dangling edges: %s\n", humanize.Comma(int64(len(loader.Store().DanglingEdges()))))
	fmt.Fprintf(w, "Dropped:        %s\n", humanize.Comma(loader.Store().Dropped()))
	fmt.Fprintf(w, "Archived:       %s relationships, %s descriptions, %s refset members\n",
		humanize.Comma(int64(archived.Relationships)),
		humanize.Comma(int64(archived.Descriptions)),
		humanize.Comma(int64(archived.RefsetMembers)))
	fmt.Fprintf(w, "Heap in use:    %s\n", humanize.Bytes(report.HeapInUse))
	fmt.Fprintf(w, "Elapsed:        %s\n", report.Elapsed.Round(time.Millisecond))

	failed := report.Failed()
	fmt.Fprintf(w, "Failed tasks:   %d\n", len(failed))
	for _, t := range failed {
		fmt.Fprintf(w, "  %s %s (%s): %v\n", t.Bundle, t.Component, filepath.Base(t.Path), t.Err)
	}
}

func classifyCommand(c *cli.Context) error {
	dir, err := releaseDir(c)
	if err != nil {
		return err
	}

	international, err := release.FindFiles(dir, release.International)
	if err != nil {
		return err
	}
	extension, err := release.FindFiles(dir, release.Extension)
	if err != nil {
		return err
	}
	if c.Bool("strict") {
		if err := international.AssertFullSet(); err != nil {
			return err
		}
	}

	printBundle(c.App.Writer, "International", international)
	if extension.AnyFilesFound() {
		printBundle(c.App.Writer, "Extension", extension)
	}
	return nil
}

func printBundle(w io.Writer, name string, files *release.ReleaseFiles) {
	fmt.Fprintf(w, "%s (%s)\n", name, files.Fingerprint())
	for _, role := range []release.Role{release.RoleConcept, release.RoleDescription, release.RoleTextDefinition, release.RoleRelationship} {
		if path := files.Path(role); path != "" {
			fmt.Fprintf(w, "  %-26s %s\n", role, path)
		}
	}
	for _, path := range files.RefsetSnapshots {
		fmt.Fprintf(w, "  %-26s %s\n", release.RoleRefsetMember, path)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(c.String("log-format")) {
	case "text":
		handler = slog.NewTextHandler(c.App.ErrWriter, opts)
	case "json":
		handler = slog.NewJSONHandler(c.App.ErrWriter, opts)
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.String("log-format"))
	}
	slog.SetDefault(slog.New(handler))

	return nil
}
