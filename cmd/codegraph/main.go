// Command codegraph is the CLI front end for the indexer: register a
// workspace folder and index it, force a reindex, report status, or wipe
// the data root.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/codegraph/internal/diag"
	"github.com/standardbeagle/codegraph/internal/dispatch"
	"github.com/standardbeagle/codegraph/internal/eventbus"
	"github.com/standardbeagle/codegraph/internal/pipeline"
	"github.com/standardbeagle/codegraph/internal/workspace"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "codegraph",
		Usage:   "Build and query a code knowledge graph",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Override the data directory (default: OS config dir)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable trace logging",
			},
		},
		Before: func(c *cli.Context) error {
			diag.SetEnabled(c.Bool("verbose"))
			return nil
		},
		Commands: []*cli.Command{
			indexCommand(false),
			indexCommand(true),
			statusCommand(),
			cleanCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "codegraph: %v\n", err)
		os.Exit(1)
	}
}

func openManager(c *cli.Context) (*workspace.Manager, error) {
	if dir := c.String("data-dir"); dir != "" {
		dataDir, err := workspace.NewDataDirectory(dir)
		if err != nil {
			return nil, err
		}
		state, err := workspace.NewLocalStateService(dataDir.ManifestPath())
		if err != nil {
			return nil, err
		}
		return workspace.New(dataDir, state), nil
	}
	return workspace.NewSystemDefault()
}

// indexCommand builds the "index" command, or "reindex" when asReindex
// is true; both drive the same pipeline, since the pipeline's
// incremental-vs-full-build decision is automatic (internal/pipeline's
// scan cache), not a flag the caller sets.
func indexCommand(asReindex bool) *cli.Command {
	name, usage := "index", "Index a workspace folder, creating it if not yet registered"
	if asReindex {
		name, usage = "reindex", "Re-run indexing for an already-registered workspace folder"
	}
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "workspace",
				Usage: "Workspace folder path to index (default: current directory)",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "priority",
				Usage: "Job priority: low, normal, high",
				Value: "normal",
			},
		},
		Action: func(c *cli.Context) error {
			wsPath, err := filepath.Abs(c.String("workspace"))
			if err != nil {
				return err
			}
			priority, err := parsePriority(c.String("priority"))
			if err != nil {
				return err
			}

			manager, err := openManager(c)
			if err != nil {
				return err
			}

			bus := eventbus.New()
			sub := bus.Subscribe()
			defer sub.Unsubscribe()

			d := dispatch.New(pipeline.New(manager), bus)
			defer d.Shutdown()

			jobID := d.Dispatch(dispatch.Job{WorkspaceFolderPath: wsPath, Priority: priority})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				select {
				case <-sigCh:
					cancel()
				case <-ctx.Done():
				}
			}()

			go printEvents(ctx, sub)

			return waitForJob(ctx, d, jobID)
		},
	}
}

func parsePriority(s string) (dispatch.JobPriority, error) {
	switch s {
	case "low":
		return dispatch.PriorityLow, nil
	case "normal":
		return dispatch.PriorityNormal, nil
	case "high":
		return dispatch.PriorityHigh, nil
	default:
		return 0, fmt.Errorf("unknown priority %q (want low, normal, or high)", s)
	}
}

func printEvents(ctx context.Context, sub *eventbus.Subscription) {
	for {
		msg, err := sub.Receive(ctx)
		if err != nil {
			return
		}
		if msg.Lagged > 0 {
			fmt.Fprintf(os.Stderr, "codegraph: missed %d events\n", msg.Lagged)
			continue
		}
		switch e := msg.Event.(type) {
		case eventbus.ProjectIndexingStarted:
			fmt.Printf("indexing %s...\n", e.Project)
		case eventbus.ProjectIndexingCompleted:
			fmt.Printf("indexed %s\n", e.Project)
		case eventbus.ProjectIndexingFailed:
			fmt.Fprintf(os.Stderr, "failed %s: %s\n", e.Project, e.Error)
		}
	}
}

func waitForJob(ctx context.Context, d *dispatch.Dispatcher, jobID string) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			info, ok := d.Status(jobID)
			if !ok {
				return fmt.Errorf("job %s vanished", jobID)
			}
			switch info.Status {
			case dispatch.JobStatusCompleted:
				return nil
			case dispatch.JobStatusFailed, dispatch.JobStatusCancelled:
				return fmt.Errorf("job %s: %s", info.Status, info.Error)
			}
		}
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show registered workspace folders and their projects",
		Action: func(c *cli.Context) error {
			manager, err := openManager(c)
			if err != nil {
				return err
			}
			folders, err := manager.ListWorkspaceFolders()
			if err != nil {
				return err
			}
			if len(folders) == 0 {
				fmt.Println("no workspace folders registered")
				return nil
			}
			for _, folder := range folders {
				fmt.Printf("%s\n", folder.Path)
				info, err := manager.GetDataDirectoryInfo(folder.Path)
				if err != nil {
					return err
				}
				fmt.Printf("  %d project(s), %s on disk\n", info.ProjectCount, workspace.FormatBytes(info.TotalBytes))
				for _, p := range folder.Projects {
					last := "never"
					if p.LastIndexedAt != nil {
						last = p.LastIndexedAt.Format(time.RFC3339)
					}
					fmt.Printf("  - %s [%s] last indexed: %s\n", p.ProjectPath, p.Status, last)
					if p.ErrorMessage != "" {
						fmt.Printf("    error: %s\n", p.ErrorMessage)
					}
				}
			}
			return nil
		},
	}
}

func cleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Wipe the data root (all batch files and databases)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Skip the confirmation prompt",
			},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("force") {
				fmt.Print("This removes every indexed project's data. Continue? [y/N] ")
				var answer string
				fmt.Scanln(&answer)
				if answer != "y" && answer != "Y" {
					fmt.Println("aborted")
					return nil
				}
			}
			manager, err := openManager(c)
			if err != nil {
				return err
			}
			if err := manager.Clean(); err != nil {
				return err
			}
			fmt.Println("data root cleaned")
			return nil
		},
	}
}
