//  photosync ⸻ cmd/photosync/main.go <>
// +--------------------------------------------------------------+
//  .d8888. db    db d8b   db  .o88b.                              |
//  88'  YP `8b  d8' 888o  88 d8P  Y8                              |
//  `8bo.    `8bd8'  88V8o 88 8P                                   |________________________________
//  `Y8888P    88    88  V888  `Y88P' .go <--| CLI entrypoint and command routing +

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"photosync/internal/batch"
	"photosync/internal/config"
	"photosync/internal/daemon"
	"photosync/internal/descriptor"
	"photosync/internal/metadata"
	"photosync/internal/plex"
	"photosync/internal/staging"
	"photosync/internal/timestamp"
	"photosync/internal/util"
)

const version = "1.0.0"

func main() {
	printHeader()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("Config error: "+err.Error()))
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.LogPath(), util.LevelInfo)
	if err != nil {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("Cannot open log file: "+err.Error()))
		os.Exit(1)
	}
	defer logger.Close()

	command := os.Args[1]

	switch command {
	case "apply":
		handleApplyCommand(cfg, logger, os.Args[2:])
	case "convert":
		handleConvertCommand(cfg, logger, os.Args[2:])
	case "copy":
		handleCopyCommand(cfg, logger, os.Args[2:])
	case "plex":
		handlePlexCommand(cfg, os.Args[2:])
	case "daemon":
		handleDaemonCommand(cfg, logger, os.Args[2:])
	case "help":
		printUsage()
	case "version":
		printVersion()
	default:
		fmt.Println(util.WarningSymbol() + " " + util.LBL.Render("Unknown command: "+command))
		printUsage()
		os.Exit(1)
	}
}

func handleApplyCommand(cfg *config.Config, logger *util.Logger, args []string) {
	path := requireDescriptorArg(args, "apply")

	loader := newLoader(cfg)
	processor := &batch.Processor{
		Norm:   timestamp.New(time.Local),
		Writer: newWriter(cfg),
		Log:    logger,
	}

	fmt.Println(util.NSH.Render("[~] Applying: " + path))

	summary, err := util.SpinWhile("[~] Writing metadata", func() (string, error) {
		b, err := loader.Load(path)
		if err != nil {
			return "", err
		}

		report, perr := processor.Process(context.Background(), b)
		if report == nil {
			return "", perr
		}

		var out strings.Builder
		out.WriteString(report.Summary())
		for _, item := range report.Items {
			if item.Status == batch.StatusFailed {
				out.WriteString(fmt.Sprintf("\n  %s %s: %s", util.ErrorSymbol(), item.Path, item.Err))
			}
		}
		if perr != nil {
			// partial failure: show the report, exit nonzero below
			return out.String(), perr
		}
		return out.String(), nil
	})

	if summary != "" {
		fmt.Println(summary)
	}
	if err != nil {
		fail("Apply", err)
	}

	fmt.Println(util.SuccessSymbol() + " " + util.SEC.Render("Batch completed"))
}

func handleConvertCommand(cfg *config.Config, logger *util.Logger, args []string) {
	path := requireDescriptorArg(args, "convert")

	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("Convert expects a CSV file: "+path))
		os.Exit(1)
	}

	loader := newLoader(cfg)

	jsonPath, err := util.SpinWhile("[~] Converting descriptor", func() (string, error) {
		return loader.ConvertCSV(path)
	})
	if err != nil {
		fail("Convert", err)
	}

	logger.Info("Converted %s to %s", path, jsonPath)
	fmt.Println(util.SuccessSymbol() + " " + util.SEC.Render("Wrote "+jsonPath))
}

func handleCopyCommand(cfg *config.Config, logger *util.Logger, args []string) {
	path := requireDescriptorArg(args, "copy")

	copyRoot, err := cfg.CopyRoot()
	if err != nil {
		fail("Copy", err)
	}

	loader := newLoader(cfg)
	copier := &staging.Copier{CopyRoot: copyRoot, Log: logger}

	summary, err := util.SpinWhile("[~] Copying files", func() (string, error) {
		b, err := loader.Load(path)
		if err != nil {
			return "", err
		}
		result := copier.CopyBatch(b)
		return result.String(), nil
	})
	if err != nil {
		fail("Copy", err)
	}

	fmt.Println(summary)
	fmt.Println(util.SuccessSymbol() + " " + util.SEC.Render("Staging copy completed"))
}

func handlePlexCommand(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("Plex requires a subcommand"))
		fmt.Println(util.SUB.Render("Usage: photosync plex <info|refresh> [section]"))
		os.Exit(1)
	}

	url, token, err := cfg.PlexServer()
	if err != nil {
		fail("Plex", err)
	}

	client := plex.NewClient(url, token)
	ctx := context.Background()

	switch args[0] {
	case "info":
		id, err := client.Identity(ctx)
		if err != nil {
			fail("Plex", err)
		}
		fmt.Println(util.LBL.Render("SERVER"))
		fmt.Println("  " + util.NSH.Render(url))
		fmt.Println("  version " + id.Version + ", machine " + id.MachineIdentifier)
		fmt.Println("")

		sections, err := client.Sections(ctx)
		if err != nil {
			fail("Plex", err)
		}
		fmt.Println(util.LBL.Render("SECTIONS"))
		for _, s := range sections {
			fmt.Printf("  %s  %s (%s)\n", util.SEC.Render(s.Key), s.Title, util.SUB.Render(s.Type))
		}

	case "refresh":
		sections, err := client.Sections(ctx)
		if err != nil {
			fail("Plex", err)
		}

		// no argument refreshes every photo section
		var targets []plex.Section
		for _, s := range sections {
			if len(args) > 1 {
				if s.Key == args[1] || strings.EqualFold(s.Title, args[1]) {
					targets = append(targets, s)
				}
			} else if s.Type == "photo" {
				targets = append(targets, s)
			}
		}
		if len(targets) == 0 {
			fmt.Println(util.WarningSymbol() + " " + util.LBL.Render("No matching library section"))
			os.Exit(1)
		}

		for _, s := range targets {
			if err := client.Refresh(ctx, s.Key); err != nil {
				fail("Plex", err)
			}
			fmt.Println(util.SuccessSymbol() + " " + util.SEC.Render("Refresh triggered: "+s.Title))
		}

	default:
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("Unknown plex command: "+args[0]))
		fmt.Println(util.SUB.Render("Usage: photosync plex <info|refresh> [section]"))
		os.Exit(1)
	}
}

func handleDaemonCommand(cfg *config.Config, logger *util.Logger, args []string) {
	if len(args) < 1 {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("Daemon mode requires a subcommand"))
		fmt.Println(util.SUB.Render("Usage: photosync daemon <on|off|status>"))
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("Cannot determine home directory"))
		os.Exit(1)
	}
	pidFile := filepath.Join(homeDir, ".photosync", "daemon.pid")

	switch args[0] {
	case "on", "start":
		if isDaemonRunning(pidFile) {
			fmt.Println(util.WarningSymbol() + " " + util.LBL.Render("Daemon is already running"))
			os.Exit(0)
		}

		watchDir, err := cfg.WatchDir()
		if err != nil {
			fail("Daemon", err)
		}

		fmt.Println(util.NSH.Render("[~] Starting daemon, watching " + watchDir))

		processor := &batch.Processor{
			Norm:   timestamp.New(time.Local),
			Writer: newWriter(cfg),
			Log:    logger,
		}
		d := daemon.New(watchDir, newLoader(cfg), processor, logger)
		if err := d.Start(); err != nil {
			fail("Daemon", err)
		}

		if err := os.MkdirAll(filepath.Dir(pidFile), 0755); err != nil {
			fmt.Println(util.WarningSymbol() + " " + util.LBL.Render("Could not create daemon directory"))
		}
		pidBytes := fmt.Appendf(nil, "%d", os.Getpid())
		if err := os.WriteFile(pidFile, pidBytes, 0644); err != nil {
			fmt.Println(util.WarningSymbol() + " " + util.LBL.Render("Could not write PID file"))
		}

		fmt.Println(util.SuccessSymbol() + " " + util.SEC.Render("Daemon started"))

		// keep running until interrupted
		select {}

	case "off", "stop":
		if !isDaemonRunning(pidFile) {
			fmt.Println(util.WarningSymbol() + " " + util.LBL.Render("Daemon is not running"))
			os.Exit(0)
		}

		pidBytes, err := os.ReadFile(pidFile)
		if err != nil {
			fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("Could not read daemon PID"))
			os.Exit(1)
		}

		pidStr := strings.TrimSpace(string(pidBytes))
		fmt.Println(util.NSH.Render("[~] Stopping daemon (PID " + pidStr + ")..."))

		if err := os.Remove(pidFile); err != nil {
			fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("Could not remove PID file"))
			os.Exit(1)
		}

		fmt.Println(util.SuccessSymbol() + " " + util.SEC.Render("Daemon stopped"))

	case "status":
		if isDaemonRunning(pidFile) {
			pidBytes, _ := os.ReadFile(pidFile)
			pidStr := strings.TrimSpace(string(pidBytes))
			fmt.Println(util.InfoSymbol() + " " + util.NSH.Render("Daemon is running (PID "+pidStr+")"))
		} else {
			fmt.Println(util.InfoSymbol() + " " + util.NSH.Render("Daemon is not running"))
		}

	default:
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("Unknown daemon command: "+args[0]))
		fmt.Println(util.SUB.Render("Usage: photosync daemon <on|off|status>"))
		os.Exit(1)
	}
}

// builds a loader from whatever parts of the config are present; the
// loader itself rejects shapes that need the missing parts
func newLoader(cfg *config.Config) *descriptor.Loader {
	dataRoot, _ := cfg.DataRoot()
	return &descriptor.Loader{
		DataRoot: dataRoot,
		Norm:     timestamp.New(time.Local),
	}
}

func newWriter(cfg *config.Config) metadata.Writer {
	extra, err := config.LoadTagProfile()
	if err != nil {
		fmt.Println(util.WarningSymbol() + " " + util.LBL.Render("Tag profile skipped: "+err.Error()))
	}

	writer, err := metadata.New(cfg.Writer.Strategy, metadata.Options{
		Artist:  cfg.General.Artist,
		Source:  cfg.General.Source,
		Extra:   extra,
		Timeout: time.Duration(cfg.Writer.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render(err.Error()))
		os.Exit(1)
	}
	return writer
}

func requireDescriptorArg(args []string, cmd string) string {
	if len(args) < 1 {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("No descriptor file specified"))
		fmt.Println(util.SUB.Render("Usage: photosync " + cmd + " <descriptor>"))
		os.Exit(1)
	}

	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render("File not found: "+path))
		os.Exit(1)
	}
	return path
}

func fail(what string, err error) {
	if errors.Is(err, config.ErrNotConfigured) {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render(what+" needs configuration: "+err.Error()))
		fmt.Println(util.SUB.Render("Add the missing section to photosync.toml"))
	} else {
		fmt.Println(util.ErrorSymbol() + " " + util.ERR.Render(what+" failed: "+err.Error()))
	}
	os.Exit(1)
}

func isDaemonRunning(pidFile string) bool {
	_, err := os.Stat(pidFile)
	return err == nil
}

func printHeader() {
	const art = `
	.d8888. db    db d8b   db  .o88b.
	88'  YP '8b  d8' 888o  88 d8P  Y8
	'8bo.    '8bd8'  88V8o 88 8P
	'Y8888P    88    88  V888  'Y88P'
`

	fmt.Printf("\n%s\n", util.LBL.Render(art))
	fmt.Printf("%s %s\n\n",
		util.NSH.Render("	→"),
		util.SUB.Render("Photo & Video Metadata Sync"))
}

func printUsage() {
	fmt.Println(util.LBL.Render("USAGE"))
	fmt.Println("  photosync <command> [options]")
	fmt.Println("")
	fmt.Println(util.LBL.Render("COMMANDS"))
	fmt.Println("  apply <descriptor>         write metadata from a JSON/CSV descriptor")
	fmt.Println("  convert <file.csv>         rewrite a CSV import as a JSON descriptor")
	fmt.Println("  copy <descriptor>          stage verified copies of the batch files")
	fmt.Println("  plex <info|refresh> [sec]  inspect or refresh the media server")
	fmt.Println("  daemon <on|off|status>     manage the drop-directory service")
	fmt.Println("  help                       show this help information")
	fmt.Println("  version                    show version information")
}

func printVersion() {
	fmt.Println(util.LBL.Render("PHOTOSYNC v" + version))
	fmt.Println(util.LBL.Render("→ Bulk metadata writer for photo & video archives"))
}
