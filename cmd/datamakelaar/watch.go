package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dataset> <workbook>",
	Short: "Re-validate a workbook on every save",
	Long: `Watch a workbook and run validation each time it is saved.

Useful while editing in Excel: keep this running in a terminal and see
problems as soon as you hit save. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	def, err := findDataset(cfg, args[0])
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[1])
	if err != nil {
		return err
	}

	revalidate := func() {
		report, sheet, err := validateWorkbook(path, def)
		if err != nil {
			printStatus("✗", err.Error(), color.FgRed)
			return
		}
		printReport(report)
		if report.OK() {
			printStatus("✓", fmt.Sprintf("%d rijen in orde", len(sheet.Rows)), color.FgGreen)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: Excel saves through a temp
	// file and rename, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	printStatus("•", fmt.Sprintf("watching %s (Ctrl-C om te stoppen)", path), color.FgCyan)
	revalidate()

	// Debounce: a single save produces a burst of events.
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(300*time.Millisecond, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			revalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printStatus("!", err.Error(), color.FgYellow)
		}
	}
}
