package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

var e2eCmd = &cobra.Command{
	Use:   "e2e",
	Short: "Run the end-to-end browser tests",
	Long:  "Run END2END_CMD inside END2END_DIR against a server that is already running.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		c, err := e2eCommand(cfg.Site.End2EndCmd, cfg.Site.End2EndDir, args)
		if err != nil {
			return err
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		c.Env = append(os.Environ(), "BASE_URL=http://"+cfg.Site.Addr)

		logger.Info("e2e_start", slog.String("cmd", cfg.Site.End2EndCmd), slog.String("dir", cfg.Site.End2EndDir))
		return c.Run()
	},
}

// e2eCommand splits the configured command line and appends extra args.
func e2eCommand(line, dir string, extra []string) (*exec.Cmd, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("END2END_CMD is empty")
	}
	c := exec.Command(fields[0], append(fields[1:], extra...)...)
	c.Dir = dir
	return c, nil
}
