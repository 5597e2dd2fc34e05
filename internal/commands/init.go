package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/config"
)

func newInitCommand(p *project) *cobra.Command {
	var name, currency, yearStart string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledgerbook project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := p.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default(name)
			if currency != "" {
				cfg.Business.Currency = currency
			}
			if yearStart != "" {
				cfg.Fiscal.YearStart = yearStart
			}
			return runInit(cmd.OutOrStdout(), absDir, cfg, time.Now())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code (default INR)")
	cmd.Flags().StringVar(&yearStart, "year-start", "", "financial year start as MM-DD (default 04-01)")

	return cmd
}

func runInit(out io.Writer, dir string, cfg *config.Config, now time.Time) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	// Validate before anything touches the disk.
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	fy, err := cfg.YearContaining(now.In(loc))
	if err != nil {
		return err
	}

	dirs := []string{
		"data",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := "data/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	s, err := openSession(dir)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.books.Initialize(&fy); err != nil {
		return err
	}

	fmt.Fprintf(out, "Initialized ledgerbook project at %s (financial year %s, %s to %s)\n", dir, fy.ID, fy.StartDate, fy.EndDate)
	return nil
}
