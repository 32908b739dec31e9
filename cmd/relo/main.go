package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RuDeeVelops/ptIt-relo/internal/app"
	"github.com/RuDeeVelops/ptIt-relo/internal/dashboard"
	"github.com/RuDeeVelops/ptIt-relo/internal/export"
	"github.com/RuDeeVelops/ptIt-relo/internal/identity"
	"github.com/RuDeeVelops/ptIt-relo/internal/logging"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	importPath := flag.String("import", "", "import tasks from a JSON export and exit")
	flag.Parse()

	if err := run(*configPath, *importPath); err != nil {
		fmt.Fprintf(os.Stderr, "relo: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, importPath string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// First run: write the defaults out so there is a file to edit.
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		if saveErr := model.SaveConfig(configPath, cfg); saveErr != nil {
			fmt.Fprintf(os.Stderr, "relo: writing default config: %v\n", saveErr)
		}
	}

	log, logCloser, err := logging.Open(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logCloser.Close()

	s, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	provider := newProvider(cfg)

	if importPath != "" {
		return importTasks(s, provider, importPath)
	}

	ctrl := dashboard.New(s, provider, log)
	ctrl.Start()
	defer ctrl.Close()

	log.Info().Str("project", cfg.Project).Msg("starting")

	p := tea.NewProgram(app.New(*cfg, ctrl, provider), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// importTasks reads a JSON export and recreates its tasks under the
// current account. Requires an existing session: either offline mode or
// a keyring-cached sign-in from a previous TUI run.
func importTasks(s store.Store, provider identity.Provider, path string) error {
	account := provider.Current()
	if account == nil {
		if static, ok := provider.(*identity.StaticProvider); ok {
			a, err := static.SignIn(context.Background())
			if err != nil {
				return err
			}
			account = a
		} else {
			return fmt.Errorf("no active session; sign in once via the TUI or set offline_account")
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := export.ParseJSON(data)
	if err != nil {
		return err
	}
	tasks, err := export.ImportTasks(doc, account.ID)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, t := range tasks {
		// Fresh IDs so re-importing a file never collides with the
		// originals.
		t.ID = ""
		if _, err := s.CreateTask(ctx, t); err != nil {
			return fmt.Errorf("importing %q: %w", t.Title, err)
		}
	}
	fmt.Printf("imported %d steps for %s\n", len(tasks), account.Email)
	return nil
}

// newProvider picks the identity provider: a local static account when
// offline mode is configured, the browser OAuth flow otherwise.
func newProvider(cfg *model.AppConfig) identity.Provider {
	if cfg.OfflineAccount != "" {
		return identity.NewStaticProvider(identity.Account{
			ID:    cfg.OfflineAccount,
			Name:  cfg.OfflineAccount,
			Email: cfg.OfflineAccount + "@local",
		})
	}

	p := identity.NewOAuthProvider(cfg.OAuth, openBrowser)
	p.Restore()
	return p
}

// openBrowser opens url in the platform's default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
