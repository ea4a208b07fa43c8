package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hochfrequenz/pinrun/internal/config"
	"github.com/hochfrequenz/pinrun/internal/domain"
	"github.com/hochfrequenz/pinrun/internal/elevation"
	"github.com/hochfrequenz/pinrun/internal/launcher"
	"github.com/hochfrequenz/pinrun/internal/notify"
	"github.com/hochfrequenz/pinrun/internal/profilestore"
	"github.com/hochfrequenz/pinrun/internal/prompt"
	"github.com/hochfrequenz/pinrun/internal/shortcut"
	"github.com/spf13/cobra"
)

// Exit codes for the terminal launch outcomes. Hard failures such as a
// spawn error exit 1 through cobra's error path.
const (
	exitLaunchedFully     = 0
	exitValidationFailed  = 2
	exitLaunchedPartially = 3
	exitElevationDeclined = 4
)

var (
	saveCPUs        string
	savePriority    string
	saveRetryBudget int
)

func init() {
	// list command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all saved profiles",
		RunE:  runList,
	}
	rootCmd.AddCommand(listCmd)

	// save command
	saveCmd := &cobra.Command{
		Use:   "save NAME PATH",
		Short: "Save a launch profile",
		Args:  cobra.ExactArgs(2),
		RunE:  runSave,
	}
	saveCmd.Flags().StringVar(&saveCPUs, "cpus", "", "CPU cores, comma-separated (e.g. 0,1,2,3)")
	saveCmd.Flags().StringVar(&savePriority, "priority", "", "scheduling priority")
	saveCmd.Flags().IntVar(&saveRetryBudget, "retry-budget", 0, "attempts for applying constraints (0 = configured default)")
	rootCmd.AddCommand(saveCmd)

	// delete command
	deleteCmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
	rootCmd.AddCommand(deleteCmd)

	// shortcut command
	shortcutCmd := &cobra.Command{
		Use:   "shortcut NAME",
		Short: "Create a desktop shortcut for a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runShortcut,
	}
	rootCmd.AddCommand(shortcutCmd)
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.Load(path)
}

// openStore opens the profile store and purges handoff records left
// behind by elevated re-invocations that never ran. keep names the one
// record belonging to this invocation.
func openStore(cfg *config.Config, keep string) profilestore.Store {
	store := profilestore.Open(cfg.General.DatabasePath)
	if purged, err := store.PurgeTransient(keep); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not purge stale handoff records: %v\n", err)
	} else if purged > 0 {
		fmt.Fprintf(os.Stderr, "Removed %d stale handoff record(s)\n", purged)
	}
	return store
}

func runLaunch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	keyword := args[0]
	passArgs := args[1:]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	keep := ""
	if cleanupHandoff {
		keep = keyword
	}
	store := openStore(cfg, keep)

	profile, err := store.Get(keyword)
	name := keyword
	switch {
	case err == nil:
		fmt.Printf("Loaded saved profile %q\n", keyword)
	case errors.Is(err, profilestore.ErrNotFound):
		profile, name, err = createProfile(store, keyword)
		if err != nil {
			store.Close()
			return err
		}
		if profile == nil {
			store.Close()
			os.Exit(exitValidationFailed)
		}
	default:
		store.Close()
		return err
	}

	if !profile.Priority.IsSet() && cfg.Launch.DefaultPriority != "" {
		if p, perr := domain.ParsePriority(cfg.Launch.DefaultPriority); perr == nil {
			profile.Priority = p
		}
	}

	code := launchLoop(store, cfg, profile, name, passArgs)
	store.Close()
	os.Exit(code)
	return nil
}

// launchLoop runs the launch and, on recoverable failures, offers the
// user a way out before giving up. It returns the process exit code.
func launchLoop(store profilestore.Store, cfg *config.Config, p *domain.LaunchProfile, name string, passArgs []string) int {
	l := &launcher.Launcher{
		Strategy: launcher.ForPlatform(),
		Store:    store,
	}
	if neg := elevation.ForPlatform(store); neg != nil {
		l.Gate = neg
	}
	opts := launcher.Options{
		Name:           name,
		Args:           passArgs,
		CleanupHandoff: cleanupHandoff,
		RetryBudget:    cfg.Launch.RetryBudget,
		InitialDelay:   time.Duration(cfg.Launch.InitialDelayMS) * time.Millisecond,
	}

	for {
		outcome, err := l.Launch(p, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		announce(cfg, name, *outcome)

		switch outcome.Kind {
		case domain.LaunchedFully:
			return exitLaunchedFully
		case domain.LaunchedPartially:
			fmt.Fprintf(os.Stderr, "Warning: launched with reduced settings: %s\n", outcome.Reason)
			return exitLaunchedPartially
		case domain.ValidationFailed:
			if !recoverValidation(store, p, name, outcome.Reason) {
				return exitValidationFailed
			}
		case domain.ElevationDeclined:
			if !recoverElevation(p, outcome.Reason) {
				return exitElevationDeclined
			}
		default:
			return 1
		}
	}
}

// recoverValidation lets the user fix a profile that failed validation.
// Returns true to retry the launch.
func recoverValidation(store profilestore.Store, p *domain.LaunchProfile, name string, reason string) bool {
	fmt.Fprintf(os.Stderr, "Profile invalid: %s\n", reason)
	idx, err := prompt.Select("What now?", []prompt.Choice{
		{Label: "Update program path", Help: "enter a new path and retry"},
		{Label: "Delete profile", Help: "remove the saved profile"},
		{Label: "Abort", Help: "exit without launching"},
	})
	if err != nil || idx < 0 {
		return false
	}
	switch idx {
	case 0:
		path, err := prompt.ReadLine("Enter full program path: ")
		if err != nil || path == "" {
			return false
		}
		p.Path = strings.Trim(path, `"`)
		if !p.Transient && name != "" {
			if err := store.Save(p); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not update profile: %v\n", err)
			}
		}
		return true
	case 1:
		if name != "" {
			if err := store.Delete(name); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not delete profile: %v\n", err)
			} else {
				fmt.Printf("Profile %q deleted.\n", name)
			}
		}
		return false
	default:
		return false
	}
}

// recoverElevation lets the user react to a failed elevation handoff.
// Returns true to retry the launch.
func recoverElevation(p *domain.LaunchProfile, reason string) bool {
	fmt.Fprintf(os.Stderr, "Elevation failed: %s\n", reason)
	idx, err := prompt.Select("What now?", []prompt.Choice{
		{Label: "Retry", Help: "ask for elevation again"},
		{Label: "Launch at normal priority", Help: "drop the gated priority class"},
		{Label: "Abort", Help: "exit without launching"},
	})
	if err != nil || idx < 0 {
		return false
	}
	switch idx {
	case 0:
		return true
	case 1:
		p.Priority = domain.PriorityNormal
		return true
	default:
		return false
	}
}

// createProfile builds a profile for a keyword with no saved entry,
// from flags when given and interactively otherwise. A nil profile with
// nil error means the user aborted.
func createProfile(store profilestore.Store, keyword string) (*domain.LaunchProfile, string, error) {
	fmt.Printf("No saved profile for %q. Creating a new one.\n", keyword)

	path := ""
	if _, err := os.Stat(keyword); err == nil {
		path = keyword
	} else {
		input, err := prompt.ReadLine("Enter full program path: ")
		if err != nil {
			return nil, "", err
		}
		path = strings.Trim(input, `"`)
	}

	var cpus []int
	if launchCPUs != "" {
		parsed, err := parseCPUList(launchCPUs)
		if err != nil {
			return nil, "", err
		}
		cpus = parsed
	} else {
		cpus = promptCPUs()
	}
	if path == "" || len(cpus) == 0 {
		fmt.Fprintln(os.Stderr, "Invalid path or CPU core selection. Aborting.")
		return nil, "", nil
	}

	priority := domain.PriorityUnset
	if launchPriority != "" {
		parsed, err := domain.ParsePriority(launchPriority)
		if err != nil {
			return nil, "", err
		}
		priority = parsed
	}

	now := time.Now().UTC()
	p := &domain.LaunchProfile{
		Name:      keyword,
		Path:      path,
		CPUs:      cpus,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if prompt.Confirm("Save this as a profile?") {
		if err := store.Save(p); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save profile: %v\n", err)
		} else {
			fmt.Println("Profile saved.")
		}
		return p, keyword, nil
	}

	fmt.Println("Launching without saving profile...")
	p.Transient = true
	return p, "", nil
}

// promptCPUs reads a CPU core list from stdin, reprompting until the
// input parses.
func promptCPUs() []int {
	for {
		input, err := prompt.ReadLine("Enter CPU cores (comma-separated, e.g. 0,1,2,3): ")
		if err != nil {
			return nil
		}
		cpus, perr := parseCPUList(input)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", perr)
			continue
		}
		return cpus
	}
}

// parseCPUList parses a comma-separated list of CPU core indices.
func parseCPUList(s string) ([]int, error) {
	var cpus []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid CPU index %q", part)
		}
		cpus = append(cpus, n)
	}
	if len(cpus) == 0 {
		return nil, fmt.Errorf("no valid CPU cores provided")
	}
	return cpus, nil
}

func announce(cfg *config.Config, name string, outcome domain.Outcome) {
	if !cfg.Notifications.Desktop {
		return
	}
	label := name
	if label == "" {
		label = "ad-hoc launch"
	}
	notifier := notify.NewDesktopNotifier(true)
	if err := notifier.Send(notify.ForOutcome(label, outcome)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: desktop notification failed: %v\n", err)
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg, "")
	defer store.Close()

	profiles, err := store.List()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No saved profiles.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATH\tCPUS\tPRIORITY\tUPDATED")
	for _, p := range profiles {
		priority := "-"
		if p.Priority.IsSet() {
			priority = p.Priority.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.Path, formatCPUs(p.CPUs), priority, humanize.Time(p.UpdatedAt))
	}
	w.Flush()

	return nil
}

func formatCPUs(cpus []int) string {
	parts := make([]string, len(cpus))
	for i, cpu := range cpus {
		parts[i] = strconv.Itoa(cpu)
	}
	return strings.Join(parts, ",")
}

func runSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cpus, err := parseCPUList(saveCPUs)
	if err != nil {
		return err
	}
	priority := domain.PriorityUnset
	if savePriority != "" {
		priority, err = domain.ParsePriority(savePriority)
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	p := &domain.LaunchProfile{
		Name:        args[0],
		Path:        args[1],
		CPUs:        cpus,
		Priority:    priority,
		RetryBudget: saveRetryBudget,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return err
	}

	store := openStore(cfg, "")
	defer store.Close()

	if err := store.Save(p); err != nil {
		return err
	}
	fmt.Printf("Profile %q saved.\n", p.Name)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg, "")
	defer store.Close()

	if err := store.Delete(args[0]); err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			fmt.Printf("Profile %q not found.\n", args[0])
			return nil
		}
		return err
	}
	fmt.Printf("Profile %q deleted.\n", args[0])
	return nil
}

func runShortcut(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg, "")
	defer store.Close()

	p, err := store.Get(args[0])
	if err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			return fmt.Errorf("profile %q not found", args[0])
		}
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}
	dir, err := shortcut.Dir()
	if err != nil {
		return err
	}
	path, err := shortcut.Create(dir, p.Name, exe, p.Path)
	if err != nil {
		return err
	}
	fmt.Printf("Shortcut created on your Desktop: %s\n", path)
	return nil
}
