package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"webarc/internal/app"
	"webarc/internal/config"
	"webarc/internal/wa"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp resolves the project directory and opens it. The caller must
// defer a.Close(). The --project flag wins; otherwise the configured
// default project is used.
func newApp(cmd *cobra.Command) (*app.App, error) {
	project, _ := cmd.Flags().GetString("project")
	return openAppAt(project)
}

func openAppAt(project string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	logDir := defaults["log_dir"]

	// The config file is optional when --project is given.
	cfg, cfgErr := config.ReadFromFile(defaults["config_path"])
	if cfgErr == nil {
		if cfg.LogDir != "" {
			logDir = cfg.LogDir
		}
		if project == "" {
			project = cfg.DefaultProject
		}
	}
	if project == "" {
		if cfgErr != nil {
			return nil, fmt.Errorf("no --project given and no config: %w", cfgErr)
		}
		return nil, errors.New("no --project given and no default_project configured")
	}

	absProject, err := filepath.Abs(project)
	if err != nil {
		return nil, fmt.Errorf("resolving project path: %w", err)
	}

	a, err := app.Open(absProject, logDir, wa.Collaborators{})
	if err != nil {
		return nil, fmt.Errorf("opening project: %w", err)
	}
	return a, nil
}

// mustResource resolves url to an already known resource.
func mustResource(p *wa.Project, url string) (*wa.Resource, error) {
	res := p.FindResource(url)
	if res == nil {
		return nil, fmt.Errorf("unknown resource: %s", url)
	}
	return res, nil
}

var rootCmd = &cobra.Command{
	Use:   "webarc",
	Short: "Website archiving tool",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Log Dir: %s\n", cfg.LogDir)
		return nil
	},
}

// create command
var createCmd = &cobra.Command{
	Use:   "create PATH",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if filepath.Ext(path) != wa.ProjectExt {
			path += wa.ProjectExt
		}

		a, err := openAppAt(path)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Created project: %s\n", path)
		fmt.Printf("Project ID: %s\n", a.Project().PropertyOr("project_id", ""))
		return nil
	},
}

// prop command
var propCmd = &cobra.Command{
	Use:   "prop",
	Short: "Manage project properties",
}

var propGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Read a project property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		value, ok := a.Project().Property(args[0])
		if !ok {
			return fmt.Errorf("property not set: %s", args[0])
		}
		fmt.Println(value)
		return nil
	},
}

var propSetCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Set a project property",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Project().SetProperty(args[0], args[1]); err != nil {
			return fmt.Errorf("setting property: %w", err)
		}
		return nil
	},
}

// resource command
var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Manage resources",
}

var resourceAddCmd = &cobra.Command{
	Use:   "add URL",
	Short: "Register a URL as a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Project().InternResource(args[0])
		if err != nil {
			return fmt.Errorf("adding resource: %w", err)
		}
		fmt.Printf("#%d  %s\n", res.ID(), res.URL())
		return nil
	},
}

var resourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p := a.Project()
		resources := p.Resources()
		if len(resources) == 0 {
			fmt.Println("No resources.")
			return nil
		}
		for _, res := range resources {
			fmt.Printf("#%d  %s\n", res.ID(), p.DisplayURL(res.URL()))
		}
		return nil
	},
}

// root command
var rootResourceCmd = &cobra.Command{
	Use:   "root",
	Short: "Manage root resources",
}

var rootAddCmd = &cobra.Command{
	Use:   "add NAME URL",
	Short: "Designate a URL as a root resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p := a.Project()
		res, err := p.InternResource(args[1])
		if err != nil {
			return fmt.Errorf("adding resource: %w", err)
		}
		rr, err := p.NewRootResource(args[0], res)
		if err != nil {
			return fmt.Errorf("designating root: %w", err)
		}
		fmt.Printf("#%d  %s  %s\n", rr.ID(), rr.Name(), rr.URL())
		return nil
	},
}

var rootRmCmd = &cobra.Command{
	Use:   "rm URL",
	Short: "Remove a root designation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p := a.Project()
		res, err := mustResource(p, args[0])
		if err != nil {
			return err
		}
		rr := p.FindRootResource(res)
		if rr == nil {
			return fmt.Errorf("not a root resource: %s", args[0])
		}
		if err := rr.Delete(); err != nil {
			return fmt.Errorf("removing root: %w", err)
		}
		fmt.Printf("Removed root designation from %s\n", args[0])
		return nil
	},
}

var rootListCmd = &cobra.Command{
	Use:   "list",
	Short: "List root resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p := a.Project()
		roots := p.RootResources()
		if len(roots) == 0 {
			fmt.Println("No root resources.")
			return nil
		}
		for _, rr := range roots {
			fmt.Printf("#%d  %-20s  %s\n", rr.ID(), rr.Name(), p.DisplayURL(rr.URL()))
		}
		return nil
	},
}

// group command
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage resource groups",
}

var groupAddCmd = &cobra.Command{
	Use:   "add NAME PATTERN",
	Short: "Create a resource group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.Project().NewResourceGroup(args[0], args[1])
		if err != nil {
			return fmt.Errorf("creating group: %w", err)
		}
		fmt.Printf("#%d  %s  %s\n", g.ID(), g.Name(), g.URLPattern())
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resource groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		groups := a.Project().ResourceGroups()
		if len(groups) == 0 {
			fmt.Println("No resource groups.")
			return nil
		}
		for _, g := range groups {
			fmt.Printf("#%d  %-20s  %s\n", g.ID(), g.Name(), g.URLPattern())
		}
		return nil
	},
}

var groupMatchCmd = &cobra.Command{
	Use:   "match URL",
	Short: "Show which groups contain a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		matched := false
		for _, g := range a.Project().ResourceGroups() {
			if g.ContainsURL(args[0]) {
				fmt.Printf("#%d  %s\n", g.ID(), g.Name())
				matched = true
			}
		}
		if !matched {
			fmt.Println("No matching groups.")
		}
		return nil
	},
}

// revision command
var revisionCmd = &cobra.Command{
	Use:   "revision",
	Short: "Inspect resource revisions",
}

var revisionShowCmd = &cobra.Command{
	Use:   "show URL ID",
	Short: "Show a stored revision",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid revision id: %s", args[1])
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p := a.Project()
		res, err := mustResource(p, args[0])
		if err != nil {
			return err
		}
		rv, err := p.LoadRevision(res, id)
		if err != nil {
			return fmt.Errorf("loading revision: %w", err)
		}

		fmt.Printf("Revision:     #%d of %s\n", rv.ID(), rv.Resource().URL())
		if fe := rv.FetchError(); fe != nil {
			fmt.Printf("Fetch error:  %s\n", fe.Error())
			return nil
		}
		meta := rv.Metadata()
		fmt.Printf("Status:       %d %s\n", meta.StatusCode, meta.ReasonPhrase)
		fmt.Printf("Content type: %s\n", rv.ContentType())
		fmt.Printf("Has body:     %v\n", rv.HasBody())
		if rv.IsRedirect() {
			fmt.Printf("Redirects to: %s\n", rv.RedirectURL())
		}
		for _, h := range meta.Headers {
			fmt.Printf("  %s: %s\n", h[0], h[1])
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("project", "", "Project directory (default: config default_project)")

	configCmd.AddCommand(configInitCmd)

	propCmd.AddCommand(propGetCmd)
	propCmd.AddCommand(propSetCmd)

	resourceCmd.AddCommand(resourceAddCmd)
	resourceCmd.AddCommand(resourceListCmd)

	rootResourceCmd.AddCommand(rootAddCmd)
	rootResourceCmd.AddCommand(rootRmCmd)
	rootResourceCmd.AddCommand(rootListCmd)

	groupCmd.AddCommand(groupAddCmd)
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupMatchCmd)

	revisionCmd.AddCommand(revisionShowCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(propCmd)
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(rootResourceCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(revisionCmd)
}
