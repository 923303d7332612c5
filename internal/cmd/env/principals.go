package env

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"filament/internal/instance"
	"filament/internal/principal"
	"filament/internal/validate"
)

// Store binds the facade operations of one principal kind so users and
// groups share one command implementation.
type Store[S any] struct {
	Kind   string
	New    func(name string) *principal.Principal[S]
	List   func(*instance.Instance, context.Context, principal.EnabledFilter) ([]principal.Info, error)
	Exists func(*instance.Instance, context.Context, string) (bool, error)
	Get    func(*instance.Instance, context.Context, string) (*principal.Principal[S], error)
	Add    func(*instance.Instance, context.Context, *principal.Principal[S]) error
	Update func(*instance.Instance, context.Context, *principal.Principal[S]) error
	Delete func(*instance.Instance, context.Context, string) error
}

// Usage prints the action summary for the kind.
func (s Store[S]) Usage(w io.Writer) {
	fmt.Fprintf(w, "filament %s <list|show|add|apply|delete|enable|disable> [flags] [NAME|FILE]\n", s.Kind)
}

// Run executes one action. Output goes to stdout; logs go to stderr.
func (s Store[S]) Run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) < 1 {
		s.Usage(os.Stderr)
		return fmt.Errorf("missing %s action", s.Kind)
	}
	action := args[0]
	fs := flag.NewFlagSet(s.Kind+" "+action, flag.ContinueOnError)
	var f Flags
	f.Register(fs)

	var status, description, home string
	var disabled bool
	switch action {
	case "list":
		fs.StringVar(&status, "status", "any", "filter by status: any|enabled|disabled")
	case "add":
		fs.StringVar(&description, "description", "", "free-form description")
		fs.StringVar(&home, "home", "", "home directory path")
		fs.BoolVar(&disabled, "disabled", false, "create the "+s.Kind+" disabled")
	case "show", "apply", "delete", "enable", "disable":
	case "-h", "--help", "help":
		s.Usage(stdout)
		return nil
	default:
		s.Usage(os.Stderr)
		return fmt.Errorf("unknown %s action: %s", s.Kind, action)
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	arg := fs.Arg(0)
	if action != "list" && arg == "" {
		return fmt.Errorf("%s %s: missing argument", s.Kind, action)
	}

	e, err := f.Open(ctx)
	if err != nil {
		return err
	}
	in := e.Instance

	switch action {
	case "list":
		filter, err := principal.ParseEnabledFilter(status)
		if err != nil {
			return err
		}
		infos, err := s.List(in, ctx, filter)
		if err != nil {
			return err
		}
		return writeInfos(stdout, infos)
	case "show":
		p, err := s.Get(in, ctx, arg)
		if err != nil {
			return err
		}
		return writeYAML(stdout, p)
	case "add":
		p := s.New(arg)
		p.Info.Description = description
		p.Info.Enabled = !disabled
		if home != "" {
			if p.HomeDirectory.Path, err = validate.HomePath(home); err != nil {
				return err
			}
		}
		return s.Add(in, ctx, p)
	case "apply":
		p, err := readYAML[S](arg)
		if err != nil {
			return err
		}
		ok, err := s.Exists(in, ctx, p.Info.Name)
		if err != nil {
			return err
		}
		if ok {
			return s.Update(in, ctx, p)
		}
		return s.Add(in, ctx, p)
	case "delete":
		return s.Delete(in, ctx, arg)
	default:
		return s.setEnabled(ctx, in, arg, action == "enable")
	}
}

func (s Store[S]) setEnabled(ctx context.Context, in *instance.Instance, name string, enabled bool) error {
	p, err := s.Get(in, ctx, name)
	if err != nil {
		return err
	}
	if p.Info.Enabled == enabled {
		return nil
	}
	p.Info.Enabled = enabled
	return s.Update(in, ctx, p)
}

func writeInfos(w io.Writer, infos []principal.Info) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATUS\tDESCRIPTION")
	for _, info := range infos {
		status := "disabled"
		if info.Enabled {
			status = "enabled"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, status, info.Description)
	}
	return tw.Flush()
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// readYAML decodes one aggregate from path, "-" meaning stdin.
func readYAML[S any](path string) (*principal.Principal[S], error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var p principal.Principal[S]
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty document", path)
		}
		return nil, err
	}
	return &p, nil
}
