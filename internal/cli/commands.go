package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/engine/patch"
)

// ErrExists indicates init was asked to overwrite an existing document.
var ErrExists = errors.New("document already exists")

func (a *app) initCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init KEY JSON",
		Short: "Create a document with an empty history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key := args[0]

			if !force {
				exists, err := a.store.Exists(ctx, key)
				if err != nil {
					return err
				}
				if exists {
					return fmt.Errorf("%w: %q (use --force to replace it)", ErrExists, key)
				}
			}

			v, err := decodeJSON(args[1])
			if err != nil {
				return err
			}
			e, err := engine.New(v, a.engineOptions(key)...)
			if err != nil {
				return err
			}
			if err := a.store.Save(ctx, key, e.Snapshot()); err != nil {
				return err
			}
			return a.printState(e)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing document")
	return cmd
}

func (a *app) setCommand() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "set KEY JSON",
		Short: "Replace the document, or one field of it with --at",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.modify(cmd.Context(), args[0], func(e *engine.Engine) error {
				if at == "" {
					v, err := decodeJSON(args[1])
					if err != nil {
						return err
					}
					return e.SetState(engine.Replace(v))
				}

				next, err := setAt(e.State(), at, args[1])
				if err != nil {
					return err
				}
				return e.SetState(engine.Replace(next))
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "set only the field at this dotted path (e.g. user.name)")
	return cmd
}

func (a *app) patchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "patch KEY PATCHES",
		Short: "Apply a JSON patch array such as [{\"op\":\"add\",\"path\":\"/a\",\"value\":1}]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ps patch.PatchSet
			if err := json.Unmarshal([]byte(args[1]), &ps); err != nil {
				return fmt.Errorf("decode patches: %w", err)
			}
			return a.modify(cmd.Context(), args[0], func(e *engine.Engine) error {
				return applyPatches(e, ps)
			})
		},
	}
}

// applyPatches records ps as one edit. The patches are applied to a copy
// first so a failing patch leaves the history untouched.
func applyPatches(e *engine.Engine, ps patch.PatchSet) error {
	next, err := patch.Apply(e.State(), ps, false)
	if err != nil {
		return err
	}
	return e.SetState(engine.Compute(func() any { return next }))
}

func (a *app) backCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "back KEY [N]",
		Short: "Move N steps toward older states (default 1)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := optionalCount(args)
			if err != nil {
				return err
			}
			return a.modify(cmd.Context(), args[0], func(e *engine.Engine) error {
				return e.Back(n)
			})
		},
	}
}

func (a *app) forwardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forward KEY [N]",
		Short: "Move N steps toward newer states (default 1)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := optionalCount(args)
			if err != nil {
				return err
			}
			return a.modify(cmd.Context(), args[0], func(e *engine.Engine) error {
				return e.Forward(n)
			})
		},
	}
}

func (a *app) goCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "go KEY POSITION",
		Short: "Move to an absolute position in the history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q: %w", args[1], err)
			}
			return a.modify(cmd.Context(), args[0], func(e *engine.Engine) error {
				return e.Go(pos)
			})
		},
	}
}

func (a *app) showCommand() *cobra.Command {
	var query string
	var indent bool
	cmd := &cobra.Command{
		Use:   "show KEY",
		Short: "Print the current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := json.Marshal(e.State())
			if err != nil {
				return fmt.Errorf("encode state: %w", err)
			}
			if query != "" {
				res := gjson.GetBytes(data, query)
				if !res.Exists() {
					return fmt.Errorf("%w: %q", ErrNoMatch, query)
				}
				data = []byte(res.Raw)
			}
			return a.writeJSON(data, indent)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "print only the value matching this gjson path")
	cmd.Flags().BoolVar(&indent, "pretty", false, "indent the output")
	return cmd
}

func (a *app) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info KEY",
		Short: "Print the position and navigation flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c := e.Controls()
			fmt.Fprintf(a.out, "key:         %s\n", e.ID())
			fmt.Fprintf(a.out, "position:    %d\n", c.Position)
			fmt.Fprintf(a.out, "entries:     %d\n", e.Patches().Len())
			fmt.Fprintf(a.out, "max history: %d\n", e.MaxHistory())
			fmt.Fprintf(a.out, "can back:    %t\n", c.CanBack)
			fmt.Fprintf(a.out, "can forward: %t\n", c.CanForward)
			return nil
		},
	}
}

func (a *app) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history KEY",
		Short: "Print every reachable state, marking the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			states, err := e.History()
			if err != nil {
				return err
			}
			current := len(states) - 1 - (e.Patches().Len() - e.Position())
			for i, s := range states {
				data, err := json.Marshal(s)
				if err != nil {
					return fmt.Errorf("encode state %d: %w", i, err)
				}
				marker := " "
				if i == current {
					marker = "*"
				}
				fmt.Fprintf(a.out, "%s %3d %s\n", marker, i, data)
			}
			return nil
		},
	}
}

func (a *app) patchesCommand() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "patches KEY",
		Short: "Print the forward and inverse patch log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := e.Patches()
			if asYAML {
				enc := yaml.NewEncoder(a.out)
				enc.SetIndent(2)
				if err := enc.Encode(p); err != nil {
					return fmt.Errorf("encode patches: %w", err)
				}
				return enc.Close()
			}
			data, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("encode patches: %w", err)
			}
			return a.writeJSON(data, true)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a document and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.Delete(cmd.Context(), args[0])
		},
	}
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := a.store.Keys(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(a.out, k)
			}
			return nil
		},
	}
}

func optionalCount(args []string) (int, error) {
	if len(args) < 2 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid step count %q", args[1])
	}
	return n, nil
}

// setAt returns a copy of state with the value at the dotted path replaced by
// the raw JSON in value.
func setAt(state any, path, value string) (any, error) {
	if !json.Valid([]byte(value)) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, value)
	}
	current, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	updated, err := sjson.SetRawBytes(current, path, []byte(value))
	if err != nil {
		return nil, fmt.Errorf("set %q: %w", path, err)
	}
	return decodeJSON(string(updated))
}
