package cli

import (
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/harun/ledgerctl/pkg/plugin"
)

// CobraSurface binds plugin commands onto a cobra command tree. It owns
// the pieces the core deliberately does not: flag parsing and output
// rendering.
type CobraSurface struct {
	root   *cobra.Command
	logger zerolog.Logger
}

// NewCobraSurface creates a surface attaching commands under root.
func NewCobraSurface(root *cobra.Command, logger zerolog.Logger) *CobraSurface {
	return &CobraSurface{
		root:   root,
		logger: logger.With().Str("component", "cli-surface").Logger(),
	}
}

// AddCommand builds a cobra command for one bound plugin command.
func (s *CobraSurface) AddCommand(bound plugin.BoundCommand) error {
	cmd := &cobra.Command{
		Use:   bound.Spec.Name,
		Short: bound.Spec.Description,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := collectOptions(cmd, bound.Spec.Options)
			if err != nil {
				return err
			}

			invocationID := uuid.NewString()
			s.logger.Debug().
				Str("command", bound.Spec.Name).
				Str("plugin", bound.Plugin).
				Str("invocation", invocationID).
				Msg("Dispatching command")

			result, err := bound.Run(cmd.Context(), opts)
			if err != nil {
				s.logger.Error().Err(err).
					Str("command", bound.Spec.Name).
					Str("invocation", invocationID).
					Msg("Command failed")
				return err
			}
			return renderResult(cmd, bound.Spec.Output, result)
		},
	}

	for _, opt := range bound.Spec.Options {
		if err := addFlag(cmd, opt); err != nil {
			return err
		}
		if opt.Required {
			if err := cmd.MarkFlagRequired(opt.Name); err != nil {
				return err
			}
		}
	}

	s.root.AddCommand(cmd)
	return nil
}

func addFlag(cmd *cobra.Command, opt plugin.OptionSpec) error {
	switch opt.Type {
	case plugin.OptionString:
		def, _ := opt.Default.(string)
		cmd.Flags().String(opt.Name, def, opt.Description)
	case plugin.OptionInt:
		def := 0
		switch v := opt.Default.(type) {
		case int:
			def = v
		case float64: // manifests decoded from JSON carry numbers as float64
			def = int(v)
		}
		cmd.Flags().Int(opt.Name, def, opt.Description)
	case plugin.OptionBool:
		def, _ := opt.Default.(bool)
		cmd.Flags().Bool(opt.Name, def, opt.Description)
	default:
		return fmt.Errorf("option %q has unsupported type %q", opt.Name, opt.Type)
	}
	return nil
}

func collectOptions(cmd *cobra.Command, specs []plugin.OptionSpec) (map[string]any, error) {
	opts := make(map[string]any, len(specs))
	for _, opt := range specs {
		switch opt.Type {
		case plugin.OptionString:
			v, err := cmd.Flags().GetString(opt.Name)
			if err != nil {
				return nil, err
			}
			opts[opt.Name] = v
		case plugin.OptionInt:
			v, err := cmd.Flags().GetInt(opt.Name)
			if err != nil {
				return nil, err
			}
			opts[opt.Name] = v
		case plugin.OptionBool:
			v, err := cmd.Flags().GetBool(opt.Name)
			if err != nil {
				return nil, err
			}
			opts[opt.Name] = v
		}
	}
	return opts, nil
}

// renderResult writes the handler's result to the command output. A
// command with a template in its output contract gets it rendered;
// everything else is printed as indented JSON.
func renderResult(cmd *cobra.Command, output *plugin.OutputSpec, result any) error {
	if result == nil {
		return nil
	}
	if output != nil && output.Template != "" {
		tmpl, err := template.New("output").Parse(output.Template)
		if err != nil {
			return fmt.Errorf("invalid output template: %w", err)
		}
		if err := tmpl.Execute(cmd.OutOrStdout(), result); err != nil {
			return fmt.Errorf("failed to render output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("result is not serializable: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
