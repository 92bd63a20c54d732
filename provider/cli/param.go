package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
	"github.com/raywall/terraform-provider-agentcore/provider/internal/config"
)

func newParamCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "param",
		Short: "Read and write namespace parameters",
		Long: `Read and write Parameter Store values. A name without a leading slash is
taken relative to the namespace, so "gateway_id" means
<namespace>/gateway_id.`,
	}
	cmd.AddCommand(newParamGetCmd(a), newParamPutCmd(a), newParamDeleteCmd(a))
	return cmd
}

// paramName qualifies a relative name with the namespace.
func (a *app) paramName(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return config.ParamName(a.cfg.Namespace, name)
}

func newParamGetCmd(a *app) *cobra.Command {
	var noDecrypt bool
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print a parameter value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			name := a.paramName(args[0])
			value, err := b.Params.Get(cmd.Context(), name, !noDecrypt)
			if err != nil {
				return err
			}
			return a.emit(cmd, types.Parameter{Name: name, Value: value}, func(w io.Writer) {
				fmt.Fprintln(w, value)
			})
		},
	}
	cmd.Flags().BoolVar(&noDecrypt, "no-decrypt", false, "return SecureString values encrypted")
	return cmd
}

func newParamPutCmd(a *app) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "put <name> <value>",
		Short: "Create or overwrite a parameter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := types.ParseParameterType(typ)
			if err != nil {
				return err
			}
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			p := types.Parameter{Name: a.paramName(args[0]), Value: args[1], Type: pt}
			if err := b.Params.Put(cmd.Context(), p); err != nil {
				return err
			}
			return a.emit(cmd, types.Parameter{Name: p.Name, Type: p.Type}, func(w io.Writer) {
				fmt.Fprintf(w, "Stored %s (%s)\n", p.Name, p.Type)
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "string", "parameter type: string, list or secure")
	return cmd
}

func newParamDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			name := a.paramName(args[0])
			if err := b.Params.Delete(cmd.Context(), name); err != nil {
				return err
			}
			return a.emit(cmd, map[string]string{"deleted": name}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %s\n", name)
			})
		},
	}
}
