package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/service"
)

func newTokenCmd(a *app) *cobra.Command {
	var req service.TokenRequest
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Fetch a client-credentials access token",
		Long: `Fetch an access token from the Cognito token endpoint with the client
credentials grant. Missing values are read from the namespace parameters:
the client ID from machine_client_id, the secret from the Cognito app client
and the endpoint from cognito_token_url or the user pool domain.

The raw token is printed to stdout; use --json for the decoded claims.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			tok, err := b.TokenService.FetchFromStore(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(cmd, tok, func(w io.Writer) {
				fmt.Fprintln(w, tok.Value)
				if !tok.Expiry.IsZero() {
					fmt.Fprintf(cmd.ErrOrStderr(), "expires in %s\n", time.Until(tok.Expiry).Round(time.Second))
				}
			})
		},
	}
	cmd.Flags().StringVar(&req.ClientID, "client-id", "", "app client ID (default: machine_client_id parameter)")
	cmd.Flags().StringVar(&req.TokenURL, "token-url", "", "token endpoint (default: cognito_token_url parameter or pool domain)")
	return cmd
}
