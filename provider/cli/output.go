package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raywall/terraform-provider-agentcore/pkg/types"
)

// emit writes v as JSON with --json, otherwise calls human.
func (a *app) emit(cmd *cobra.Command, v any, human func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if a.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human(w)
	return nil
}

func printGateway(w io.Writer, outcome types.Outcome, gw *types.Gateway) {
	switch outcome {
	case types.OutcomeCreated:
		fmt.Fprintf(w, "Gateway %s created\n", gw.ID)
	case types.OutcomeAlreadyExists:
		fmt.Fprintf(w, "Gateway %s already exists\n", gw.ID)
	default:
		fmt.Fprintf(w, "Gateway %s\n", gw.ID)
	}
	fmt.Fprintf(w, "  name:     %s\n", gw.Name)
	fmt.Fprintf(w, "  url:      %s\n", gw.URL)
	if gw.ARN != "" {
		fmt.Fprintf(w, "  arn:      %s\n", gw.ARN)
	}
	if gw.Status != "" {
		fmt.Fprintf(w, "  status:   %s\n", gw.Status)
	}
}

func printTarget(w io.Writer, name string, r types.TargetResult) {
	switch r.Outcome {
	case types.OutcomeCreated:
		fmt.Fprintf(w, "Target %s created (%s)\n", name, r.TargetID)
	case types.OutcomeAlreadyExists:
		fmt.Fprintf(w, "Target %s already exists (%s)\n", name, r.TargetID)
	default:
		fmt.Fprintf(w, "Target %s failed: %s\n", name, r.Reason)
	}
	if r.CredentialProviderARN != "" {
		fmt.Fprintf(w, "  credential provider: %s\n", r.CredentialProviderARN)
	}
}

func printTeardown(w io.Writer, r types.TeardownReport) {
	for _, id := range r.DeletedTargets {
		fmt.Fprintf(w, "Deleted target %s\n", id)
	}
	for _, id := range r.FailedTargets {
		fmt.Fprintf(w, "Failed to delete target %s\n", id)
	}
	if r.GatewayDeleted {
		fmt.Fprintf(w, "Deleted gateway %s\n", r.GatewayID)
	} else {
		fmt.Fprintf(w, "Gateway %s was not deleted\n", r.GatewayID)
	}
}
