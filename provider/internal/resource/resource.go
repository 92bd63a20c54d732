// Package resource holds the Terraform resources of the provider. Each CRUD
// function maps schema data onto a service call of the ConfigurationBundle.
package resource

import (
	"fmt"

	"github.com/raywall/terraform-provider-agentcore/provider/internal/models"
)

func bundleFrom(m interface{}) (*models.ConfigurationBundle, error) {
	bundle, ok := m.(*models.ConfigurationBundle)
	if !ok || bundle.DeployService == nil {
		return nil, fmt.Errorf("deployment service not configured")
	}
	return bundle, nil
}

func expandStrings(raw []interface{}) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
