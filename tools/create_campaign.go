package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/adsapi"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/faults"
)

type CreateCampaignInput struct {
	Name      string      `json:"name" jsonschema_description:"Campaign name."`
	Objective string      `json:"objective" jsonschema_description:"Campaign objective, e.g. engagement, traffic, leads, sales, awareness."`
	Budget    MoneyAmount `json:"budget" jsonschema_description:"Daily budget in the account currency (major units), e.g. 10 or \"$10.50\"."`
}

var CreateCampaignInputSchema = GenerateSchema[CreateCampaignInput]()

// minDailyBudgetCents is the platform's lower bound for a daily budget,
// checked locally so an obviously invalid value never reaches the API.
const minDailyBudgetCents = 100

// NewCreateCampaign returns the CreateCampaign action bound to an ads API
// client. Campaigns are created PAUSED; the budget is converted to minor
// units before sending.
func NewCreateCampaign(api *adsapi.Client) ToolDefinition {
	return ToolDefinition{
		Name: "CreateCampaign",
		Description: "Creates a paused Facebook ad campaign with the given name, objective and daily budget. " +
			"The budget is a number in the account currency, without symbols required.",
		InputSchema: CreateCampaignInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in CreateCampaignInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", faults.Validation("CreateCampaign", "bad arguments: %v", err)
			}
			if strings.TrimSpace(in.Name) == "" {
				return "", faults.Validation("CreateCampaign", "name must not be empty")
			}
			if strings.TrimSpace(in.Objective) == "" {
				return "", faults.Validation("CreateCampaign", "objective must not be empty")
			}
			cents := in.Budget.Cents()
			if cents < minDailyBudgetCents {
				return "", faults.Validation("CreateCampaign",
					"daily budget must be at least $%.2f, got $%.2f", float64(minDailyBudgetCents)/100, float64(in.Budget))
			}

			res, err := api.CreateCampaign(ctx, in.Name, in.Objective, cents)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Campaign '%s' created with ID: %s.", in.Name, res.CampaignID), nil
		},
	}
}
