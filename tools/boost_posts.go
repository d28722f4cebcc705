package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/adsapi"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/faults"
)

type BoostPostsInput struct {
	CampaignID       string      `json:"campaign_id" jsonschema_description:"ID of an existing campaign to boost under."`
	PostIDs          []string    `json:"post_ids" jsonschema_description:"IDs of the page posts to boost."`
	OptimizationGoal string      `json:"optimization_goal,omitempty" jsonschema_description:"Ad set optimization goal, e.g. POST_ENGAGEMENT or LINK_CLICKS. Defaults to POST_ENGAGEMENT."`
	BidAmount        MoneyAmount `json:"bid_amount" jsonschema_description:"Bid in the account currency (major units), e.g. 1 or \"$0.50\"."`
	GeoLocations     []string    `json:"geo_locations,omitempty" jsonschema_description:"Two-letter target country codes. Defaults to [\"US\"]."`
}

var BoostPostsInputSchema = GenerateSchema[BoostPostsInput]()

const defaultOptimizationGoal = "POST_ENGAGEMENT"

// NewBoostPosts returns the BoostPosts action bound to an ads API client.
// One paused ad set is created under the campaign, with one creative and ad
// per post.
func NewBoostPosts(api *adsapi.Client) ToolDefinition {
	return ToolDefinition{
		Name: "BoostPosts",
		Description: "Boosts the given page posts under an existing campaign by creating one ad set " +
			"and one paused ad per post.",
		InputSchema: BoostPostsInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in BoostPostsInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", faults.Validation("BoostPosts", "bad arguments: %v", err)
			}
			if strings.TrimSpace(in.CampaignID) == "" {
				return "", faults.Validation("BoostPosts", "campaign_id must not be empty")
			}
			if len(in.PostIDs) == 0 {
				return "", faults.Validation("BoostPosts", "post_ids must not be empty")
			}
			bidCents := in.BidAmount.Cents()
			if bidCents <= 0 {
				return "", faults.Validation("BoostPosts", "bid_amount must be positive, got $%.2f", float64(in.BidAmount))
			}
			goal := strings.TrimSpace(in.OptimizationGoal)
			if goal == "" {
				goal = defaultOptimizationGoal
			}
			geos, err := normalizeCountryCodes(in.GeoLocations)
			if err != nil {
				return "", err
			}

			res, err := api.BoostPosts(ctx, in.CampaignID, in.PostIDs, goal, bidCents, geos)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Boosted %d posts under ad set %s. Ad IDs: %v", len(in.PostIDs), res.AdSetID, res.AdIDs), nil
		},
	}
}

// normalizeCountryCodes trims and upper-cases the codes, defaulting to US
// when none are given.
func normalizeCountryCodes(codes []string) ([]string, error) {
	if len(codes) == 0 {
		return []string{"US"}, nil
	}
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		cc := strings.ToUpper(strings.TrimSpace(c))
		if len(cc) != 2 {
			return nil, faults.Validation("BoostPosts", "invalid country code %q", c)
		}
		out = append(out, cc)
	}
	return out, nil
}
