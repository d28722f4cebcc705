package adsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// objectiveAliases maps user-facing objective words onto the outcome-driven
// objective enums the Marketing API accepts.
var objectiveAliases = map[string]string{
	"engagement":      "OUTCOME_ENGAGEMENT",
	"post_engagement": "OUTCOME_ENGAGEMENT",
	"leads":           "OUTCOME_LEADS",
	"lead_generation": "OUTCOME_LEADS",
	"conversions":     "OUTCOME_SALES",
	"sales":           "OUTCOME_SALES",
	"traffic":         "OUTCOME_TRAFFIC",
	"link_clicks":     "OUTCOME_TRAFFIC",
	"awareness":       "OUTCOME_AWARENESS",
	"brand_awareness": "OUTCOME_AWARENESS",
	"app_promotion":   "OUTCOME_APP_PROMOTION",
	"app promotion":   "OUTCOME_APP_PROMOTION",
}

// NormalizeObjective resolves a friendly objective name to its API enum.
// Unrecognized values pass through upper-cased so already-valid enums work.
func NormalizeObjective(objective string) string {
	if v, ok := objectiveAliases[strings.ToLower(strings.TrimSpace(objective))]; ok {
		return v
	}
	return strings.ToUpper(strings.TrimSpace(objective))
}

type createdObject struct {
	ID string `json:"id"`
}

// CampaignResult reports a newly created campaign.
type CampaignResult struct {
	CampaignID string `json:"campaign_id"`
}

// CreateCampaign creates a PAUSED campaign with a campaign-level daily
// budget expressed in minor units (cents).
func (c *Client) CreateCampaign(ctx context.Context, name, objective string, dailyBudgetCents int) (CampaignResult, error) {
	const op = "adsapi.CreateCampaign"

	var (
		created createdObject
		apiErr  graphError
	)
	res, err := c.req(ctx).
		SetFormData(map[string]string{
			"name":                  name,
			"objective":             NormalizeObjective(objective),
			"status":                "PAUSED",
			"daily_budget":          strconv.Itoa(dailyBudgetCents),
			"special_ad_categories": "[]",
		}).
		SetResult(&created).
		SetError(&apiErr).
		Post(c.accountPath("campaigns"))
	if cerr := checkResponse(op, res, err, &apiErr); cerr != nil {
		return CampaignResult{}, cerr
	}
	return CampaignResult{CampaignID: created.ID}, nil
}

// CreateAdSet creates one PAUSED ad set under campaignID. Budget lives at
// the campaign level, so none is set here.
func (c *Client) CreateAdSet(ctx context.Context, campaignID, optimizationGoal string, bidCents int, countryCodes []string) (string, error) {
	const op = "adsapi.CreateAdSet"

	targeting, err := json.Marshal(map[string]any{
		"geo_locations": map[string]any{"countries": countryCodes},
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal targeting: %w", op, err)
	}

	var (
		created createdObject
		apiErr  graphError
	)
	res, rerr := c.req(ctx).
		SetFormData(map[string]string{
			"name":              fmt.Sprintf("AdSet for campaign %s", campaignID),
			"campaign_id":       campaignID,
			"billing_event":     "IMPRESSIONS",
			"optimization_goal": optimizationGoal,
			"bid_amount":        strconv.Itoa(bidCents),
			"targeting":         string(targeting),
			"status":            "PAUSED",
		}).
		SetResult(&created).
		SetError(&apiErr).
		Post(c.accountPath("adsets"))
	if cerr := checkResponse(op, res, rerr, &apiErr); cerr != nil {
		return "", cerr
	}
	return created.ID, nil
}

// BoostResult reports the ad set and ads created by BoostPosts.
type BoostResult struct {
	AdSetID string   `json:"ad_set_id"`
	AdIDs   []string `json:"ad_ids"`
}

// BoostPosts creates one ad set under campaignID and, for each post, an ad
// creative wrapping the post plus a PAUSED ad delivering it. Creation is
// not transactional: a mid-sequence failure returns the error with whatever
// was already created left in place (paused, so inert).
func (c *Client) BoostPosts(ctx context.Context, campaignID string, postIDs []string, optimizationGoal string, bidCents int, countryCodes []string) (BoostResult, error) {
	const op = "adsapi.BoostPosts"

	adSetID, err := c.CreateAdSet(ctx, campaignID, optimizationGoal, bidCents, countryCodes)
	if err != nil {
		return BoostResult{}, err
	}

	adIDs := make([]string, 0, len(postIDs))
	for _, pid := range postIDs {
		var (
			creative createdObject
			apiErr   graphError
		)
		res, rerr := c.req(ctx).
			SetFormData(map[string]string{
				"name":            fmt.Sprintf("Creative for post %s", pid),
				"object_story_id": pid,
			}).
			SetResult(&creative).
			SetError(&apiErr).
			Post(c.accountPath("adcreatives"))
		if cerr := checkResponse(op, res, rerr, &apiErr); cerr != nil {
			return BoostResult{}, cerr
		}

		creativeSpec, merr := json.Marshal(map[string]string{"creative_id": creative.ID})
		if merr != nil {
			return BoostResult{}, fmt.Errorf("%s: marshal creative spec: %w", op, merr)
		}

		var (
			ad        createdObject
			adPostErr graphError
		)
		res, rerr = c.req(ctx).
			SetFormData(map[string]string{
				"name":     fmt.Sprintf("Ad for post %s", pid),
				"adset_id": adSetID,
				"creative": string(creativeSpec),
				"status":   "PAUSED",
			}).
			SetResult(&ad).
			SetError(&adPostErr).
			Post(c.accountPath("ads"))
		if cerr := checkResponse(op, res, rerr, &adPostErr); cerr != nil {
			return BoostResult{}, cerr
		}
		adIDs = append(adIDs, ad.ID)
	}
	return BoostResult{AdSetID: adSetID, AdIDs: adIDs}, nil
}
