package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/adsapi"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/faults"
)

type GetPostsInput struct {
	Since string `json:"since" jsonschema_description:"Start of the range as an ISO date (2024-01-01) or RFC3339 timestamp."`
	Until string `json:"until" jsonschema_description:"End of the range as an ISO date (2024-01-31) or RFC3339 timestamp."`
}

var GetPostsInputSchema = GenerateSchema[GetPostsInput]()

// NewGetPosts returns the GetPosts action bound to an ads API client and a
// page. The result is either a JSON array of posts (id, created_time,
// excerpt, optional media/permalink) or a plain no-posts sentence.
func NewGetPosts(api *adsapi.Client, pageID string) ToolDefinition {
	return ToolDefinition{
		Name: "GetPosts",
		Description: "Retrieves posts from the Facebook Page for the given time range. " +
			"Returns a JSON array of posts with id, created_time and a short excerpt.",
		InputSchema: GetPostsInputSchema,
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in GetPostsInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", faults.Validation("GetPosts", "bad arguments: %v", err)
			}
			since, err := parseFlexibleTime(in.Since)
			if err != nil {
				return "", faults.Validation("GetPosts", "invalid since %q: %v", in.Since, err)
			}
			until, err := parseFlexibleTime(in.Until)
			if err != nil {
				return "", faults.Validation("GetPosts", "invalid until %q: %v", in.Until, err)
			}
			if until.Before(since) {
				return "", faults.Validation("GetPosts", "until (%s) is before since (%s)", in.Until, in.Since)
			}

			posts, err := api.FetchPosts(ctx, pageID, since, until)
			if err != nil {
				return "", err
			}
			if len(posts) == 0 {
				return fmt.Sprintf("No posts found from %s to %s.", in.Since, in.Until), nil
			}
			b, err := json.Marshal(posts)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}

// parseFlexibleTime accepts a bare ISO date or a full RFC3339 timestamp.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
