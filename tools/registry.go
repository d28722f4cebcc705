package tools

import "github.com/kartik-syal/facebook-ads-ai-assistant/internal/adsapi"

// Registry returns all action definitions wired for the assistant, each a
// closure over the shared ads API client.
func Registry(api *adsapi.Client, pageID string) []ToolDefinition {
	return []ToolDefinition{
		NewGetPosts(api, pageID),
		NewCreateCampaign(api),
		NewBoostPosts(api),
	}
}
