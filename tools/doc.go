// Package tools defines the assistant's action contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Ads actions: GetPosts, CreateCampaign, BoostPosts.
//   - Invariants: handlers validate and coerce their own arguments; currency
//     amounts are converted to integer minor units before leaving the package.
package tools
