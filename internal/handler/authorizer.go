package handler

import "github.com/aws/aws-lambda-go/events"

// DefaultUsernameClaim is the claim a Cognito user-pool authorizer puts the username in.
const DefaultUsernameClaim = "cognito:username"

// hasAuthorizer reports whether the gateway attached an authorizer context.
// An empty context still counts; the missing claims surface later.
func hasAuthorizer(req events.APIGatewayProxyRequest) bool {
	return req.RequestContext.Authorizer != nil
}

// claimString returns claims[key] from the authorizer context, or "" when
// the claims or the key are missing or not a string.
func claimString(req events.APIGatewayProxyRequest, key string) string {
	claims, ok := req.RequestContext.Authorizer["claims"].(map[string]any)
	if !ok {
		return ""
	}
	value, _ := claims[key].(string)
	return value
}
