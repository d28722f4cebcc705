package adsapi

import "context"

// PageToken is one managed page with its long-lived page access token.
type PageToken struct {
	PageID      string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

// ExchangeLongLivedPageTokens exchanges a short-lived user token for a
// long-lived one and returns the long-lived page tokens of every page the
// user manages. Standalone credential-bootstrapping helper; it does not use
// the client's configured token.
func (c *Client) ExchangeLongLivedPageTokens(ctx context.Context, appID, appSecret, shortLivedUserToken string) ([]PageToken, error) {
	const op = "adsapi.ExchangeLongLivedPageTokens"

	var (
		exchanged struct {
			AccessToken string `json:"access_token"`
		}
		apiErr graphError
	)
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"grant_type":        "fb_exchange_token",
			"client_id":         appID,
			"client_secret":     appSecret,
			"fb_exchange_token": shortLivedUserToken,
		}).
		SetResult(&exchanged).
		SetError(&apiErr).
		Get("/oauth/access_token")
	if cerr := checkResponse(op, res, err, &apiErr); cerr != nil {
		return nil, cerr
	}

	var (
		pages struct {
			Data []PageToken `json:"data"`
		}
		listErr graphError
	)
	res, err = c.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", exchanged.AccessToken).
		SetResult(&pages).
		SetError(&listErr).
		Get("/me/accounts")
	if cerr := checkResponse(op, res, err, &listErr); cerr != nil {
		return nil, cerr
	}
	return pages.Data, nil
}
