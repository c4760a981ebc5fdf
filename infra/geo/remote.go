package geo

import (
	"context"
	"net/url"

	"github.com/amirasaad/onramp/infra/provider/client"
)

// DefaultRemoteURL is the iplocation.net lookup endpoint.
const DefaultRemoteURL = "https://api.iplocation.net/"

type remoteResponse struct {
	IP           string `json:"ip"`
	CountryName  string `json:"country_name"`
	CountryCode2 string `json:"country_code2"`
}

// Remote asks an iplocation.net compatible API. The API answers "-" for
// addresses it does not know.
type Remote struct {
	client *client.Client
}

// NewRemote creates a Remote over c, whose base URL points at the API.
func NewRemote(c *client.Client) *Remote {
	return &Remote{client: c}
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Lookup(ctx context.Context, ip string) (string, error) {
	var resp remoteResponse
	if err := r.client.GetJSON(ctx, "/", url.Values{"ip": {ip}}, nil, &resp); err != nil {
		return "", err
	}
	return resp.CountryCode2, nil
}
