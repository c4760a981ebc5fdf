package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/amirasaad/onramp/infra/provider/client"
	"github.com/amirasaad/onramp/pkg/signing"
)

const (
	apiPrefix       = "/gateway-api/v1/public/open-api/connect"
	networkListPath = apiPrefix + "/get-crypto-network-list"
	tradePairPath   = apiPrefix + "/get-trade-pair-list"
	checkIPPath     = apiPrefix + "/check-ip-address"
)

var errAPI = errors.New("binance connect api error")

type envelope[T any] struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
}

// cryptoNetwork is one entry of the network list. Withdrawal metadata in the
// same payload is not decoded; fees come from the configured percentage.
type cryptoNetwork struct {
	CryptoCurrency string `json:"cryptoCurrency"`
	Network        string `json:"network"`
}

type tradePair struct {
	FiatCurrency   string  `json:"fiatCurrency"`
	CryptoCurrency string  `json:"cryptoCurrency"`
	PaymentMethod  string  `json:"paymentMethod"`
	Size           float64 `json:"size"`
	Quotation      float64 `json:"quotation"`
	MinLimit       float64 `json:"minLimit"`
	MaxLimit       float64 `json:"maxLimit"`
}

type checkIPRequest struct {
	ClientUserIP string `json:"clientUserIp"`
}

type checkIPResult struct {
	Status string `json:"status"`
}

// canonicalString is the string signed for API calls: the payload, then the
// merchant code and timestamp.
func canonicalString(payload, merchantCode string, timestamp int64) string {
	suffix := "merchantCode=" + merchantCode + "&timestamp=" + strconv.FormatInt(timestamp, 10)
	if payload == "" {
		return suffix
	}
	return payload + "&" + suffix
}

func (p *Provider) headers(payload string) (http.Header, error) {
	ts := p.now().UnixMilli()
	sig, err := signing.SignString(p.signer, canonicalString(payload, p.cfg.MerchantCode, ts))
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("merchantCode", p.cfg.MerchantCode)
	h.Set("timestamp", strconv.FormatInt(ts, 10))
	h.Set("x-api-signature", sig)
	return h, nil
}

// call issues a signed request and unwraps the response envelope into out.
func call[T any](ctx context.Context, p *Provider, method, path string, body any, out *T) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}
	header, err := p.headers(string(payload))
	if err != nil {
		return err
	}

	var env envelope[T]
	req := client.Request{Method: method, Path: path, Header: header, Body: payload}
	if err := p.client.Do(ctx, req, &env); err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("%w: %s %s", errAPI, env.Code, env.Message)
	}
	*out = env.Data
	return nil
}

func (p *Provider) networkList(ctx context.Context) ([]cryptoNetwork, error) {
	var out []cryptoNetwork
	err := call(ctx, p, http.MethodGet, networkListPath, nil, &out)
	return out, err
}

func (p *Provider) tradePairs(ctx context.Context) ([]tradePair, error) {
	var out []tradePair
	err := call(ctx, p, http.MethodGet, tradePairPath, nil, &out)
	return out, err
}

// CheckIP asks Binance Connect whether ip may use the service.
func (p *Provider) CheckIP(ctx context.Context, ip string) (bool, error) {
	var out checkIPResult
	if err := call(ctx, p, http.MethodPost, checkIPPath, checkIPRequest{ClientUserIP: ip}, &out); err != nil {
		return false, err
	}
	return out.Status == "pass", nil
}
