package mtpelerin

import (
	"bytes"
	"encoding/json"
	"strconv"
)

const (
	forbiddenCountriesPath = "/countries/forbidden"
	tokensPath             = "/currencies/tokens"
	convertPath            = "/currency_rates/convert"

	fiatNetwork = "fiat"
)

type token struct {
	Symbol  string `json:"symbol"`
	Network string `json:"network"`
	Address string `json:"address"`
}

type convertRequest struct {
	SourceCurrency string  `json:"sourceCurrency"`
	SourceNetwork  string  `json:"sourceNetwork"`
	SourceAmount   float64 `json:"sourceAmount"`
	DestCurrency   string  `json:"destCurrency"`
	DestNetwork    string  `json:"destNetwork"`
	IsCardPayment  bool    `json:"isCardPayment"`
}

type fees struct {
	NetworkFee number `json:"networkFee"`
	FixFee     number `json:"fixFee"`
}

type convertResponse struct {
	SourceAmount number `json:"sourceAmount"`
	DestAmount   number `json:"destAmount"`
	Fees         fees   `json:"fees"`
}

// number decodes amounts the API sends either as JSON numbers or as strings.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = number(v)
	return nil
}

var _ json.Unmarshaler = (*number)(nil)
