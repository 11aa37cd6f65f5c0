package oracle

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"paket.global/funder-go/config"
)

//BalanceError is the single taxonomy every provider failure is normalized
//into. Transient by nature, the caller retries on its next pass.
type BalanceError struct {
	Provider string
	Message  string
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("%s balance lookup failed: %s", e.Provider, e.Message)
}

//BalanceSource looks up the confirmed balance of a deposit address in the
//currency's indivisible units. Lookups are idempotent and side effect free.
type BalanceSource interface {
	Balance(address, currency string) (*big.Int, error)
}

//Explorer queries the configured BTC and ETH chain explorers
type Explorer struct {
	client *http.Client
	btcAPI string
	ethAPI string
	ethKey string
}

//NewExplorer .
func NewExplorer() *Explorer {
	return &Explorer{
		client: &http.Client{Timeout: time.Duration(config.Public.Oracle.TimeoutS) * time.Second},
		btcAPI: config.Public.Oracle.BTCAPI,
		ethAPI: config.Public.Oracle.ETHAPI,
		ethKey: config.EtherscanKey,
	}
}

//Balance dispatches on the currency tag
func (ex *Explorer) Balance(address, currency string) (*big.Int, error) {
	switch currency {
	case "BTC":
		return ex.btcBalance(address)
	case "ETH":
		return ex.ethBalance(address)
	}
	return nil, fmt.Errorf("unknown payment currency %s", currency)
}

type btcRes struct {
	ErrNo  int    `json:"err_no"`
	ErrMsg string `json:"err_msg"`
	Data   *struct {
		Balance int64 `json:"balance"`
	} `json:"data"`
}

//btcBalance asks a btc.com style explorer. A null data object means the
//address has no transactions yet, which is a zero balance, not an error.
func (ex *Explorer) btcBalance(address string) (*big.Int, error) {
	resp, err := ex.client.Get(ex.btcAPI + "/address/" + address)
	if err != nil {
		return nil, &BalanceError{Provider: "btc", Message: err.Error()}
	}
	defer resp.Body.Close()
	res := btcRes{}
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, &BalanceError{Provider: "btc", Message: err.Error()}
	}
	if res.ErrNo != 0 {
		return nil, &BalanceError{Provider: "btc", Message: res.ErrMsg}
	}
	if res.Data == nil {
		return big.NewInt(0), nil
	}
	return big.NewInt(res.Data.Balance), nil
}

type ethRes struct {
	Message string `json:"message"`
	Result  string `json:"result"`
}

//ethBalance asks an etherscan style api. Balances are wei and can exceed
//64 bits, so the result string goes through big.Int.
func (ex *Explorer) ethBalance(address string) (*big.Int, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "balance")
	params.Set("address", address)
	params.Set("tag", "latest")
	params.Set("apikey", ex.ethKey)
	resp, err := ex.client.Get(ex.ethAPI + "?" + params.Encode())
	if err != nil {
		return nil, &BalanceError{Provider: "eth", Message: err.Error()}
	}
	defer resp.Body.Close()
	res := ethRes{}
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, &BalanceError{Provider: "eth", Message: err.Error()}
	}
	if res.Message != "OK" {
		return nil, &BalanceError{Provider: "eth", Message: res.Result}
	}
	balance, ok := new(big.Int).SetString(res.Result, 10)
	if !ok {
		return nil, &BalanceError{Provider: "eth", Message: "unparsable balance " + res.Result}
	}
	return balance, nil
}
