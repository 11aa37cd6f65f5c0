//Package stellar talks to the ledger submission bridge. Transaction
//building and submission stay on the bridge side; this client only carries
//the three operations the reconciliation passes need, plus deposit address
//allocation, and decodes the bridge's failure codes into typed errors.
package stellar

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"paket.global/funder-go/config"
	"paket.global/funder-go/util"
)

//TrustError means the recipient's trust line is missing or too small
type TrustError struct {
	Pubkey  string
	Message string
}

func (e *TrustError) Error() string {
	return fmt.Sprintf("trust line of %s: %s", e.Pubkey, e.Message)
}

//AccountNotExistError means the recipient account is not on the network
type AccountNotExistError struct {
	Pubkey string
}

func (e *AccountNotExistError) Error() string {
	return fmt.Sprintf("account %s does not exist", e.Pubkey)
}

//Account is the bridge's view of a recipient
type Account struct {
	BULBalance int64 `json:"bulBalance"`
	BULLimit   int64 `json:"bulLimit"`
	Trusted    bool  `json:"trusted"`
}

//Driver is what the reconciliation passes consume
type Driver interface {
	BULAccount(pubkey string) (*Account, error)
	CreateAccount(dest string, stroops int64) error
	Send(dest string, stroops int64, asset string) error
	NewPaymentAddress(currency string) (string, error)
}

//Bridge is the http implementation of Driver
type Bridge struct {
	client *http.Client
	url    string
	seed   string
}

//NewBridge .
func NewBridge() *Bridge {
	return &Bridge{
		client: &http.Client{Timeout: time.Duration(config.Public.Bridge.TimeoutS) * time.Second},
		url:    config.Public.Bridge.URL,
		seed:   config.FunderSeed,
	}
}

type bridgeRes struct {
	Status  int      `json:"status"`
	Error   string   `json:"error"`
	Code    string   `json:"code"` //trust | no_account, empty on success
	Account *Account `json:"account,omitempty"`
	Address string   `json:"address,omitempty"`
}

//call posts a form to the bridge and maps failure codes to typed errors
func (b *Bridge) call(path, pubkey string, params url.Values) (*bridgeRes, error) {
	resp, err := b.client.PostForm(b.url+path, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	res := bridgeRes{}
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("bridge %s: unparsable response %s", path, util.BytesToString(body))
	}
	if res.Status >= 400 {
		switch res.Code {
		case "trust":
			return nil, &TrustError{Pubkey: pubkey, Message: res.Error}
		case "no_account":
			return nil, &AccountNotExistError{Pubkey: pubkey}
		}
		return nil, fmt.Errorf("bridge %s: %s", path, res.Error)
	}
	return &res, nil
}

//BULAccount fetches the recipient's BUL balance, limit and trust state
func (b *Bridge) BULAccount(pubkey string) (*Account, error) {
	res, err := b.call("/v1/bul_account", pubkey, url.Values{"pubkey": {pubkey}})
	if err != nil {
		return nil, err
	}
	return res.Account, nil
}

//CreateAccount creates dest on the network funded with stroops of XLM
func (b *Bridge) CreateAccount(dest string, stroops int64) error {
	_, err := b.call("/v1/create_account", dest, url.Values{
		"destination": {dest},
		"stroops":     {strconv.FormatInt(stroops, 10)},
		"seed":        {b.seed},
	})
	return err
}

//Send pays dest stroops of XLM or BUL from the funder account
func (b *Bridge) Send(dest string, stroops int64, asset string) error {
	_, err := b.call("/v1/send", dest, url.Values{
		"destination": {dest},
		"stroops":     {strconv.FormatInt(stroops, 10)},
		"asset":       {asset},
		"seed":        {b.seed},
	})
	return err
}

//NewPaymentAddress allocates a fresh BTC or ETH deposit address from the
//payment wallet
func (b *Bridge) NewPaymentAddress(currency string) (string, error) {
	res, err := b.call("/v1/payment_address", "", url.Values{"currency": {currency}})
	if err != nil {
		return "", err
	}
	return res.Address, nil
}
