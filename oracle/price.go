package oracle

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"paket.global/funder-go/config"
	"paket.global/funder-go/util"
)

//currency ids on the market api
const (
	BTCID = 1
	ETHID = 1027
	XLMID = 512
)

//PriceSource quotes the EUR price of one divisible unit of a currency as a
//decimal string. Strings, not floats: the fractional digit count of the
//quote drives the fixed-point conversion.
type PriceSource interface {
	Price(currency string) (string, error)
}

//Market caches quotes from a coinmarketcap style ticker. BUL has no market,
//its price is operator-maintained config. Refresh is run from a cron job;
//a cache miss falls back to a direct fetch.
type Market struct {
	client *http.Client
	mu     sync.RWMutex
	quotes map[string]string
}

//NewMarket .
func NewMarket() *Market {
	return &Market{
		client: &http.Client{Timeout: time.Duration(config.Public.Oracle.TimeoutS) * time.Second},
		quotes: make(map[string]string),
	}
}

func currencyID(currency string) (int, error) {
	switch currency {
	case "BTC":
		return BTCID, nil
	case "ETH":
		return ETHID, nil
	case "XLM":
		return XLMID, nil
	}
	return 0, fmt.Errorf("no market id for currency %s", currency)
}

//Price returns the cached EUR quote for a currency, fetching on a miss
func (m *Market) Price(currency string) (string, error) {
	if currency == "BUL" {
		return config.Public.Pay.BULPrice, nil
	}
	m.mu.RLock()
	quote, ok := m.quotes[currency]
	m.mu.RUnlock()
	if ok {
		return quote, nil
	}
	return m.fetch(currency)
}

//Refresh updates the cached quotes, keeping stale ones on failure
func (m *Market) Refresh() {
	for _, currency := range []string{"BTC", "ETH", "XLM"} {
		if _, err := m.fetch(currency); err != nil {
			util.LogWarn("cannot refresh %s price: %v", currency, err)
		}
	}
}

//fetch asks the ticker and caches the result. The api serves the price as a
//json float; it is decoded as json.Number and kept as a string so no digit
//is lost to float64.
func (m *Market) fetch(currency string) (string, error) {
	id, err := currencyID(currency)
	if err != nil {
		return "", err
	}
	resp, err := m.client.Get(fmt.Sprintf(config.Public.Oracle.MarketAPI, id, "EUR"))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	res := struct {
		Data struct {
			Quotes map[string]struct {
				Price json.Number `json:"price"`
			} `json:"quotes"`
		} `json:"data"`
	}{}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err = decoder.Decode(&res); err != nil {
		return "", err
	}
	eur, ok := res.Data.Quotes["EUR"]
	if !ok {
		return "", fmt.Errorf("no EUR quote for %s", currency)
	}
	quote := eur.Price.String()
	m.mu.Lock()
	m.quotes[currency] = quote
	m.mu.Unlock()
	return quote, nil
}
