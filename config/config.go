package config

import (
	"io/ioutil"
	"log"
	"os"

	"github.com/kezhuw/toml"
)

//iris ctx value keys
const (
	PQIrisIDKey     = "funder-pq"
	PricesIrisKey   = "funder-prices"
	NoncesIrisKey   = "funder-nonces"
	BridgeIrisKey   = "funder-bridge"
	KYCIrisKey      = "funder-kyc"
	AuthPubkeyKey   = "funder-auth-pubkey"
	APIVersion      = "1"
	BasicTestName   = "basic"
	ConfFile        = "config.toml"
	EnvConfFile     = "FUNDER_CONFIG"
	EnvPQInfo       = "FUNDER_PQ_INFO"
	EnvFunderSeed   = "FUNDER_SEED"
	EnvEtherscanKey = "FUNDER_ETHERSCAN_API_KEY"
)

var (
	//Public holds everything read from config.toml
	Public public
	//PQInfo postgres connection string, secret, from env
	PQInfo string
	//FunderSeed seed of the funding account, secret, from env, forwarded to the bridge
	FunderSeed string
	//EtherscanKey etherscan api key, secret, from env
	EtherscanKey string
)

type public struct {
	Debug  bool
	Listen string
	Fund   fund
	Pay    pay
	Oracle oracleConf
	Bridge bridge
	KYC    kycConf
	Err    errs
}

type fund struct {
	HourlyLimit    int64 //platform-wide funding cap per hour, euro cents
	DailyLimit     int64 //platform-wide funding cap per day, euro cents
	EURXLMStarting int64 //starting balance of a new account, euro cents worth of XLM
	EURBULStarting int64 //starting balance of a new account, euro cents worth of BUL
}

type pay struct {
	MinimumPayment        int64  //euro cents an address must hold before a purchase counts as paid
	BasicMonthlyAllowance int64  //euro cents per trailing 30 days for users that passed the basic test
	BULPrice              string //price of 1 BUL in EUR, decimal string, maintained by the operator
}

type oracleConf struct {
	BTCAPI    string //btc.com style explorer root
	ETHAPI    string //etherscan style api root
	MarketAPI string //coinmarketcap style ticker url format, expects currency id and fiat code
	TimeoutS  int    //per call timeout, seconds
}

type bridge struct {
	URL      string //ledger submission collaborator root
	TimeoutS int
}

type kycConf struct {
	CSLFile   string  //local cache of the consolidated screening list
	CSLURL    string  //download url
	MaxAgeH   int     //redownload the list when the local copy is older than this
	Threshold float64 //name score above this fails the basic test
}

type errs struct {
	E1000 string //request body unreadable
	E1001 string //field validation failed
	E1002 string //string normalization failed
	E1004 string //database error
	E1010 string //authentication failed
	E1011 string //no such route
	E1016 string //unknown user
	E1017 string //user already exists
	E1018 string //monthly allowance exceeded
	E1019 string //payment currency must be BTC or ETH
	E1020 string //requested currency must be BUL or XLM
	E1021 string //invalid phone number
	E1022 string //payment address allocation failed
}

//Load reads config.toml (path overridable via FUNDER_CONFIG) and the secret env vars.
//Must be called once before anything else.
func Load() {
	path := os.Getenv(EnvConfFile)
	if path == "" {
		path = ConfFile
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatalf("[config]cannot read %s: %v", path, err)
	}
	if err = toml.Unmarshal(data, &Public); err != nil {
		log.Fatalf("[config]cannot parse %s: %v", path, err)
	}
	PQInfo = os.Getenv(EnvPQInfo)
	FunderSeed = os.Getenv(EnvFunderSeed)
	EtherscanKey = os.Getenv(EnvEtherscanKey)
	if PQInfo == "" {
		log.Fatalf("[config]%s is not set", EnvPQInfo)
	}
}
