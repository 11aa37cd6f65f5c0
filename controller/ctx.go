package controller

import (
	"github.com/go-xorm/xorm"
	"github.com/kataras/iris/v12"

	"paket.global/funder-go/config"
	"paket.global/funder-go/db"
	"paket.global/funder-go/kyc"
	"paket.global/funder-go/oracle"
	"paket.global/funder-go/stellar"
)

//GetPQ pulls the xorm engine injected by the db middleware
func GetPQ(ctx iris.Context) *xorm.Engine {
	return ctx.Values().Get(config.PQIrisIDKey).(*xorm.Engine)
}

//GetPrices pulls the price source
func GetPrices(ctx iris.Context) oracle.PriceSource {
	return ctx.Values().Get(config.PricesIrisKey).(oracle.PriceSource)
}

//GetNonces pulls the nonce tracker
func GetNonces(ctx iris.Context) *db.NonceLocks {
	return ctx.Values().Get(config.NoncesIrisKey).(*db.NonceLocks)
}

//GetBridge pulls the ledger submission client
func GetBridge(ctx iris.Context) stellar.Driver {
	return ctx.Values().Get(config.BridgeIrisKey).(stellar.Driver)
}

//GetKYC pulls the screening list checker
func GetKYC(ctx iris.Context) *kyc.CSLChecker {
	return ctx.Values().Get(config.KYCIrisKey).(*kyc.CSLChecker)
}

//GetAuthPubkey pulls the pubkey the auth middleware verified
func GetAuthPubkey(ctx iris.Context) string {
	return ctx.Values().GetString(config.AuthPubkeyKey)
}
