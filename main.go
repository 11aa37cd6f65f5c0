package main //funding server for the PaKeT project

import (
	"fmt"
	"log"
	"time"

	"github.com/didip/tollbooth"
	"github.com/go-xorm/xorm"
	"github.com/gogf/gf/os/gtimer"
	"github.com/iris-contrib/middleware/cors"
	"github.com/iris-contrib/middleware/tollboothic"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/context"
	"github.com/kataras/iris/v12/hero"
	"github.com/kataras/iris/v12/middleware/recover"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	"paket.global/funder-go/config"
	"paket.global/funder-go/controller"
	"paket.global/funder-go/db"
	"paket.global/funder-go/kyc"
	"paket.global/funder-go/model"
	"paket.global/funder-go/oracle"
	"paket.global/funder-go/routine"
	"paket.global/funder-go/stellar"
	"paket.global/funder-go/util"
)

var (
	pq      *xorm.Engine
	market  *oracle.Market
	nonces  *db.NonceLocks
	bridge  stellar.Driver
	checker *kyc.CSLChecker
	runner  *routine.Runner
)

func main() {
	//-----init config-----
	config.Load()
	util.SetDebug(config.Public.Debug)

	//-----sync database schema-----
	var err error
	pq, err = xorm.NewEngine("postgres", config.PQInfo)
	if err != nil {
		log.Fatalf("[main]cannot open database: %v", err)
	}
	db.SyncDB(pq)

	//-----collaborators-----
	market = oracle.NewMarket()
	nonces = db.NewNonceLocks()
	bridge = stellar.NewBridge()
	checker, err = kyc.NewCSLChecker()
	if err != nil {
		log.Fatalf("[main]cannot load screening list: %v", err)
	}
	runner = &routine.Runner{
		Ledger:   &routine.PQLedger{PQ: pq},
		Balances: oracle.NewExplorer(),
		Prices:   market,
		Stellar:  bridge,
	}

	//-----bind models-----
	model.BindForm()

	//3 requests per second per client
	limiter := tollbooth.NewLimiter(3, nil)

	//-----scheduled jobs-----
	startTimer()
	jobNonceSweep()

	//-----routes-----
	app := iris.New()
	app.Use(recover.New())
	app.Use(depsHandler)
	app.Use(tollboothic.LimitHandler(limiter))

	//custom route macro
	app.Macros().Get("string").RegisterFunc("range", func(minLength, maxLength int) func(string) bool {
		return func(paramValue string) bool {
			return len(paramValue) >= minLength && len(paramValue) <= maxLength
		}
	})

	crs := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	v1 := app.Party("/v"+config.APIVersion, crs).AllowMethods(iris.MethodOptions)
	{
		v1.Post("/get_user", hero.Handler(controller.GetUser))
		v1.Get("/avatar/{pubkey:string range(1,64) else 400}", controller.Avatar)
		//signed endpoints
		v1.Post("/create_user", controller.Auth, hero.Handler(controller.CreateUser))
		v1.Post("/user_infos", controller.Auth, hero.Handler(controller.UserInfos))
		v1.Post("/purchase_bul", controller.Auth, hero.Handler(controller.PurchaseBUL))
		v1.Post("/purchase_xlm", controller.Auth, hero.Handler(controller.PurchaseXLM))
		if config.Public.Debug {
			v1.Get("/debug/users", controller.Users)
		}
	}

	//authentication failed
	app.OnErrorCode(iris.StatusUnauthorized, func(ctx context.Context) {
		var e = new(model.CommonError)
		e.FinalError(ctx, iris.StatusUnauthorized, config.Public.Err.E1010)
	})
	//no such route
	app.OnErrorCode(iris.StatusNotFound, func(ctx context.Context) {
		var e = new(model.CommonError)
		e.FinalError(ctx, iris.StatusNotFound, config.Public.Err.E1011)
	})

	app.Run(iris.Addr(config.Public.Listen))
}

//-----middleware-----
func depsHandler(ctx context.Context) {
	ctx.Values().Set(config.PQIrisIDKey, pq)
	ctx.Values().Set(config.PricesIrisKey, market)
	ctx.Values().Set(config.NoncesIrisKey, nonces)
	ctx.Values().Set(config.BridgeIrisKey, bridge)
	ctx.Values().Set(config.KYCIrisKey, checker)
	ctx.Next()
}

//-----scheduled jobs-----
func startTimer() {
	c := cron.New()

	//refresh prices at start, then every 5 minutes
	job1 := jobPrices{}
	job1.Run()
	c.AddJob("@every 5m", job1)
	//reconciliation passes; also runnable standalone via cmd/routines
	c.AddJob("@every 2m", jobMonitor{})
	c.AddJob("@every 2m", jobPay{})
	c.AddJob("@every 1h", jobFund{})

	c.Start()
}

type jobPrices struct{}

func (jobPrices) Run() {
	fmt.Println("[timer]Running prices refresh...")
	market.Refresh()
}

type jobMonitor struct{}

func (jobMonitor) Run() {
	runner.CheckPurchasesAddresses()
}

type jobPay struct{}

func (jobPay) Run() {
	runner.SendRequestedCurrency()
}

type jobFund struct{}

func (jobFund) Run() {
	runner.FundNewAccounts()
}

//jobNonceSweep drops nonce entries idle for over an hour
func jobNonceSweep() {
	gtimer.Add(time.Minute, func() {
		nonces.Sweep(time.Now().Add(-time.Hour).Unix())
	})
}
