package main //reconciliation passes as one-shot batch jobs, cron friendly

import (
	"fmt"
	"log"
	"os"

	"github.com/go-xorm/xorm"
	_ "github.com/lib/pq"

	"paket.global/funder-go/config"
	"paket.global/funder-go/oracle"
	"paket.global/funder-go/routine"
	"paket.global/funder-go/stellar"
	"paket.global/funder-go/util"
)

func usage() {
	fmt.Println("Usage: routines [monitor|pay|fund]")
	fmt.Println("  monitor  mark unpaid purchases paid when their deposit address holds enough")
	fmt.Println("  pay      release the requested currency for paid purchases")
	fmt.Println("  fund     fund newly verified accounts up to the platform spend caps")
}

func main() {
	if len(os.Args) != 2 {
		usage()
		os.Exit(1)
	}

	config.Load()
	util.SetDebug(config.Public.Debug)

	pq, err := xorm.NewEngine("postgres", config.PQInfo)
	if err != nil {
		log.Fatalf("[routines]cannot open database: %v", err)
	}
	defer pq.Close()

	runner := &routine.Runner{
		Ledger:   &routine.PQLedger{PQ: pq},
		Balances: oracle.NewExplorer(),
		Prices:   oracle.NewMarket(),
		Stellar:  stellar.NewBridge(),
	}

	switch os.Args[1] {
	case "monitor":
		runner.CheckPurchasesAddresses()
	case "pay":
		runner.SendRequestedCurrency()
	case "fund":
		runner.FundNewAccounts()
	default:
		usage()
		os.Exit(1)
	}
}
