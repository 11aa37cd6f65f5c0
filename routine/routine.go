//Package routine holds the reconciliation passes over the purchase ledger.
//Each pass is a short-lived batch job, safe to run on any schedule and to
//re-run after a crash: state transitions are committed per row, so a
//restarted pass picks up exactly the rows still in Unpaid or Paid.
package routine

import (
	"github.com/rs/xid"

	"paket.global/funder-go/config"
	"paket.global/funder-go/conversion"
	"paket.global/funder-go/db"
	"paket.global/funder-go/oracle"
	"paket.global/funder-go/stellar"
	"paket.global/funder-go/util"
)

//Ledger is the slice of the database the passes touch
type Ledger interface {
	PurchasesByStatus(status db.PaidStatus) ([]db.Purchase, error)
	Transition(paymentPubkey string, from, to db.PaidStatus, euroCents int64) (bool, error)
	MonthlyAllowance(pubkey string) (int64, error)
	MonthlyExpenses(pubkey string) (int64, error)
	UnfundedUsers() ([]db.User, error)
	RecordFunding(funding *db.Funding) error
	HourlySpentEuro() (int64, error)
	DailySpentEuro() (int64, error)
}

//Runner wires the passes to their collaborators
type Runner struct {
	Ledger   Ledger
	Balances oracle.BalanceSource
	Prices   oracle.PriceSource
	Stellar  stellar.Driver
}

//Decision is the allowance-capped outcome for a paid purchase
type Decision struct {
	Release int64 //euro cents to release
	Target  db.PaidStatus
}

//Decide caps the observed amount by the user's remaining monthly allowance.
//Pure: same inputs, same decision.
func Decide(observedCents, allowance, expenses int64) Decision {
	remaining := allowance - expenses
	if remaining <= 0 {
		return Decision{Release: 0, Target: db.StatusFailed}
	}
	if remaining >= observedCents {
		return Decision{Release: observedCents, Target: db.StatusFunded}
	}
	return Decision{Release: remaining, Target: db.StatusPartiallyFunded}
}

//CheckPurchasesAddresses is pass A: mark unpaid purchases paid once their
//deposit address holds at least the minimum payment, recording the observed
//euro cent value. A zero balance is not yet paid, not an error. Lookup and
//price failures leave the row untouched for the next pass.
func (r *Runner) CheckPurchasesAddresses() {
	run := xid.New().String()
	purchases, err := r.Ledger.PurchasesByStatus(db.StatusUnpaid)
	if err != nil {
		util.LogError("monitor %s: cannot load unpaid purchases: %v", run, err)
		return
	}
	for _, purchase := range purchases {
		util.LogInfo("monitor %s: checking address %s", run, purchase.PaymentPubkey)
		balance, err := r.Balances.Balance(purchase.PaymentPubkey, purchase.PaymentCurrency)
		if err != nil {
			util.LogWarn("monitor %s: %s: %v", run, purchase.PaymentPubkey, err)
			continue
		}
		if balance.Sign() == 0 {
			continue
		}
		price, err := r.Prices.Price(purchase.PaymentCurrency)
		if err != nil {
			util.LogWarn("monitor %s: no %s price: %v", run, purchase.PaymentCurrency, err)
			continue
		}
		cents, err := conversion.ToEuroCents(purchase.PaymentCurrency, balance, price)
		if err != nil {
			util.LogWarn("monitor %s: %s: %v", run, purchase.PaymentPubkey, err)
			continue
		}
		if cents < config.Public.Pay.MinimumPayment {
			continue
		}
		done, err := r.Ledger.Transition(purchase.PaymentPubkey, db.StatusUnpaid, db.StatusPaid, cents)
		if err != nil {
			util.LogError("monitor %s: %s: %v", run, purchase.PaymentPubkey, err)
			continue
		}
		if done {
			util.LogInfo("monitor %s: %s paid, observed %d euro cents", run, purchase.PaymentPubkey, cents)
		}
	}
}

//SendRequestedCurrency is pass B: release the requested currency for paid
//purchases, capped by the owner's remaining monthly allowance. One
//purchase's failure never aborts the batch.
func (r *Runner) SendRequestedCurrency() {
	run := xid.New().String()
	purchases, err := r.Ledger.PurchasesByStatus(db.StatusPaid)
	if err != nil {
		util.LogError("pay %s: cannot load paid purchases: %v", run, err)
		return
	}
	for _, purchase := range purchases {
		r.settle(run, purchase)
	}
}

//settle drives one paid purchase to its terminal state. Transient errors
//log and return with the row still Paid, to be retried next pass.
func (r *Runner) settle(run string, purchase db.Purchase) {
	//defensive re-check: a paid address whose balance vanished indicates a
	//reversed transaction, skip and log, never fund
	balance, err := r.Balances.Balance(purchase.PaymentPubkey, purchase.PaymentCurrency)
	if err != nil {
		util.LogWarn("pay %s: %s: %v", run, purchase.PaymentPubkey, err)
		return
	}
	if balance.Sign() == 0 {
		util.LogWarn("pay %s: paid address %s has zero balance, skipping", run, purchase.PaymentPubkey)
		return
	}

	allowance, err := r.Ledger.MonthlyAllowance(purchase.UserPubkey)
	if err != nil {
		util.LogError("pay %s: %s: %v", run, purchase.UserPubkey, err)
		return
	}
	expenses, err := r.Ledger.MonthlyExpenses(purchase.UserPubkey)
	if err != nil {
		util.LogError("pay %s: %s: %v", run, purchase.UserPubkey, err)
		return
	}
	decision := Decide(purchase.EuroCents, allowance, expenses)
	if decision.Target == db.StatusFailed {
		util.LogWarn("pay %s: allowance of %s exhausted (allowance %d, expenses %d)",
			run, purchase.UserPubkey, allowance, expenses)
		r.fail(run, purchase)
		return
	}

	price, err := r.Prices.Price(purchase.RequestedCurrency)
	if err != nil {
		util.LogWarn("pay %s: no %s price: %v", run, purchase.RequestedCurrency, err)
		return
	}
	stroops, err := conversion.ToStroops(decision.Release, price)
	if err != nil {
		util.LogError("pay %s: %s: %v", run, purchase.PaymentPubkey, err)
		return
	}

	if purchase.RequestedCurrency == "BUL" {
		r.sendBUL(run, purchase, decision, stroops)
		return
	}
	r.sendXLM(run, purchase, decision, stroops)
}

//sendBUL funds with BUL after verifying the trust line has room
func (r *Runner) sendBUL(run string, purchase db.Purchase, decision Decision, stroops int64) {
	account, err := r.Stellar.BULAccount(purchase.UserPubkey)
	if err != nil {
		r.submissionError(run, purchase, err)
		return
	}
	if account.BULBalance+stroops > account.BULLimit {
		util.LogError("pay %s: account %s needs a higher BUL limit. balance: %d limit: %d amount: %d",
			run, purchase.UserPubkey, account.BULBalance, account.BULLimit, stroops)
		r.fail(run, purchase)
		return
	}
	if err = r.Stellar.Send(purchase.UserPubkey, stroops, "BUL"); err != nil {
		r.submissionError(run, purchase, err)
		return
	}
	util.LogInfo("pay %s: %s funded with %d BUL stroops", run, purchase.UserPubkey, stroops)
	r.finish(run, purchase, decision)
}

//sendXLM funds with XLM, creating the account when it does not exist yet
func (r *Runner) sendXLM(run string, purchase db.Purchase, decision Decision, stroops int64) {
	_, err := r.Stellar.BULAccount(purchase.UserPubkey)
	if _, missing := err.(*stellar.AccountNotExistError); missing {
		util.LogInfo("pay %s: account %s does not exist and will be created", run, purchase.UserPubkey)
		err = r.Stellar.CreateAccount(purchase.UserPubkey, stroops)
	} else if err == nil {
		err = r.Stellar.Send(purchase.UserPubkey, stroops, "XLM")
	}
	if err != nil {
		r.submissionError(run, purchase, err)
		return
	}
	util.LogInfo("pay %s: %s funded with %d XLM stroops", run, purchase.UserPubkey, stroops)
	r.finish(run, purchase, decision)
}

//submissionError sorts downstream errors: trust and account-existence
//failures are terminal, everything else is transient and retried
func (r *Runner) submissionError(run string, purchase db.Purchase, err error) {
	switch err.(type) {
	case *stellar.TrustError, *stellar.AccountNotExistError:
		util.LogError("pay %s: %v", run, err)
		r.fail(run, purchase)
	default:
		util.LogWarn("pay %s: %s: %v", run, purchase.PaymentPubkey, err)
	}
}

//finish commits the terminal success state, rewriting euro_cents to the
//actually released amount
func (r *Runner) finish(run string, purchase db.Purchase, decision Decision) {
	done, err := r.Ledger.Transition(purchase.PaymentPubkey, db.StatusPaid, decision.Target, decision.Release)
	if err != nil {
		util.LogError("pay %s: %s: %v", run, purchase.PaymentPubkey, err)
		return
	}
	if !done {
		util.LogWarn("pay %s: purchase %s was settled concurrently", run, purchase.PaymentPubkey)
	}
}

func (r *Runner) fail(run string, purchase db.Purchase) {
	if _, err := r.Ledger.Transition(purchase.PaymentPubkey, db.StatusPaid, db.StatusFailed, purchase.EuroCents); err != nil {
		util.LogError("pay %s: %s: %v", run, purchase.PaymentPubkey, err)
	}
}

//FundNewAccounts is the fund pass: give freshly verified users their
//starting BUL balance, capped by the platform-wide hourly and daily limits.
func (r *Runner) FundNewAccounts() {
	run := xid.New().String()
	users, err := r.Ledger.UnfundedUsers()
	if err != nil {
		util.LogError("fund %s: cannot load unfunded users: %v", run, err)
		return
	}
	if len(users) == 0 {
		util.LogInfo("fund %s: no new users with unfunded accounts", run)
		return
	}

	hourly, err := r.Ledger.HourlySpentEuro()
	if err != nil {
		util.LogError("fund %s: %v", run, err)
		return
	}
	daily, err := r.Ledger.DailySpentEuro()
	if err != nil {
		util.LogError("fund %s: %v", run, err)
		return
	}
	remaining := config.Public.Fund.HourlyLimit - hourly
	if daily := config.Public.Fund.DailyLimit - daily; daily < remaining {
		remaining = daily
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining == 0 {
		util.LogWarn("fund %s: fund limit reached, hourly spent: %d, daily spent: %d", run, hourly, daily)
	}

	starting := config.Public.Fund.EURBULStarting
	for funded, user := range users {
		if int64(funded)*starting >= remaining {
			util.LogWarn("fund %s: fund limit reached, %d accounts funded, %d remaining",
				run, funded, len(users)-funded)
			break
		}
		price, err := r.Prices.Price("BUL")
		if err != nil {
			util.LogWarn("fund %s: no BUL price: %v", run, err)
			break
		}
		stroops, err := conversion.ToStroops(starting, price)
		if err != nil {
			util.LogError("fund %s: %v", run, err)
			break
		}
		if err = r.Stellar.Send(user.Pubkey, stroops, "BUL"); err != nil {
			util.LogWarn("fund %s: %s: %v", run, user.Pubkey, err)
			continue
		}
		if err = r.Ledger.RecordFunding(&db.Funding{
			UserPubkey: user.Pubkey, Currency: "BUL", CurrencyAmount: stroops, EuroCents: starting,
		}); err != nil {
			util.LogError("fund %s: %s: %v", run, user.Pubkey, err)
			continue
		}
		util.LogInfo("fund %s: user %s (%s) funded with %d BUL stroops", run, user.Pubkey, user.CallSign, stroops)
	}
}
