package routine

import (
	"github.com/go-xorm/xorm"

	"paket.global/funder-go/db"
)

//PQLedger backs the Ledger interface with the postgres store
type PQLedger struct {
	PQ *xorm.Engine
}

//PurchasesByStatus .
func (l *PQLedger) PurchasesByStatus(status db.PaidStatus) ([]db.Purchase, error) {
	return db.PurchasesByStatus(l.PQ, status)
}

//Transition .
func (l *PQLedger) Transition(paymentPubkey string, from, to db.PaidStatus, euroCents int64) (bool, error) {
	return db.TransitionPurchase(l.PQ, paymentPubkey, from, to, euroCents)
}

//MonthlyAllowance .
func (l *PQLedger) MonthlyAllowance(pubkey string) (int64, error) {
	return db.MonthlyAllowance(l.PQ, pubkey)
}

//MonthlyExpenses .
func (l *PQLedger) MonthlyExpenses(pubkey string) (int64, error) {
	return db.MonthlyExpenses(l.PQ, pubkey)
}

//UnfundedUsers .
func (l *PQLedger) UnfundedUsers() ([]db.User, error) {
	return db.UnfundedUsers(l.PQ)
}

//RecordFunding .
func (l *PQLedger) RecordFunding(funding *db.Funding) error {
	return db.NewFunding(l.PQ, funding)
}

//HourlySpentEuro .
func (l *PQLedger) HourlySpentEuro() (int64, error) {
	return db.HourlySpentEuro(l.PQ)
}

//DailySpentEuro .
func (l *PQLedger) DailySpentEuro() (int64, error) {
	return db.DailySpentEuro(l.PQ)
}
