package db

import (
	"fmt"
	"time"

	"github.com/go-xorm/xorm"
)

//PaidStatus is the closed set of purchase states.
/**
paid state machine:
	Unpaid -> Paid                      observed balance crossed the minimum payment
	Paid   -> Funded                    full observed amount released
	Paid   -> PartiallyFunded           allowance-capped amount released, euro_cents rewritten down
	Paid   -> Failed                    allowance exhausted or the submission was refused
Funded, PartiallyFunded and Failed are terminal.
*/
type PaidStatus int8

//paid states
const (
	StatusFailed          PaidStatus = -1
	StatusUnpaid          PaidStatus = 0
	StatusPaid            PaidStatus = 1
	StatusFunded          PaidStatus = 2
	StatusPartiallyFunded PaidStatus = 3
)

func (s PaidStatus) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusUnpaid:
		return "unpaid"
	case StatusPaid:
		return "paid"
	case StatusFunded:
		return "funded"
	case StatusPartiallyFunded:
		return "partially funded"
	}
	return fmt.Sprintf("PaidStatus(%d)", int8(s))
}

//Terminal reports whether no further transition is allowed from s
func (s PaidStatus) Terminal() bool {
	return s == StatusFailed || s == StatusFunded || s == StatusPartiallyFunded
}

//CanTransition is the single authority on legal state changes
func (s PaidStatus) CanTransition(to PaidStatus) bool {
	switch s {
	case StatusUnpaid:
		return to == StatusPaid
	case StatusPaid:
		return to == StatusFunded || to == StatusPartiallyFunded || to == StatusFailed
	}
	return false
}

//Purchase corresponds to the purchase table. One deposit address per
//purchase, payment_pubkey is unique. euro_cents is rewritten to the observed
//value on Unpaid->Paid and may only ever be reduced after that.
type Purchase struct {
	ID                uint64     `json:"-" xorm:"pk autoincr BIGINT 'id'"`
	GUID              string     `json:"purchaseID" xorm:"not null unique VARCHAR(20) 'guid'"`
	UserPubkey        string     `json:"userPubkey" xorm:"not null index VARCHAR(56)"`
	PaymentPubkey     string     `json:"paymentPubkey" xorm:"not null unique VARCHAR(128)"`
	PaymentCurrency   string     `json:"paymentCurrency" xorm:"not null VARCHAR(3)"`   //BTC or ETH
	RequestedCurrency string     `json:"requestedCurrency" xorm:"not null VARCHAR(3)"` //BUL or XLM
	EuroCents         int64      `json:"euroCents" xorm:"not null BIGINT"`
	Paid              PaidStatus `json:"paid" xorm:"not null default 0 index SMALLINT"`
	Created           time.Time  `json:"created" xorm:"not null created"`
	Updated           time.Time  `json:"updated" xorm:"updated"`
}

//NewPurchase inserts a purchase in the Unpaid state
func NewPurchase(pq *xorm.Engine, purchase *Purchase) error {
	purchase.Paid = StatusUnpaid
	_, err := pq.InsertOne(purchase)
	return err
}

//PurchasesByStatus returns every purchase currently in the given state
func PurchasesByStatus(pq *xorm.Engine, status PaidStatus) ([]Purchase, error) {
	purchases := []Purchase{}
	err := pq.Where("paid = ?", status).Find(&purchases)
	return purchases, err
}

//TransitionPurchase moves a purchase from one state to another with a single
//compare-and-swap update keyed on the deposit address and the expected
//current state, so two concurrent passes can never settle the same row
//twice. euroCents replaces the stored value (the observed amount on
//Unpaid->Paid, the capped amount on Paid->PartiallyFunded). Returns false
//when the row was not in the expected state anymore.
func TransitionPurchase(pq *xorm.Engine, paymentPubkey string, from, to PaidStatus, euroCents int64) (bool, error) {
	if !from.CanTransition(to) {
		return false, fmt.Errorf("illegal purchase transition %v -> %v", from, to)
	}
	affected, err := pq.Where("payment_pubkey = ? AND paid = ?", paymentPubkey, from).
		Cols("paid", "euro_cents").
		Update(&Purchase{Paid: to, EuroCents: euroCents})
	return affected > 0, err
}

//MonthlyExpenses sums the released euro cents of a user's funded and
//partially funded purchases over the trailing 30 days. Unpaid, paid and
//failed purchases do not count.
func MonthlyExpenses(pq *xorm.Engine, pubkey string) (int64, error) {
	since := time.Now().Add(-30 * 24 * time.Hour)
	total, err := pq.Where(
		"user_pubkey = ? AND created > ? AND paid IN (?, ?)",
		pubkey, since, StatusFunded, StatusPartiallyFunded,
	).SumInt(new(Purchase), "euro_cents")
	return total, err
}
