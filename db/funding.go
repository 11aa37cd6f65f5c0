package db

import (
	"time"

	"github.com/go-xorm/xorm"

	"paket.global/funder-go/config"
)

//Funding corresponds to the funding table, append only. Records
//system-initiated starting balances, used for the platform-wide
//hourly and daily spend caps.
type Funding struct {
	ID             uint64    `json:"-" xorm:"pk autoincr BIGINT 'id'"`
	UserPubkey     string    `json:"userPubkey" xorm:"not null index VARCHAR(56)"`
	Currency       string    `json:"currency" xorm:"not null VARCHAR(3)"` //XLM or BUL
	CurrencyAmount int64     `json:"currencyAmount" xorm:"not null BIGINT"`
	EuroCents      int64     `json:"euroCents" xorm:"not null BIGINT"`
	Created        time.Time `json:"created" xorm:"not null created"`
}

//NewFunding records a system-initiated funding
func NewFunding(pq *xorm.Engine, funding *Funding) error {
	_, err := pq.InsertOne(funding)
	return err
}

//SpentEuro sums the euro cents funded by the platform since a point in time
func SpentEuro(pq *xorm.Engine, since time.Time) (int64, error) {
	return pq.Where("created > ?", since).SumInt(new(Funding), "euro_cents")
}

//HourlySpentEuro is the platform spend over the last hour
func HourlySpentEuro(pq *xorm.Engine) (int64, error) {
	return SpentEuro(pq, time.Now().Add(-time.Hour))
}

//DailySpentEuro is the platform spend over the last 24 hours
func DailySpentEuro(pq *xorm.Engine) (int64, error) {
	return SpentEuro(pq, time.Now().Add(-24*time.Hour))
}

//UnfundedUsers returns users whose latest basic test is positive and who
//have no BUL funding row yet
func UnfundedUsers(pq *xorm.Engine) ([]User, error) {
	users := []User{}
	err := pq.Where(
		`pubkey NOT IN (SELECT user_pubkey FROM funding WHERE currency = 'BUL')
		AND (SELECT result FROM test_result
			WHERE test_result.pubkey = "user".pubkey AND name = ?
			ORDER BY id DESC LIMIT 1) > 0`, config.BasicTestName).Find(&users)
	return users, err
}
