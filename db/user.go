package db

import (
	"time"

	"github.com/go-xorm/xorm"

	"paket.global/funder-go/config"
)

//User corresponds to the user table. Created once, never deleted.
//call_sign is unique case-insensitively and stored lower-cased.
type User struct {
	Pubkey   string    `json:"pubkey" xorm:"pk VARCHAR(56) 'pubkey'"`
	CallSign string    `json:"callSign" xorm:"not null unique VARCHAR(32)"`
	Created  time.Time `json:"created" xorm:"not null created"`
}

//UserInfo corresponds to the user_info table. Profile fields are appended
//as versioned snapshots, the latest row wins. Rows are never updated.
type UserInfo struct {
	ID          uint64    `json:"-" xorm:"pk autoincr BIGINT 'id'"`
	Pubkey      string    `json:"pubkey" xorm:"not null index VARCHAR(56)"`
	FullName    string    `json:"fullName,omitempty" xorm:"VARCHAR(256)"`
	PhoneNumber string    `json:"phoneNumber,omitempty" xorm:"VARCHAR(32)"` //E164, eg. +4915112345678
	Address     string    `json:"address,omitempty" xorm:"VARCHAR(1024)"`
	Created     time.Time `json:"created" xorm:"not null created"`
}

//TestResult corresponds to the test_result table, append only.
//The latest row per (pubkey, name) is the authoritative result.
type TestResult struct {
	ID      uint64    `json:"-" xorm:"pk autoincr BIGINT 'id'"`
	Pubkey  string    `json:"pubkey" xorm:"not null index(test_pubkey_name_idx) VARCHAR(56)"`
	Name    string    `json:"name" xorm:"not null index(test_pubkey_name_idx) VARCHAR(64)"`
	Result  int       `json:"result" xorm:"not null INTEGER"`
	Created time.Time `json:"created" xorm:"not null created"`
}

//UserExists reports whether a pubkey or call sign is already taken
func UserExists(pq *xorm.Engine, pubkey, callSign string) (bool, error) {
	if pubkey != "" {
		if has, err := pq.Exist(&User{Pubkey: pubkey}); has || err != nil {
			return has, err
		}
	}
	if callSign != "" {
		return pq.Exist(&User{CallSign: callSign})
	}
	return false, nil
}

//GetUser fetches a user by pubkey or, when pubkey is empty, by call sign
func GetUser(pq *xorm.Engine, pubkey, callSign string) (*User, bool, error) {
	user := User{Pubkey: pubkey}
	if pubkey == "" {
		user.CallSign = callSign
	}
	has, err := pq.Get(&user)
	return &user, has, err
}

//LatestUserInfo returns the newest profile snapshot, or false when none exists
func LatestUserInfo(pq *xorm.Engine, pubkey string) (*UserInfo, bool, error) {
	info := UserInfo{}
	has, err := pq.Where("pubkey = ?", pubkey).Desc("id").Get(&info)
	return &info, has, err
}

//UpdateTest appends a test result row
func UpdateTest(pq *xorm.Engine, pubkey, name string, result int) error {
	_, err := pq.InsertOne(&TestResult{Pubkey: pubkey, Name: name, Result: result})
	return err
}

//LatestTestResult returns the newest result of a named test, 0 when never run
func LatestTestResult(pq *xorm.Engine, pubkey, name string) (int, error) {
	res := TestResult{}
	has, err := pq.Where("pubkey = ? AND name = ?", pubkey, name).Desc("id").Get(&res)
	if err != nil || !has {
		return 0, err
	}
	return res.Result, nil
}

//MonthlyAllowance is the fixed basic allowance for users whose latest basic
//test is positive, zero for everyone else
func MonthlyAllowance(pq *xorm.Engine, pubkey string) (int64, error) {
	result, err := LatestTestResult(pq, pubkey, config.BasicTestName)
	if err != nil || result <= 0 {
		return 0, err
	}
	return config.Public.Pay.BasicMonthlyAllowance, nil
}
