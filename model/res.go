package model

import (
	"paket.global/funder-go/db"
)

//UserRes user endpoints response
type UserRes struct {
	Status int          `json:"status"`
	User   *db.User     `json:"user"`
	Infos  *db.UserInfo `json:"userDetails,omitempty"`
}

//PurchaseRes purchase endpoints response: where to send the coins
type PurchaseRes struct {
	Status          int    `json:"status"`
	PurchaseID      string `json:"purchaseID"`
	PaymentPubkey   string `json:"paymentPubkey"`
	PaymentCurrency string `json:"paymentCurrency"`
	EuroCents       int64  `json:"euroCents"`
	QRCode          string `json:"qrCode"` //payment address as a png qr code, base64
}

//UserActivity one entry of the debug users listing
type UserActivity struct {
	User             *db.User     `json:"user"`
	Infos            *db.UserInfo `json:"userDetails,omitempty"`
	MonthlyAllowance int64        `json:"monthlyAllowance"`
	MonthlyExpenses  int64        `json:"monthlyExpenses"`
}

//UsersRes debug users listing response, keyed by call sign
type UsersRes struct {
	Status int                     `json:"status"`
	Users  map[string]UserActivity `json:"users"`
}
