package controller

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/kataras/iris/v12"
	"github.com/rs/xid"

	"paket.global/funder-go/config"
	"paket.global/funder-go/db"
	"paket.global/funder-go/model"
	"paket.global/funder-go/util"
)

//PurchaseBUL requests a purchase of platform tokens, returns a deposit address
func PurchaseBUL(ctx iris.Context, form model.PurchaseForm) {
	newPurchase(ctx, form, "BUL")
}

//PurchaseXLM requests a purchase of lumens, returns a deposit address
func PurchaseXLM(ctx iris.Context, form model.PurchaseForm) {
	newPurchase(ctx, form, "XLM")
}

//newPurchase checks the user's remaining allowance up front, allocates a
//deposit address unique to this purchase and records it in the Unpaid state
func newPurchase(ctx iris.Context, form model.PurchaseForm, requested string) {
	e := new(model.CommonError)
	pq := GetPQ(ctx)
	pubkey := GetAuthPubkey(ctx)

	if form.PaymentCurrency != "BTC" && form.PaymentCurrency != "ETH" {
		e.ReturnError(ctx, iris.StatusBadRequest, config.Public.Err.E1019)
		return
	}
	if _, has, err := db.GetUser(pq, pubkey, ""); err != nil || !has {
		if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
			return
		}
		e.ReturnError(ctx, iris.StatusNotFound, config.Public.Err.E1016)
		return
	}

	//reject requests beyond the remaining allowance before allocating anything
	allowance, err := db.MonthlyAllowance(pq, pubkey)
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
		return
	}
	expenses, err := db.MonthlyExpenses(pq, pubkey)
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
		return
	}
	if allowance-expenses < form.EuroCents {
		e.ReturnError(ctx, iris.StatusBadRequest, config.Public.Err.E1018)
		return
	}

	address, err := GetBridge(ctx).NewPaymentAddress(form.PaymentCurrency)
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1022, nil) {
		return
	}

	purchase := db.Purchase{
		GUID:              xid.New().String(),
		UserPubkey:        pubkey,
		PaymentPubkey:     address,
		PaymentCurrency:   form.PaymentCurrency,
		RequestedCurrency: requested,
		EuroCents:         form.EuroCents,
	}
	err = db.NewPurchase(pq, &purchase)
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&model.PurchaseRes{
		Status:          iris.StatusCreated,
		PurchaseID:      purchase.GUID,
		PaymentPubkey:   address,
		PaymentCurrency: form.PaymentCurrency,
		EuroCents:       form.EuroCents,
		QRCode:          addressQR(address),
	})
}

//addressQR renders the deposit address as a base64 png qr code, empty on error
func addressQR(address string) string {
	code, err := qr.Encode(address, qr.M, qr.Auto)
	if err != nil {
		util.LogWarn("cannot encode qr for %s: %v", address, err)
		return ""
	}
	scaled, err := barcode.Scale(code, 256, 256)
	if err != nil {
		util.LogWarn("cannot scale qr for %s: %v", address, err)
		return ""
	}
	buf := bytes.Buffer{}
	if err = png.Encode(&buf, scaled); err != nil {
		util.LogWarn("cannot render qr for %s: %v", address, err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
