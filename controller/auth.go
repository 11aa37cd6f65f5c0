package controller

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/ed25519"

	"paket.global/funder-go/config"
	"paket.global/funder-go/model"
)

//Auth verifies the three headers of a signed request:
//	Pubkey      base64 ed25519 public key, doubles as the user id
//	Fingerprint "<uri>,<param>=<value>,...,nonce=<int>"
//	Signature   base64 signature of the fingerprint by the pubkey
//The nonce must grow per pubkey, so a captured request cannot be replayed.
func Auth(ctx iris.Context) {
	e := new(model.CommonError)
	pubkey := ctx.GetHeader("Pubkey")
	fingerprint := ctx.GetHeader("Fingerprint")
	signature := ctx.GetHeader("Signature")
	if pubkey == "" || fingerprint == "" || signature == "" {
		e.ReturnError(ctx, iris.StatusUnauthorized, config.Public.Err.E1010)
		return
	}

	rawKey, err := base64.StdEncoding.DecodeString(pubkey)
	if err != nil || len(rawKey) != ed25519.PublicKeySize {
		e.ReturnError(ctx, iris.StatusUnauthorized, config.Public.Err.E1010)
		return
	}
	rawSig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		e.ReturnError(ctx, iris.StatusUnauthorized, config.Public.Err.E1010)
		return
	}

	//the fingerprint must cover this uri and end with a fresh nonce
	parts := strings.Split(fingerprint, ",")
	if len(parts) < 2 || parts[0] != ctx.Path() {
		e.ReturnError(ctx, iris.StatusUnauthorized, config.Public.Err.E1010)
		return
	}
	last := parts[len(parts)-1]
	if !strings.HasPrefix(last, "nonce=") {
		e.ReturnError(ctx, iris.StatusUnauthorized, config.Public.Err.E1010)
		return
	}
	nonce, err := strconv.ParseInt(strings.TrimPrefix(last, "nonce="), 10, 64)
	if err != nil {
		e.ReturnError(ctx, iris.StatusUnauthorized, config.Public.Err.E1010)
		return
	}
	if !GetNonces(ctx).Check(pubkey, nonce, time.Now().Unix()) {
		e.ReturnError(ctx, iris.StatusUnauthorized, config.Public.Err.E1010)
		return
	}

	if !ed25519.Verify(ed25519.PublicKey(rawKey), []byte(fingerprint), rawSig) {
		e.ReturnError(ctx, iris.StatusUnauthorized, config.Public.Err.E1010)
		return
	}

	ctx.Values().Set(config.AuthPubkeyKey, pubkey)
	ctx.Next()
}
