package controller

import (
	"time"

	"github.com/ipsn/go-adorable"
	"github.com/jinzhu/copier"
	"github.com/kataras/iris/v12"
	"github.com/ttacon/libphonenumber"

	"paket.global/funder-go/config"
	"paket.global/funder-go/db"
	"paket.global/funder-go/model"
	"paket.global/funder-go/util"
)

//CreateUser registers the authenticated pubkey under a call sign.
//400 when either the pubkey or the call sign is already taken.
func CreateUser(ctx iris.Context, form model.CreateUserForm) {
	e := new(model.CommonError)
	pq := GetPQ(ctx)
	pubkey := GetAuthPubkey(ctx)

	//explicit uniqueness pre-checks, no relying on integrity errors
	exists, err := db.UserExists(pq, pubkey, form.CallSign)
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
		return
	}
	if exists {
		e.ReturnError(ctx, iris.StatusBadRequest, config.Public.Err.E1017)
		return
	}

	user := db.User{Pubkey: pubkey, CallSign: form.CallSign}
	_, err = pq.InsertOne(&user)
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&model.UserRes{Status: iris.StatusCreated, User: &user})
}

//GetUser fetches a user by pubkey or call sign
func GetUser(ctx iris.Context, form model.GetUserForm) {
	e := new(model.CommonError)
	pq := GetPQ(ctx)

	if (form.Pubkey == "") == (form.CallSign == "") {
		e.ReturnError(ctx, iris.StatusNotAcceptable, config.Public.Err.E1001)
		return
	}
	user, has, err := db.GetUser(pq, form.Pubkey, form.CallSign)
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
		return
	}
	if !has {
		e.ReturnError(ctx, iris.StatusNotFound, config.Public.Err.E1016)
		return
	}
	ctx.JSON(&model.UserRes{Status: iris.StatusOK, User: user})
}

//UserInfos appends a profile snapshot for the authenticated user. Empty form
//fields carry over from the latest snapshot. The basic KYC test is rerun
//every time all three profile fields are present.
func UserInfos(ctx iris.Context, form model.UserInfosForm) {
	e := new(model.CommonError)
	pq := GetPQ(ctx)
	pubkey := GetAuthPubkey(ctx)

	user, has, err := db.GetUser(pq, pubkey, "")
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
		return
	}
	if !has {
		e.ReturnError(ctx, iris.StatusNotFound, config.Public.Err.E1016)
		return
	}

	info := db.UserInfo{}
	latest, hasInfo, err := db.LatestUserInfo(pq, pubkey)
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
		return
	}
	if hasInfo {
		copier.Copy(&info, latest)
		info.ID = 0
		info.Created = time.Time{}
	}
	info.Pubkey = pubkey
	if form.FullName != "" {
		info.FullName = form.FullName
	}
	if form.Address != "" {
		info.Address = form.Address
	}
	if form.PhoneNumber != "" {
		//validate and fix the phone number, stored as E164
		number, err := libphonenumber.Parse(form.PhoneNumber, "")
		if err != nil || !libphonenumber.IsValidNumber(number) {
			e.ReturnError(ctx, iris.StatusNotAcceptable, config.Public.Err.E1021)
			return
		}
		info.PhoneNumber = libphonenumber.Format(number, libphonenumber.E164)
	}

	_, err = pq.InsertOne(&info)
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
		return
	}

	//rerun the basic test as soon as (and every time) all details are filled
	if info.FullName != "" && info.PhoneNumber != "" && info.Address != "" {
		result := GetKYC(ctx).BasicTest(info.FullName)
		if err = db.UpdateTest(pq, pubkey, config.BasicTestName, result); err != nil {
			util.LogError("cannot record basic test of %s: %v", pubkey, err)
		}
	}

	ctx.JSON(&model.UserRes{Status: iris.StatusOK, User: user, Infos: &info})
}

//Users lists every user with allowance and expenses, debug only
func Users(ctx iris.Context) {
	e := new(model.CommonError)
	pq := GetPQ(ctx)

	users := []db.User{}
	err := pq.Find(&users)
	if e.CheckError(ctx, err, iris.StatusInternalServerError, config.Public.Err.E1004, nil) {
		return
	}
	res := model.UsersRes{Status: iris.StatusOK, Users: map[string]model.UserActivity{}}
	for i := range users {
		user := users[i]
		activity := model.UserActivity{User: &user}
		if infos, has, err := db.LatestUserInfo(pq, user.Pubkey); err == nil && has {
			activity.Infos = infos
		}
		if allowance, err := db.MonthlyAllowance(pq, user.Pubkey); err == nil {
			activity.MonthlyAllowance = allowance
		}
		if expenses, err := db.MonthlyExpenses(pq, user.Pubkey); err == nil {
			activity.MonthlyExpenses = expenses
		}
		res.Users[user.CallSign] = activity
	}
	ctx.JSON(&res)
}

//Avatar serves a deterministic identicon for a pubkey
func Avatar(ctx iris.Context) {
	pubkey := ctx.Params().Get("pubkey")
	ctx.ContentType("image/png")
	ctx.Write(adorable.PseudoRandom([]byte(pubkey)))
}
