package model

import (
	english "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/hero"
	validator "gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"

	"paket.global/funder-go/config"
	"paket.global/funder-go/util"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

//BindForm binds each form to its controller handler via hero.
//Call once from main before registering routes.
func BindForm() {
	en := english.New()
	uni := ut.New(en, en)
	trans, _ = uni.GetTranslator("en")
	validate = validator.New()
	en_translations.RegisterDefaultTranslations(validate, trans)

	//=====bind & check=====
	createUser()
	getUser()
	userInfos()
	purchase()
}

func createUser() {
	hero.Register(func(ctx iris.Context) (form CreateUserForm) {
		e := new(CommonError)
		//---bind form---
		err := ctx.ReadJSON(&form)
		e.CheckError(ctx, err, iris.StatusBadRequest, config.Public.Err.E1000, nil)

		//---check struct---
		err = validate.Struct(&form)
		detail := NewValidatorErrorDetail(trans, err, form.CreateUserFieldTrans())
		e.CheckError(ctx, err, iris.StatusNotAcceptable, config.Public.Err.E1001, detail)

		err = util.Strings(&form)
		e.CheckError(ctx, err, iris.StatusNotAcceptable, config.Public.Err.E1002, nil)
		return
	})
}

func getUser() {
	hero.Register(func(ctx iris.Context) (form GetUserForm) {
		e := new(CommonError)
		//---bind form---
		err := ctx.ReadJSON(&form)
		e.CheckError(ctx, err, iris.StatusBadRequest, config.Public.Err.E1000, nil)

		//---check struct---
		err = validate.Struct(&form)
		detail := NewValidatorErrorDetail(trans, err, form.GetUserFieldTrans())
		e.CheckError(ctx, err, iris.StatusNotAcceptable, config.Public.Err.E1001, detail)

		err = util.Strings(&form)
		e.CheckError(ctx, err, iris.StatusNotAcceptable, config.Public.Err.E1002, nil)
		return
	})
}

func userInfos() {
	hero.Register(func(ctx iris.Context) (form UserInfosForm) {
		e := new(CommonError)
		//---bind form---
		err := ctx.ReadJSON(&form)
		e.CheckError(ctx, err, iris.StatusBadRequest, config.Public.Err.E1000, nil)

		//---check struct---
		err = validate.Struct(&form)
		detail := NewValidatorErrorDetail(trans, err, form.UserInfosFieldTrans())
		e.CheckError(ctx, err, iris.StatusNotAcceptable, config.Public.Err.E1001, detail)

		err = util.Strings(&form)
		e.CheckError(ctx, err, iris.StatusNotAcceptable, config.Public.Err.E1002, nil)
		return
	})
}

func purchase() {
	hero.Register(func(ctx iris.Context) (form PurchaseForm) {
		e := new(CommonError)
		//---bind form---
		err := ctx.ReadJSON(&form)
		e.CheckError(ctx, err, iris.StatusBadRequest, config.Public.Err.E1000, nil)

		//---check struct---
		err = validate.Struct(&form)
		detail := NewValidatorErrorDetail(trans, err, form.PurchaseFieldTrans())
		e.CheckError(ctx, err, iris.StatusNotAcceptable, config.Public.Err.E1001, detail)

		err = util.Strings(&form)
		e.CheckError(ctx, err, iris.StatusNotAcceptable, config.Public.Err.E1002, nil)
		return
	})
}
