package model

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/kataras/iris/v12"
	validator "gopkg.in/go-playground/validator.v9"

	"paket.global/funder-go/util"
)

//CommonError is the structured error body every endpoint returns
type CommonError struct {
	Status int               `json:"status"`
	Error  string            `json:"error"`
	Detail map[string]string `json:"detail,omitempty"`
}

//FieldTrans maps struct field names to display names for validation errors
type FieldTrans map[string]string

//ReturnError writes the error body and stops the handler chain
func (e *CommonError) ReturnError(ctx iris.Context, status int, desc string) {
	if ctx.IsStopped() {
		return
	}
	e.Status = status
	e.Error = desc
	ctx.StatusCode(status)
	ctx.JSON(e)
	ctx.StopExecution()
}

//CheckError is ReturnError guarded on err. Handlers must return after a
//failed check.
func (e *CommonError) CheckError(ctx iris.Context, err error, status int, desc string, detail map[string]string) bool {
	if err == nil {
		return false
	}
	util.LogDebugAll(err)
	e.Detail = detail
	e.ReturnError(ctx, status, desc)
	return true
}

//FinalError writes the error body for OnErrorCode handlers
func (e *CommonError) FinalError(ctx iris.Context, status int, desc string) {
	e.Status = status
	e.Error = desc
	ctx.JSON(e)
}

//NewValidatorErrorDetail turns validator errors into a field -> message map
//using the translator and the form's display names
func NewValidatorErrorDetail(trans ut.Translator, err error, fields FieldTrans) map[string]string {
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	detail := map[string]string{}
	for _, fieldErr := range errs {
		name := fieldErr.Field()
		if display, ok := fields[name]; ok {
			name = display
		}
		detail[name] = fieldErr.Translate(trans)
	}
	return detail
}
