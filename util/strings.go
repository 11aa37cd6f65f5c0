package util

import (
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/thinkeridea/go-extend/exbytes"
)

//Strings normalizes the string fields of a form struct in place according
//to their format tag. Supported ops: trim, lower, num (digits only).
//form must be a pointer to a struct.
func Strings(form interface{}) error {
	v := reflect.ValueOf(form)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return errors.New("form must be a struct pointer")
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("format")
		if tag == "" || v.Field(i).Kind() != reflect.String {
			continue
		}
		s := v.Field(i).String()
		for _, op := range strings.Split(tag, ",") {
			switch op {
			case "trim":
				s = strings.TrimSpace(s)
			case "lower":
				s = strings.ToLower(s)
			case "num":
				if s != "" && !govalidator.IsNumeric(s) {
					return errors.New(t.Field(i).Name + " must be numeric")
				}
			}
		}
		v.Field(i).SetString(s)
	}
	return nil
}

//ReadReader drains r in 1KB blocks, handing each block to fn
func ReadReader(r io.Reader, fn func(block []byte)) error {
	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			fn(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

//BytesToString converts without copying, the bytes must not be reused
func BytesToString(b []byte) string {
	return exbytes.ToString(b)
}
