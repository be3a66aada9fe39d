package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationDetail 单个字段的校验错误
type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

var registerTagNameOnce sync.Once

// useJSONFieldNames 让校验错误使用 JSON 字段名
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// bindingDetails 将绑定错误转为字段级错误列表
func bindingDetails(err error) []ValidationDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]ValidationDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldErrorDetail(fe))
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		loc := []string{"body"}
		if typeErr.Field != "" {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		return []ValidationDetail{{
			Loc:  loc,
			Msg:  fmt.Sprintf("value is not a valid %s", typeErr.Type.Kind()),
			Type: "type_error." + typeErr.Type.Kind().String(),
		}}
	}

	return []ValidationDetail{{
		Loc:  []string{"body"},
		Msg:  err.Error(),
		Type: "value_error.jsondecode",
	}}
}

func fieldErrorDetail(fe validator.FieldError) ValidationDetail {
	d := ValidationDetail{Loc: []string{"body", fe.Field()}}
	switch fe.Tag() {
	case "required":
		d.Msg = "field required"
		d.Type = "value_error.missing"
	default:
		d.Msg = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		d.Type = "value_error." + fe.Tag()
	}
	return d
}

func abortValidation(c *gin.Context, details []ValidationDetail) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": details})
}
