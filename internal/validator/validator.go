// Package validator 将自定义校验规则与中文错误翻译注册到 gin 的绑定引擎
package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
)

var (
	trans ut.Translator
	once  sync.Once
)

// customRules 自定义标签 → 校验函数与中文提示
var customRules = []struct {
	tag     string
	fn      govalidator.Func
	message string
}{
	{"clock", validClock, "{0}必须是 HH:MM 格式的时间"},
	{"isodate", validISODate, "{0}必须是 YYYY-MM-DD 格式的日期"},
	{"weekday", validWeekday, "{0}必须是 monday 至 saturday 之一"},
	{"branch", validBranch, "{0}必须是 cs、ec、me、sm 之一"},
	{"section", validSection, "{0}必须是 A、B、C、D 之一"},
}

// Setup 注册字段名、自定义规则与中文翻译，可重复调用
func Setup() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}
		register(v)
	})
}

func register(v *govalidator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	zhLocale := zh.New()
	uni := ut.New(zhLocale, zhLocale)
	trans, _ = uni.GetTranslator("zh")
	_ = zh_translations.RegisterDefaultTranslations(v, trans)

	for _, rule := range customRules {
		_ = v.RegisterValidation(rule.tag, rule.fn)
		msg := rule.message
		tag := rule.tag
		_ = v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, msg, true) },
			func(t ut.Translator, fe govalidator.FieldError) string {
				s, _ := t.T(tag, fe.Field())
				return s
			},
		)
	}
}

// ── 自定义规则 ──

func validClock(fl govalidator.FieldLevel) bool {
	_, err := scheduling.ParseClock(fl.Field().String())
	return err == nil
}

func validISODate(fl govalidator.FieldLevel) bool {
	_, err := scheduling.ParseDate(fl.Field().String(), nil)
	return err == nil
}

func validWeekday(fl govalidator.FieldLevel) bool {
	_, err := scheduling.ParseWeekday(fl.Field().String())
	return err == nil
}

func validBranch(fl govalidator.FieldLevel) bool {
	_, ok := model.BranchNames[fl.Field().String()]
	return ok
}

func validSection(fl govalidator.FieldLevel) bool {
	s := fl.Field().String()
	for _, sec := range model.Sections {
		if s == sec {
			return true
		}
	}
	return false
}

// TranslateErrors 将绑定/校验错误转换为 字段 → 中文信息；
// 非校验错误（如 JSON 语法错误）返回单键 "detail"
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind 绑定并校验 JSON 请求体，失败时返回字段错误映射
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindQuery 绑定并校验查询参数
func BindQuery(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindQuery(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
