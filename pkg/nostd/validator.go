package nostd

import (
	"errors"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"
)

// CustomValidator echo 请求参数校验器
type CustomValidator struct {
	Validator *validator.Validate
	trans     ut.Translator
}

// TransInit 初始化翻译器，校验失败信息转为英文提示
func (cv *CustomValidator) TransInit() error {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")
	cv.trans = trans
	return entrans.RegisterDefaultTranslations(cv.Validator, trans)
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.Validator.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && cv.trans != nil {
			for _, e := range errs {
				return echo.NewHTTPError(http.StatusBadRequest, e.Translate(cv.trans))
			}
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
