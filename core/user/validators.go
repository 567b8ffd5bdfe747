package user

import (
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/cartolearn/backend/core"
)

// password policy
var (
	pwdMinLen = 8

	pwdPolicyTag  = "pwdpolicy"
	pwdPolicyText = "password must be at least 8 characters, contain no whitespace and not be entirely numeric"
)

func init() {
	_ = core.Validate.RegisterValidation(pwdPolicyTag, pwdPolicyValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdPolicyTag, pwdPolicyText)
}

func pwdPolicyValidation(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	if len(pwd) < pwdMinLen {
		return false
	}
	allNum := true
	for _, r := range pwd {
		if unicode.IsSpace(r) {
			return false
		}
		if !unicode.IsDigit(r) {
			allNum = false
		}
	}
	return !allNum
}
