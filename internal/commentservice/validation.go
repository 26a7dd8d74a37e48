package commentservice

import (
	"github.com/blogql/blogql/internal/common"
)

func validateText(v *common.Validator, text string) {
	v.Check(v.NotBlank(text), "text", "must be provided")
	v.Check(v.CheckStringLength(text, 1, 2000), "text", "must not be more than 2000 characters long")
}

func validateDate(v *common.Validator, date string) {
	v.Check(v.NotBlank(date), "date", "must be provided")
}
