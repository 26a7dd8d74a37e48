package blogservice

import (
	"github.com/blogql/blogql/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(v.NotBlank(title), "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must not be more than 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(v.NotBlank(content), "content", "must be provided")
}

// The date is a caller-supplied opaque string; only presence is enforced.
func validateDate(v *common.Validator, date string) {
	v.Check(v.NotBlank(date), "date", "must be provided")
}
