package dispatch

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rushteam/laptoprec/core"
)

// 推荐模式。
const (
	ModeContentBased  = "content_based"
	ModeCollaborative = "collaborative"
	ModeHybrid        = "hybrid"
	ModePersonalized  = "personalized"
)

// 交互类型。
const (
	TrackView = "view"
	TrackSave = "save"
)

// Request 是一次推荐调用。
//
//   - content_based：需要 item_id
//   - collaborative：需要 user_id
//   - hybrid：需要 item_id，user_id 可选
//   - personalized：需要 user_id
type Request struct {
	Mode    string   `json:"mode" validate:"required,oneof=content_based collaborative hybrid personalized"`
	ItemID  string   `json:"item_id" validate:"required_unless=Mode collaborative Mode personalized"`
	UserID  string   `json:"user_id" validate:"required_unless=Mode content_based Mode hybrid"`
	TopK    int      `json:"top_k" validate:"gte=0"`
	Exclude []string `json:"exclude,omitempty"`
}

// TrackRequest 是一次交互记录调用。
type TrackRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=view save"`
	UserID string `json:"user_id" validate:"required"`
	ItemID string `json:"item_id" validate:"required"`
	Rating int    `json:"rating" validate:"gte=0,lte=5"`
	Note   string `json:"note" validate:"max=500"`
}

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// 错误信息使用 json 字段名
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// validateStruct 校验请求，失败时返回 INVALID_INPUT 的 DomainError。
func validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return core.NewDomainError(core.ModuleDispatch, core.ErrorCodeInvalidInput, "dispatch: "+err.Error())
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return core.NewDomainError(core.ModuleDispatch, core.ErrorCodeInvalidInput, "dispatch: "+strings.Join(messages, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// Validate 校验请求，失败返回 INVALID_INPUT 的 DomainError。
func (r Request) Validate() error {
	return validateStruct(&r)
}

// Validate 校验请求，失败返回 INVALID_INPUT 的 DomainError。
func (r TrackRequest) Validate() error {
	return validateStruct(&r)
}
