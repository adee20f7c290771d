package forms

import (
	"time"

	"github.com/samber/mo"
)

// Profile 用户资料
// @Unwrapped(suffix=`Form`, derives=[Equal|Setter])
// @Wrapped(name=`ProfilePatch`)
type Profile struct {
	// 昵称
	Nickname mo.Option[string] `json:"nickname"`
	Age      mo.Option[int]    `unwrapped:"default=18"`
	Email    string            `json:"email" validate:"email"`
	Timeout  time.Duration     `wrapped:"default=time.Second"`
}

// Secret 凭据
// @Unwrapped
// @Builder(finish_fn=Finish)
type Secret struct {
	Name  mo.Option[string]
	Token string `unwrapped:"skip"`
}

// Broken 指令错误
// @Unwrapped
type Broken struct {
	Level mo.Option[int] `unwrapped:"default=1 +"`
}
