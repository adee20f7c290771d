package profile

import (
	"time"

	opt "github.com/samber/mo"
)

// Profile 用户资料
// @Unwrapped(suffix=`Form`)
// @Builder
type Profile struct {
	// 昵称
	Nickname  opt.Option[string] `json:"nickname"`
	Age       opt.Option[int]
	Email     string `json:"email" unwrapped:"skip"`
	CreatedAt time.Time
	X, Y      int
}

type Pair[K comparable, V any] struct {
	Key   K
	Value opt.Option[V]
}

type WithBase struct {
	*time.Location
	Name string
}

type Status int
