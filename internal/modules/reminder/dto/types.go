package dto

import "time"

type CheckOutput struct {
	Fired    bool
	Reason   string
	NextFire time.Time
}
