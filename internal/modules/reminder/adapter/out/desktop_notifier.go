package out

import (
	"github.com/gen2brain/beeep"

	reminderout "medita/internal/modules/reminder/port/out"
)

type DesktopNotifier struct{}

func NewDesktopNotifier() reminderout.Notifier {
	beeep.AppName = "medita"
	return DesktopNotifier{}
}

func (DesktopNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}
