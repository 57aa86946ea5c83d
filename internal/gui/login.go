package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// buildLogin creates the password form. Login runs off the event loop;
// on success the controller renders the board, on failure the error label
// is filled in and the form re-enabled.
func (u *UI) buildLogin(reason string) fyne.CanvasObject {
	title := widget.NewLabelWithStyle("Pickdesk", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	notice := widget.NewLabel(reason)
	notice.Alignment = fyne.TextAlignCenter
	if reason == "" {
		notice.Hide()
	}

	errLabel := widget.NewLabel("")
	errLabel.Alignment = fyne.TextAlignCenter
	errLabel.Importance = widget.DangerImportance
	errLabel.Hide()

	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Password")

	var loginBtn *widget.Button
	submit := func() {
		pw := password.Text
		if pw == "" {
			return
		}
		loginBtn.Disable()
		errLabel.Hide()
		go func() {
			err := u.ctrl.Login(pw)
			if err == nil {
				return
			}
			fyne.Do(func() {
				loginBtn.Enable()
				errLabel.SetText("Login failed: " + err.Error())
				errLabel.Show()
			})
		}()
	}
	loginBtn = widget.NewButton("Log in", submit)
	loginBtn.Importance = widget.HighImportance
	password.OnSubmitted = func(string) { submit() }

	form := container.NewVBox(
		title,
		notice,
		container.NewGridWrap(fyne.NewSize(320, 40), password),
		loginBtn,
		errLabel,
	)
	return container.NewCenter(form)
}
