package fyne

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/tejashwikalptaru/yorum/res"
)

// ShowAboutDialog shows the about box with the version line and the bundled description.
func ShowAboutDialog(window fyne.Window, version string) {
	content := container.NewVBox(
		widget.NewLabelWithStyle(APPNAME+" "+version, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewRichTextFromMarkdown(res.AboutContent),
	)
	dialog.ShowCustom("Hakkında", "Kapat", content, window)
}
