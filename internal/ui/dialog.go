package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// DialogKind selects the icon and default title of a notification.
type DialogKind int

const (
	KindInfo DialogKind = iota
	KindSuccess
	KindWarning
	KindError
	KindQuestion
)

func (k DialogKind) icon() string {
	switch k {
	case KindSuccess:
		return "✓"
	case KindWarning:
		return "⚠"
	case KindError:
		return "✕"
	case KindQuestion:
		return "?"
	default:
		return "ℹ"
	}
}

func (k DialogKind) defaultTitle() string {
	switch k {
	case KindSuccess:
		return "Success"
	case KindWarning:
		return "Warning"
	case KindError:
		return "Error"
	case KindQuestion:
		return "Question"
	default:
		return "Information"
	}
}

// Dialog is the shared modal used for notifications and confirmations.
// One instance lives on the root model and is reused for every prompt.
// While active it swallows all key input; Escape is the backdrop-dismissal
// equivalent.
type Dialog struct {
	active       bool
	kind         DialogKind
	title        string
	message      string
	confirmLabel string
	cancelLabel  string
	confirmOnly  bool
	danger       bool
	focusCancel  bool

	onConfirm func() tea.Cmd
	onCancel  func() tea.Cmd
}

// Active reports whether the dialog is showing.
func (d *Dialog) Active() bool { return d.active }

// Alert shows a one-button notification. An empty title uses the kind's
// default.
func (d *Dialog) Alert(message string, kind DialogKind, title string) {
	if title == "" {
		title = kind.defaultTitle()
	}

	*d = Dialog{
		active:       true,
		kind:         kind,
		title:        title,
		message:      message,
		confirmLabel: "OK",
		confirmOnly:  true,
	}
}

// Confirm shows a cancel/confirm prompt. onCancel may be nil.
func (d *Dialog) Confirm(message string, onConfirm, onCancel func() tea.Cmd, title string) {
	if title == "" {
		title = "Confirm"
	}

	*d = Dialog{
		active:       true,
		kind:         KindQuestion,
		title:        title,
		message:      message,
		confirmLabel: "Confirm",
		cancelLabel:  "Cancel",
		focusCancel:  true,
		onConfirm:    onConfirm,
		onCancel:     onCancel,
	}
}

// ConfirmDanger is [Dialog.Confirm] with a destructive affirmative label.
func (d *Dialog) ConfirmDanger(message string, onConfirm, onCancel func() tea.Cmd, confirmLabel, title string) {
	if confirmLabel == "" {
		confirmLabel = "Delete"
	}
	if title == "" {
		title = "Confirm Action"
	}

	*d = Dialog{
		active:       true,
		kind:         KindWarning,
		title:        title,
		message:      message,
		confirmLabel: confirmLabel,
		cancelLabel:  "Cancel",
		danger:       true,
		focusCancel:  true,
		onConfirm:    onConfirm,
		onCancel:     onCancel,
	}
}

// Close dismisses the dialog without firing either callback.
func (d *Dialog) Close() {
	*d = Dialog{}
}

// Update consumes key input while the dialog is active. The returned bool
// reports whether the key was handled here.
func (d *Dialog) Update(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !d.active {
		return false, nil
	}

	switch msg.String() {
	case "esc":
		return true, d.cancel()
	case "enter":
		if d.confirmOnly || !d.focusCancel {
			return true, d.confirm()
		}
		return true, d.cancel()
	case "left", "right", "tab":
		if !d.confirmOnly {
			d.focusCancel = !d.focusCancel
		}
		return true, nil
	case "y":
		if !d.confirmOnly {
			return true, d.confirm()
		}
	case "n":
		if !d.confirmOnly {
			return true, d.cancel()
		}
	}

	return true, nil
}

func (d *Dialog) confirm() tea.Cmd {
	fn := d.onConfirm
	d.Close()
	if fn != nil {
		return fn()
	}
	return nil
}

func (d *Dialog) cancel() tea.Cmd {
	fn := d.onCancel
	d.Close()
	if fn != nil {
		return fn()
	}
	return nil
}

// View renders the modal panel.
func (d *Dialog) View() string {
	if !d.active {
		return ""
	}

	header := fmt.Sprintf("%s %s", d.kind.icon(), d.title)
	switch d.kind {
	case KindSuccess:
		header = styles.ok.Render(header)
	case KindError:
		header = styles.err.Render(header)
	case KindWarning:
		header = styles.warn.Render(header)
	default:
		header = styles.title.Render(header)
	}

	body := header + "\n\n" + d.message + "\n\n" + d.buttons()
	return styles.overlay.Render(body)
}

func (d *Dialog) buttons() string {
	if d.confirmOnly {
		return fmt.Sprintf("[ %s ]", d.confirmLabel)
	}

	confirm := d.confirmLabel
	if d.danger {
		confirm = styles.err.Render(confirm)
	}

	if d.focusCancel {
		return fmt.Sprintf("[ %s ]   %s", d.cancelLabel, confirm)
	}
	return fmt.Sprintf("%s   [ %s ]", d.cancelLabel, confirm)
}
