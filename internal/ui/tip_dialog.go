package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/encorelive/encore/internal/images"
	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/services"
	"github.com/encorelive/encore/internal/tipflow"
)

// ProviderFactory builds (or returns the cached) payment provider for a
// tip intent's credentials. Built at most once per process.
type ProviderFactory func(intent *models.TipIntent) (services.Provider, error)

// tipDialog is the modal that drives [tipflow.Flow]: amount collection,
// request submission, and the PayPal checkout.
type tipDialog struct {
	ctx         context.Context
	backend     services.Backend
	providerFor ProviderFactory
	resolver    *images.Resolver
	openURL     func(string) error

	musicianName string

	flow        tipflow.Flow
	customInput textinput.Model
	cursor      int // index into tipflow.Chips; len(Chips) is the custom slot
	notice      string
	noticeErr   bool
	pendingSong int
	wantsNotify bool
}

func newTipDialog(ctx context.Context, backend services.Backend, providerFor ProviderFactory, resolver *images.Resolver, musicianName string, openURL func(string) error) tipDialog {
	if resolver == nil {
		resolver = &images.Resolver{}
	}

	input := textinput.New()
	input.Placeholder = "Importo in €"
	input.CharLimit = 8

	return tipDialog{
		ctx:          ctx,
		backend:      backend,
		providerFor:  providerFor,
		resolver:     resolver,
		openURL:      openURL,
		musicianName: musicianName,
		customInput:  input,
		cursor:       -1,
	}
}

// Active reports whether the dialog owns the screen. A closing session
// stays active so its final notice remains visible until the close timer
// fires.
func (d *tipDialog) Active() bool {
	switch d.flow.State() {
	case tipflow.StateCollecting, tipflow.StateSubmitting, tipflow.StateAwaitingTipPayment, tipflow.StateClosing:
		return true
	}
	return false
}

// Open starts a checkout session for a song.
func (d *tipDialog) Open(song *models.Song, username string, tipsEnabled bool) {
	d.reset()
	d.flow.Open(song, username, tipsEnabled)
	d.flow.SetMusician(d.musicianName)
}

// OpenTipOnly starts the standalone tip dialog the nudge offers.
func (d *tipDialog) OpenTipOnly(username string) {
	d.reset()
	d.flow.OpenTipOnly(username)
	for i, chip := range tipflow.Chips {
		if chip.Amount == tipflow.NudgeDefaultAmount {
			d.cursor = i
		}
	}
}

func (d *tipDialog) reset() {
	d.flow.Close()
	d.cursor = -1
	d.notice = ""
	d.noticeErr = false
	d.pendingSong = 0
	d.wantsNotify = false
	d.customInput.Reset()
	d.customInput.Blur()
}

// Update consumes key input while active.
func (d *tipDialog) Update(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !d.Active() {
		return false, nil
	}

	// A closing session swallows input until its timer resets it, so the
	// final notice cannot be dismissed into a half-open next session.
	if d.flow.State() == tipflow.StateClosing {
		return true, nil
	}

	if d.flow.State() == tipflow.StateAwaitingTipPayment {
		return true, d.handlePaymentKeys(msg)
	}

	if d.customInput.Focused() {
		switch msg.String() {
		case "enter":
			d.applyCustomAmount()
			d.customInput.Blur()
		case "esc":
			d.customInput.Blur()
			d.flow.Selection().Clear()
			d.cursor = -1
		default:
			var cmd tea.Cmd
			d.customInput, cmd = d.customInput.Update(msg)
			d.applyCustomAmount()
			return true, cmd
		}
		return true, nil
	}

	switch msg.String() {
	case "esc":
		d.reset()
		return true, nil
	case "left", "h":
		d.moveCursor(-1)
		return true, nil
	case "right", "tab":
		d.moveCursor(1)
		return true, nil
	case "enter":
		return true, d.submit()
	}

	return true, nil
}

func (d *tipDialog) handlePaymentKeys(msg tea.KeyMsg) tea.Cmd {
	if d.flow.Phase() != tipflow.PhaseWaitingForApproval {
		return nil
	}

	switch msg.String() {
	case "enter":
		d.flow.Approved()
		d.notice = "Completing your tip..."
		return d.capture()
	case "esc", "c":
		return d.schedule(d.flow.ProviderCancelled())
	}
	return nil
}

// moveCursor walks the tip choices; the slot after the last chip is the
// custom input. Without tip affordances there is nothing to move over.
func (d *tipDialog) moveCursor(delta int) {
	if !d.flow.TipsEnabled() || d.flow.State() != tipflow.StateCollecting {
		return
	}

	slots := len(tipflow.Chips) + 1
	d.cursor += delta
	switch {
	case d.cursor < -1:
		d.cursor = slots - 1
	case d.cursor >= slots:
		d.cursor = -1
	}

	selection := d.flow.Selection()
	switch {
	case d.cursor == -1:
		selection.Clear()
		d.customInput.Blur()
	case d.cursor < len(tipflow.Chips):
		selection.SelectChip(tipflow.Chips[d.cursor].Amount)
		d.customInput.Blur()
	default:
		selection.SelectCustom()
		d.customInput.Reset()
		d.customInput.Focus()
	}
}

func (d *tipDialog) applyCustomAmount() {
	value, err := strconv.ParseFloat(d.customInput.Value(), 64)
	if err != nil {
		d.flow.Selection().SetCustomAmount(0)
		return
	}
	d.flow.Selection().SetCustomAmount(value)
}

// submit posts the request (or the standalone tip) with the selected
// amount.
func (d *tipDialog) submit() tea.Cmd {
	// A standalone tip without an amount has nothing to send.
	if d.flow.TipOnly() && d.flow.Selection().Amount() < tipflow.CustomMinAmount {
		return nil
	}

	amount, ok := d.flow.Submit()
	if !ok {
		return nil
	}

	if d.flow.TipOnly() {
		return func() tea.Msg {
			outcome, err := d.backend.CreateTip(d.ctx, amount)
			return outcomeMsg{outcome: outcome, err: err}
		}
	}

	song := d.flow.Song()
	user := d.flow.Username()
	d.pendingSong = song.ID
	return func() tea.Msg {
		outcome, err := d.backend.RequestSong(d.ctx, song.ID, user, amount)
		return outcomeMsg{outcome: outcome, err: err}
	}
}

// handleOutcome feeds the server reply to the flow and schedules whatever
// it asks for.
func (d *tipDialog) handleOutcome(msg outcomeMsg) tea.Cmd {
	outcome := msg.outcome
	if msg.err != nil {
		outcome = &services.RequestOutcome{Error: msg.err.Error()}
	}
	return d.schedule(d.flow.HandleOutcome(outcome))
}

// schedule turns a flow action into notices and timers.
func (d *tipDialog) schedule(action tipflow.Action) tea.Cmd {
	switch action.Kind {
	case tipflow.ActionRedirect:
		url := action.Redirect
		d.reset()
		return func() tea.Msg {
			return errMsg{err: d.openURL(url)}
		}

	case tipflow.ActionNotice:
		d.notice = action.Notice
		d.noticeErr = false
		return nil

	case tipflow.ActionError:
		d.notice = action.Notice
		d.noticeErr = true
		return tea.Tick(action.Duration, func(time.Time) tea.Msg { return noticeExpiredMsg{} })

	case tipflow.ActionCloseAfter:
		d.notice = action.Notice
		d.noticeErr = false
		d.wantsNotify = d.wantsNotify || action.NotifySuccess
		return tea.Tick(action.Duration, func(time.Time) tea.Msg {
			return flowTimerMsg{kind: tipflow.ActionCloseAfter}
		})

	case tipflow.ActionEnterPayment:
		d.notice = action.Notice
		d.noticeErr = false
		return tea.Tick(action.Duration, func(time.Time) tea.Msg {
			return flowTimerMsg{kind: tipflow.ActionEnterPayment}
		})
	}

	return nil
}

// handleTimer runs the action scheduled by schedule once its delay
// elapses.
func (d *tipDialog) handleTimer(msg flowTimerMsg) tea.Cmd {
	switch msg.kind {
	case tipflow.ActionCloseAfter:
		// A timer from an already-closed session must not touch the
		// current one.
		if d.flow.State() != tipflow.StateClosing {
			return nil
		}
		songID := d.pendingSong
		notify := d.wantsNotify
		d.reset()
		if notify {
			return func() tea.Msg { return requestSucceededMsg{songID: songID} }
		}
		return nil

	case tipflow.ActionEnterPayment:
		return d.beginPayment()
	}
	return nil
}

// beginPayment fetches credentials when the intent lacks them, otherwise
// goes straight to the order.
func (d *tipDialog) beginPayment() tea.Cmd {
	intent := d.flow.Intent()
	if intent == nil {
		return d.schedule(d.flow.CredentialsFailed())
	}

	if d.flow.NeedsCredentials() {
		intentID := intent.ID
		return func() tea.Msg {
			creds, err := d.backend.CreatePayPalOrder(d.ctx, intentID)
			return orderCredsMsg{creds: creds, err: err}
		}
	}

	d.schedule(d.flow.CredentialsReady(nil))
	return d.ensureOrder()
}

// handleCreds consumes the credential fetch.
func (d *tipDialog) handleCreds(msg orderCredsMsg) tea.Cmd {
	if msg.err != nil {
		return d.schedule(d.flow.CredentialsFailed())
	}
	d.schedule(d.flow.CredentialsReady(msg.creds))
	return d.ensureOrder()
}

// ensureOrder reuses the server-created order id when one is known; only
// otherwise is an order created from the stored amount and currency.
func (d *tipDialog) ensureOrder() tea.Cmd {
	if orderID := d.flow.KnownOrderID(); orderID != "" {
		d.flow.OrderReady(orderID)
		return d.openApproval(orderID)
	}

	intent := d.flow.Intent()
	return func() tea.Msg {
		provider, err := d.providerFor(intent)
		if err != nil {
			return orderCreatedMsg{err: err}
		}
		orderID, err := provider.CreateOrder(d.ctx, intent.AmountEuros, intent.CurrencyCode())
		return orderCreatedMsg{orderID: orderID, err: err}
	}
}

func (d *tipDialog) handleOrderCreated(msg orderCreatedMsg) tea.Cmd {
	if msg.err != nil {
		return d.schedule(d.flow.ProviderFailed())
	}
	d.flow.OrderReady(msg.orderID)
	return d.openApproval(msg.orderID)
}

// openApproval hands the provider's approval URL to the system browser.
func (d *tipDialog) openApproval(orderID string) tea.Cmd {
	intent := d.flow.Intent()
	return func() tea.Msg {
		provider, err := d.providerFor(intent)
		if err != nil {
			return approvalOpenedMsg{err: err}
		}
		url, err := provider.ApprovalLink(d.ctx, orderID)
		if err != nil {
			return approvalOpenedMsg{err: err}
		}
		return approvalOpenedMsg{url: url, err: d.openURL(url)}
	}
}

func (d *tipDialog) handleApprovalOpened(msg approvalOpenedMsg) tea.Cmd {
	if msg.err != nil {
		return d.schedule(d.flow.ProviderFailed())
	}
	d.notice = "Approve the payment in your browser, then press enter. Esc cancels."
	d.noticeErr = false
	return nil
}

// capture captures the approved order and confirms it with the backend.
func (d *tipDialog) capture() tea.Cmd {
	intent := d.flow.Intent()
	orderID := d.flow.KnownOrderID()
	return func() tea.Msg {
		provider, err := d.providerFor(intent)
		if err != nil {
			return captureMsg{err: err}
		}
		if err := provider.CaptureOrder(d.ctx, orderID); err != nil {
			return captureMsg{err: err}
		}
		return captureMsg{err: d.backend.ConfirmCapture(d.ctx, intent.ID, orderID)}
	}
}

func (d *tipDialog) handleCapture(msg captureMsg) tea.Cmd {
	if msg.err != nil {
		return d.schedule(d.flow.ProviderFailed())
	}
	return d.schedule(d.flow.CaptureConfirmed())
}

func (d *tipDialog) clearNotice() {
	d.notice = ""
	d.noticeErr = false
}

// View renders the modal.
func (d *tipDialog) View() string {
	if !d.Active() {
		return ""
	}

	var body string
	if song := d.flow.Song(); song != nil {
		body = styles.title.Render(song.Title) + "\n" + song.Author + "\n"
		if song.Image != "" {
			body += styles.help.Render(d.resolver.Resolve(song.Image, "")) + "\n"
		}
		body += "\nLa richiesta è gratuita.\n"
	} else {
		body = styles.title.Render("Offri una mancia") + "\n"
	}

	if d.notice != "" {
		line := d.notice
		if d.noticeErr {
			line = styles.err.Render(line)
		} else {
			line = styles.ok.Render(line)
		}
		body = line + "\n\n" + body
	}

	if d.flow.State() == tipflow.StateCollecting && d.flow.TipsEnabled() {
		body += "\nMancia (opzionale)\n" + d.renderChips() + "\n"
		if d.customInput.Focused() {
			body += d.customInput.View() + "\n"
		}
		body += "\n[ " + d.flow.Selection().SubmitLabel() + " ]"
	} else if d.flow.State() == tipflow.StateCollecting {
		body += "\n[ " + d.flow.Selection().SubmitLabel() + " ]"
	}

	return styles.overlay.Render(body)
}

func (d *tipDialog) renderChips() string {
	var out string
	for i, chip := range tipflow.Chips {
		label := fmt.Sprintf("%g € %s", chip.Amount, chip.Label)
		if d.cursor == i {
			label = styles.ok.Render("[" + label + "]")
		} else {
			label = " " + label + " "
		}
		out += label + " "
	}

	custom := "Altro"
	if d.cursor == len(tipflow.Chips) {
		custom = styles.ok.Render("[" + custom + "]")
	}
	return out + custom
}
