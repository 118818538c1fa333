// package tipflow implements the tip and payment checkout flow as a pure
// state machine.
//
// The flow owns no I/O. Callers feed it the song request outcome and
// provider events; every transition returns an [Action] describing what the
// rendering layer should do next (show a notice, wait, enter the payment
// step, close and notify). This keeps every branch of the checkout
// (redirect, tip intent present or absent, provider cancel or error)
// testable without a terminal or a network.
package tipflow

import (
	"strings"
	"time"

	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/services"
)

// State is the top-level position of the checkout dialog.
type State int

const (
	StateIdle State = iota
	StateCollecting
	StateSubmitting
	StateAwaitingTipPayment
	// StateClosing holds the terminal notice on screen until the
	// rendering layer's close timer fires and calls [Flow.Close].
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateSubmitting:
		return "submitting"
	case StateAwaitingTipPayment:
		return "awaiting_tip_payment"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Phase is the position inside the payment step.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseCreatingOrder
	PhaseWaitingForApproval
	PhaseCapturing
	PhaseConfirmed
	PhaseCancelled
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseCreatingOrder:
		return "creating_order"
	case PhaseWaitingForApproval:
		return "waiting_for_approval"
	case PhaseCapturing:
		return "capturing"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseCancelled:
		return "cancelled"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Delays and display durations used by the dialog.
const (
	CloseDelay        = 2 * time.Second
	PaymentStepDelay  = 1500 * time.Millisecond
	NudgeDelay        = 3 * time.Second
	ErrorDisplayShort = 5 * time.Second
	ErrorDisplayLong  = 10 * time.Second
)

// NudgeDefaultAmount is preselected when the standalone tip dialog opens.
const NudgeDefaultAmount = 5.0

// ActionKind tells the rendering layer what a transition asks of it.
type ActionKind int

const (
	// ActionNone means the state changed with nothing to schedule.
	ActionNone ActionKind = iota
	// ActionRedirect means the server redirected; follow it immediately.
	ActionRedirect
	// ActionNotice means show the notice text, no scheduling.
	ActionNotice
	// ActionError means show the error text for Duration.
	ActionError
	// ActionCloseAfter means show the notice, keep the dialog open for
	// Duration, then call the flow's Close and deliver the success
	// signal if NotifySuccess.
	ActionCloseAfter
	// ActionEnterPayment means show the notice, wait Duration, then call
	// BeginPayment.
	ActionEnterPayment
)

// Action is the rendering layer's instruction produced by a transition.
type Action struct {
	Kind          ActionKind
	Redirect      string
	Notice        string
	Duration      time.Duration
	NotifySuccess bool
}

// Flow is one checkout dialog session.
//
// Zero value is an idle flow. Not safe for concurrent use; the rendering
// layer drives it from a single event loop.
type Flow struct {
	state State
	phase Phase

	song      *models.Song
	username  string
	musician  string
	selection Selection
	intent    *models.TipIntent
	orderID   string

	tipsEnabled bool
	tipOnly     bool
	notified    bool
}

// State returns the top-level state.
func (f *Flow) State() State { return f.state }

// Phase returns the payment-step phase.
func (f *Flow) Phase() Phase { return f.phase }

// Song returns the song being requested, nil for a tip-only session.
func (f *Flow) Song() *models.Song { return f.song }

// Username returns the display name the session was opened with.
func (f *Flow) Username() string { return f.username }

// Selection returns the current amount selection for rendering.
func (f *Flow) Selection() *Selection { return &f.selection }

// Intent returns the stored tip intent, nil before one exists.
func (f *Flow) Intent() *models.TipIntent { return f.intent }

// OrderID returns the provider order id once known.
func (f *Flow) OrderID() string { return f.orderID }

// TipsEnabled reports whether tip affordances are shown this session.
func (f *Flow) TipsEnabled() bool { return f.tipsEnabled }

// TipOnly reports whether this session has no associated song.
func (f *Flow) TipOnly() bool { return f.tipOnly }

// Open starts a checkout session for a song. Tip affordances appear only
// when tipsEnabled; otherwise the dialog offers a free request alone.
func (f *Flow) Open(song *models.Song, username string, tipsEnabled bool) {
	f.reset()
	f.state = StateCollecting
	f.song = song
	f.username = username
	f.tipsEnabled = tipsEnabled
}

// OpenTipOnly starts a standalone tip session unconnected to any song,
// with the nudge's default amount preselected.
func (f *Flow) OpenTipOnly(username string) {
	f.reset()
	f.state = StateCollecting
	f.username = username
	f.tipsEnabled = true
	f.tipOnly = true
	f.selection.SelectChip(NudgeDefaultAmount)
}

// SetMusician names the musician in the request success notice. Cleared
// on every Open, so set it after opening the session.
func (f *Flow) SetMusician(name string) {
	f.musician = name
}

// Submit moves to Submitting and returns the tip amount to post, 0 for a
// free request. Only valid from Collecting.
func (f *Flow) Submit() (float64, bool) {
	if f.state != StateCollecting {
		return 0, false
	}
	f.state = StateSubmitting
	return f.selection.Amount(), true
}

// HandleOutcome consumes the server's reply to the submission and returns
// the follow-up for the rendering layer. Only valid from Submitting.
func (f *Flow) HandleOutcome(outcome *services.RequestOutcome) Action {
	if f.state != StateSubmitting {
		return Action{}
	}

	if outcome.Redirect != "" {
		f.state = StateClosing
		return Action{Kind: ActionRedirect, Redirect: outcome.Redirect}
	}

	if !outcome.OK || !outcome.Success {
		// Submit control is live again; the user may retry.
		f.state = StateCollecting
		text := outcome.ErrorText()
		return Action{Kind: ActionError, Notice: text, Duration: ErrorDisplay(text)}
	}

	if intent := outcome.Intent(); intent != nil {
		f.intent = intent
		f.state = StateAwaitingTipPayment
		f.phase = PhaseCreatingOrder
		return Action{
			Kind:     ActionEnterPayment,
			Notice:   f.successNotice() + " Preparing your tip...",
			Duration: PaymentStepDelay,
		}
	}

	f.state = StateClosing
	return Action{
		Kind:          ActionCloseAfter,
		Notice:        f.successNotice(),
		Duration:      CloseDelay,
		NotifySuccess: f.consumeNotify(),
	}
}

// NeedsCredentials reports whether the payment step must fetch PayPal
// credentials before the provider client can be built.
func (f *Flow) NeedsCredentials() bool {
	return f.intent != nil && !f.intent.HasCredentials()
}

// CredentialsReady merges backend-supplied credentials and the
// server-created order id into the stored intent and advances to
// WaitingForApproval.
func (f *Flow) CredentialsReady(creds *services.OrderCredentials) Action {
	if f.state != StateAwaitingTipPayment || f.intent == nil {
		return Action{}
	}

	if creds != nil {
		if creds.PayPalClientID != "" {
			f.intent.PayPalClientID = creds.PayPalClientID
		}
		if creds.PayPalMode != "" {
			f.intent.PayPalMode = creds.PayPalMode
		}
		if creds.OrderID != "" {
			f.intent.PayPalOrderID = creds.OrderID
		}
	}

	f.phase = PhaseWaitingForApproval
	return Action{Kind: ActionNotice, Notice: "Waiting for payment approval..."}
}

// CredentialsFailed is terminal for the payment step: the tip is recorded
// server-side but cannot be paid now. The request itself stands.
func (f *Flow) CredentialsFailed() Action {
	if f.state != StateAwaitingTipPayment {
		return Action{}
	}

	f.phase = PhaseFailed
	f.state = StateClosing
	return Action{
		Kind:          ActionCloseAfter,
		Notice:        "Payment is not available right now. Your request is still active.",
		Duration:      CloseDelay,
		NotifySuccess: f.consumeNotify(),
	}
}

// KnownOrderID returns the server-created order id when one exists. The
// caller creates an order itself only when this is empty.
func (f *Flow) KnownOrderID() string {
	if f.orderID != "" {
		return f.orderID
	}
	if f.intent != nil {
		return f.intent.PayPalOrderID
	}
	return ""
}

// OrderReady records the order id in play and stays in WaitingForApproval.
func (f *Flow) OrderReady(orderID string) {
	f.orderID = orderID
}

// Approved moves to Capturing once the payer approved the order.
func (f *Flow) Approved() Action {
	if f.state != StateAwaitingTipPayment || f.phase != PhaseWaitingForApproval {
		return Action{}
	}
	f.phase = PhaseCapturing
	return Action{Kind: ActionNotice, Notice: "Completing your tip..."}
}

// CaptureConfirmed ends the payment step successfully.
func (f *Flow) CaptureConfirmed() Action {
	if f.state != StateAwaitingTipPayment || f.phase != PhaseCapturing {
		return Action{}
	}

	f.phase = PhaseConfirmed
	f.state = StateClosing
	return Action{
		Kind:          ActionCloseAfter,
		Notice:        "Thank you for your tip!",
		Duration:      CloseDelay,
		NotifySuccess: f.consumeNotify(),
	}
}

// ProviderCancelled handles a payer-side cancellation. The song request is
// never rolled back, so the success signal still fires.
func (f *Flow) ProviderCancelled() Action {
	return f.endPayment(PhaseCancelled, "Tip cancelled. Your song request is still active.")
}

// ProviderFailed handles a provider-side error. Same policy as
// cancellation: the request stands.
func (f *Flow) ProviderFailed() Action {
	return f.endPayment(PhaseFailed, "Tip payment failed. Your song request is still active.")
}

func (f *Flow) endPayment(phase Phase, notice string) Action {
	if f.state != StateAwaitingTipPayment {
		return Action{}
	}

	f.phase = phase
	f.state = StateClosing
	return Action{
		Kind:          ActionCloseAfter,
		Notice:        notice,
		Duration:      CloseDelay,
		NotifySuccess: f.consumeNotify(),
	}
}

// Close wipes all per-session state so nothing leaks into the next
// invocation.
func (f *Flow) Close() {
	f.reset()
}

func (f *Flow) reset() {
	*f = Flow{}
}

func (f *Flow) successNotice() string {
	if f.musician != "" {
		return "Request sent to " + f.musician + "!"
	}
	return "Request sent!"
}

// consumeNotify returns true the first time a terminal transition asks for
// the success signal, false afterwards.
func (f *Flow) consumeNotify() bool {
	if f.tipOnly || f.notified {
		return false
	}
	f.notified = true
	return true
}

// maxRequestPatterns identify the "maximum requests reached" business
// error in either backend language.
var maxRequestPatterns = []string{"massimo di richieste", "Maximum Request"}

// IsMaxRequests reports whether the error text is the request-cap error.
func IsMaxRequests(text string) bool {
	for _, pattern := range maxRequestPatterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}

// ErrorDisplay returns how long an inline error stays visible. The
// request-cap error holds longer than ordinary errors.
func ErrorDisplay(text string) time.Duration {
	if IsMaxRequests(text) {
		return ErrorDisplayLong
	}
	return ErrorDisplayShort
}

// ShouldNudge reports whether the standalone tip nudge appears after a
// successful request: only while the per-visit counter sits at 2 or 3 and
// the user has not dismissed it today.
func ShouldNudge(requestCount int, dismissedToday bool) bool {
	return (requestCount == 2 || requestCount == 3) && !dismissedToday
}
