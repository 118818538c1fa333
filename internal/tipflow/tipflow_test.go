package tipflow

import (
	"testing"
	"time"

	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/services"
)

func testSong() *models.Song {
	return &models.Song{ID: 42, Title: "Hey Jude", Author: "The Beatles"}
}

func okOutcome() *services.RequestOutcome {
	return &services.RequestOutcome{Success: true, OK: true, StatusCode: 200}
}

func tipOutcome() *services.RequestOutcome {
	return &services.RequestOutcome{
		Success:        true,
		OK:             true,
		StatusCode:     200,
		TipIntent:      &models.TipIntent{ID: "ti_1", AmountEuros: 5},
		PayPalClientID: "client-abc",
		PayPalMode:     "sandbox",
	}
}

func TestFlow(t *testing.T) {
	t.Run("Open", func(t *testing.T) {
		var flow Flow
		flow.Open(testSong(), "ada", true)

		if flow.State() != StateCollecting {
			t.Errorf("expected collecting, got %s", flow.State())
		}
		if flow.Song().ID != 42 || flow.Username() != "ada" {
			t.Error("expected song and username to be stored")
		}
		if !flow.TipsEnabled() {
			t.Error("expected tips enabled")
		}
	})

	t.Run("Submit", func(t *testing.T) {
		t.Run("Free Request", func(t *testing.T) {
			var flow Flow
			flow.Open(testSong(), "ada", true)

			amount, ok := flow.Submit()
			if !ok || amount != 0 {
				t.Errorf("expected free submit, got amount=%v ok=%v", amount, ok)
			}
			if flow.State() != StateSubmitting {
				t.Errorf("expected submitting, got %s", flow.State())
			}
		})

		t.Run("With Selected Tip", func(t *testing.T) {
			var flow Flow
			flow.Open(testSong(), "ada", true)
			flow.Selection().SelectChip(5)

			amount, ok := flow.Submit()
			if !ok || amount != 5 {
				t.Errorf("expected amount 5, got %v", amount)
			}
		})

		t.Run("Invalid From Idle", func(t *testing.T) {
			var flow Flow
			if _, ok := flow.Submit(); ok {
				t.Error("expected submit to be rejected from idle")
			}
		})
	})

	t.Run("HandleOutcome", func(t *testing.T) {
		t.Run("Redirect Preempts Everything", func(t *testing.T) {
			var flow Flow
			flow.Open(testSong(), "ada", true)
			flow.Submit()

			action := flow.HandleOutcome(&services.RequestOutcome{
				Success:  true,
				OK:       true,
				Redirect: "/login",
			})

			if action.Kind != ActionRedirect || action.Redirect != "/login" {
				t.Errorf("expected redirect action, got %+v", action)
			}
		})

		t.Run("Success Without Tip Intent Closes", func(t *testing.T) {
			var flow Flow
			flow.Open(testSong(), "ada", true)
			flow.Submit()

			action := flow.HandleOutcome(okOutcome())

			if action.Kind != ActionCloseAfter {
				t.Fatalf("expected close action, got %+v", action)
			}
			if action.Duration != CloseDelay {
				t.Errorf("expected %v delay, got %v", CloseDelay, action.Duration)
			}
			if !action.NotifySuccess {
				t.Error("expected success signal")
			}
			if flow.State() != StateClosing {
				t.Errorf("expected closing, got %s", flow.State())
			}
		})

		t.Run("Success Notice Names The Musician", func(t *testing.T) {
			var flow Flow
			flow.Open(testSong(), "ada", true)
			flow.SetMusician("Paolo")
			flow.Submit()

			action := flow.HandleOutcome(okOutcome())

			if action.Notice != "Request sent to Paolo!" {
				t.Errorf("expected musician in notice, got %q", action.Notice)
			}
		})

		t.Run("Success With Tip Intent Enters Payment", func(t *testing.T) {
			var flow Flow
			flow.Open(testSong(), "ada", true)
			flow.Selection().SelectChip(5)
			flow.Submit()

			action := flow.HandleOutcome(tipOutcome())

			if action.Kind != ActionEnterPayment {
				t.Fatalf("expected payment action, got %+v", action)
			}
			if action.Duration != PaymentStepDelay {
				t.Errorf("expected %v delay, got %v", PaymentStepDelay, action.Duration)
			}
			if action.NotifySuccess {
				t.Error("success signal must wait for the payment step")
			}
			if flow.State() != StateAwaitingTipPayment || flow.Phase() != PhaseCreatingOrder {
				t.Errorf("expected awaiting payment/creating order, got %s/%s", flow.State(), flow.Phase())
			}

			intent := flow.Intent()
			if intent.PayPalClientID != "client-abc" || intent.PayPalMode != "sandbox" {
				t.Errorf("expected credentials merged into intent, got %+v", intent)
			}
		})

		t.Run("Business Error Reopens Collecting", func(t *testing.T) {
			var flow Flow
			flow.Open(testSong(), "ada", true)
			flow.Submit()

			action := flow.HandleOutcome(&services.RequestOutcome{
				OK:         false,
				StatusCode: 400,
				Error:      "something went wrong",
			})

			if action.Kind != ActionError {
				t.Fatalf("expected error action, got %+v", action)
			}
			if action.Duration != ErrorDisplayShort {
				t.Errorf("expected short display, got %v", action.Duration)
			}
			if flow.State() != StateCollecting {
				t.Errorf("expected collecting again, got %s", flow.State())
			}
		})

		t.Run("Max Requests Error Holds Longer", func(t *testing.T) {
			var flow Flow
			flow.Open(testSong(), "ada", true)
			flow.Submit()

			action := flow.HandleOutcome(&services.RequestOutcome{
				OK:         false,
				StatusCode: 400,
				Error:      "Hai raggiunto il numero massimo di richieste",
			})

			if action.Duration != ErrorDisplayLong {
				t.Errorf("expected long display, got %v", action.Duration)
			}
		})
	})

	t.Run("Payment Step", func(t *testing.T) {
		enterPayment := func(t *testing.T) *Flow {
			t.Helper()
			var flow Flow
			flow.Open(testSong(), "ada", true)
			flow.Selection().SelectChip(5)
			flow.Submit()
			flow.HandleOutcome(tipOutcome())
			return &flow
		}

		t.Run("NeedsCredentials", func(t *testing.T) {
			var flow Flow
			flow.Open(testSong(), "ada", true)
			flow.Submit()
			flow.HandleOutcome(&services.RequestOutcome{
				Success:   true,
				OK:        true,
				TipIntent: &models.TipIntent{ID: "ti_1", AmountEuros: 5},
			})

			if !flow.NeedsCredentials() {
				t.Error("expected credentials fetch to be required")
			}

			flow.CredentialsReady(&services.OrderCredentials{
				PayPalClientID: "client-abc",
				PayPalMode:     "sandbox",
				OrderID:        "ORD-1",
			})

			if flow.NeedsCredentials() {
				t.Error("expected credentials to be satisfied")
			}
			if flow.Phase() != PhaseWaitingForApproval {
				t.Errorf("expected waiting for approval, got %s", flow.Phase())
			}
			if flow.KnownOrderID() != "ORD-1" {
				t.Errorf("expected server order id, got %s", flow.KnownOrderID())
			}
		})

		t.Run("Capture Confirmed", func(t *testing.T) {
			flow := enterPayment(t)
			flow.CredentialsReady(nil)
			flow.OrderReady("ORD-1")

			flow.Approved()
			if flow.Phase() != PhaseCapturing {
				t.Errorf("expected capturing, got %s", flow.Phase())
			}

			action := flow.CaptureConfirmed()
			if action.Kind != ActionCloseAfter || !action.NotifySuccess {
				t.Errorf("expected close with success signal, got %+v", action)
			}
			if flow.Phase() != PhaseConfirmed {
				t.Errorf("expected confirmed, got %s", flow.Phase())
			}
		})

		t.Run("Provider Cancel Still Fires Success", func(t *testing.T) {
			flow := enterPayment(t)
			flow.CredentialsReady(nil)

			action := flow.ProviderCancelled()
			if action.Kind != ActionCloseAfter || !action.NotifySuccess {
				t.Errorf("expected close with success signal, got %+v", action)
			}
			if flow.Phase() != PhaseCancelled {
				t.Errorf("expected cancelled, got %s", flow.Phase())
			}
		})

		t.Run("Provider Failure Still Fires Success", func(t *testing.T) {
			flow := enterPayment(t)
			flow.CredentialsReady(nil)

			action := flow.ProviderFailed()
			if !action.NotifySuccess {
				t.Error("expected success signal despite provider failure")
			}
		})

		t.Run("Credentials Failure Is Terminal", func(t *testing.T) {
			flow := enterPayment(t)

			action := flow.CredentialsFailed()
			if action.Kind != ActionCloseAfter || !action.NotifySuccess {
				t.Errorf("expected close with success signal, got %+v", action)
			}
			if flow.Phase() != PhaseFailed || flow.State() != StateClosing {
				t.Errorf("expected failed/closing, got %s/%s", flow.Phase(), flow.State())
			}
		})

		t.Run("Success Signal Fires Exactly Once", func(t *testing.T) {
			flow := enterPayment(t)
			flow.CredentialsReady(nil)

			first := flow.ProviderCancelled()
			second := flow.ProviderCancelled()

			if !first.NotifySuccess {
				t.Error("expected first terminal action to carry the signal")
			}
			if second.NotifySuccess {
				t.Error("expected second terminal action to be silent")
			}
		})
	})

	t.Run("Close Wipes State", func(t *testing.T) {
		flow := &Flow{}
		flow.Open(testSong(), "ada", true)
		flow.Selection().SelectChip(10)
		flow.Submit()
		flow.HandleOutcome(tipOutcome())

		flow.Close()

		if flow.State() != StateIdle || flow.Phase() != PhaseNone {
			t.Errorf("expected idle, got %s/%s", flow.State(), flow.Phase())
		}
		if flow.Song() != nil || flow.Username() != "" || flow.Intent() != nil {
			t.Error("expected per-session state wiped")
		}
		if flow.Selection().Amount() != 0 {
			t.Error("expected selection cleared")
		}
	})

	t.Run("TipOnly", func(t *testing.T) {
		var flow Flow
		flow.OpenTipOnly("ada")

		if !flow.TipOnly() || flow.Song() != nil {
			t.Error("expected tip-only session without a song")
		}
		if flow.Selection().Amount() != NudgeDefaultAmount {
			t.Errorf("expected default amount %v, got %v", NudgeDefaultAmount, flow.Selection().Amount())
		}

		// The original request already succeeded before the nudge; the
		// tip-only checkout never re-fires the success signal.
		flow.Submit()
		action := flow.HandleOutcome(tipOutcome())
		if action.NotifySuccess {
			t.Error("expected no success signal from a tip-only session")
		}
	})
}

func TestSelection(t *testing.T) {
	t.Run("Chip Clears Custom", func(t *testing.T) {
		var s Selection
		s.SetCustomAmount(3.5)
		s.SelectChip(2)

		if !s.ChipSelected(2) || s.CustomSelected() {
			t.Error("expected chip selection to clear custom")
		}
		if s.Amount() != 2 {
			t.Errorf("expected amount 2, got %v", s.Amount())
		}
	})

	t.Run("Custom Clears Chip", func(t *testing.T) {
		var s Selection
		s.SelectChip(10)
		s.SelectCustom()

		if s.ChipSelected(10) || !s.CustomSelected() {
			t.Error("expected custom selection to clear chip")
		}
		if s.Amount() != 0 {
			t.Errorf("expected no amount until a valid value, got %v", s.Amount())
		}
	})

	t.Run("Custom Below Minimum Counts As None", func(t *testing.T) {
		var s Selection
		s.SetCustomAmount(0.5)

		if s.Amount() != 0 {
			t.Errorf("expected no amount, got %v", s.Amount())
		}
		if s.SubmitLabel() != "Invia richiesta" {
			t.Errorf("unexpected label %q", s.SubmitLabel())
		}
	})

	t.Run("Submit Label Mirrors Selection", func(t *testing.T) {
		tc := []struct {
			name  string
			setup func(s *Selection)
			want  string
		}{
			{"None", func(s *Selection) {}, "Invia richiesta"},
			{"Chip", func(s *Selection) { s.SelectChip(5) }, "Invia richiesta + mancia 5 €"},
			{"Custom", func(s *Selection) { s.SetCustomAmount(7.5) }, "Invia richiesta + mancia 7.5 €"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				var s Selection
				tt.setup(&s)
				if got := s.SubmitLabel(); got != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
			})
		}
	})
}

func TestErrorDisplay(t *testing.T) {
	tc := []struct {
		name string
		text string
		want time.Duration
	}{
		{"Italian Cap Message", "Hai raggiunto il numero massimo di richieste", ErrorDisplayLong},
		{"English Cap Message", "Maximum Requests reached", ErrorDisplayLong},
		{"Ordinary Error", "Song not found", ErrorDisplayShort},
		{"Empty", "", ErrorDisplayShort},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorDisplay(tt.text); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestShouldNudge(t *testing.T) {
	tc := []struct {
		name      string
		count     int
		dismissed bool
		want      bool
	}{
		{"First Request", 1, false, false},
		{"Second Request", 2, false, true},
		{"Third Request", 3, false, true},
		{"Fourth Request", 4, false, false},
		{"Dismissed", 2, true, false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldNudge(tt.count, tt.dismissed); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
