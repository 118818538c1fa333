package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/services"
	"github.com/encorelive/encore/internal/shared"
	"github.com/encorelive/encore/internal/tipflow"
	"github.com/urfave/cli/v3"
)

// Request submits a song request, attaching a tip when --tip is given.
func (r *Runner) Request(ctx context.Context, cmd *cli.Command) error {
	songID, err := strconv.Atoi(cmd.StringArg("song-id"))
	if err != nil {
		return fmt.Errorf("%w: song-id must be a number", shared.ErrInvalidArgument)
	}

	username, err := r.username()
	if err != nil {
		return err
	}

	tip := cmd.Float("tip")
	if tip != 0 && tip < tipflow.CustomMinAmount {
		return fmt.Errorf("%w: tip must be at least %s euro", shared.ErrInvalidArgument, shared.FormatEuros(tipflow.CustomMinAmount))
	}

	r.logger.Info("requesting song", "song_id", songID, "username", username, "tip", tip)

	outcome, err := r.backend.RequestSong(ctx, songID, username, tip)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.handleOutcome(ctx, outcome, songID)
}

// RequestRemove withdraws one of the user's requests.
func (r *Runner) RequestRemove(ctx context.Context, cmd *cli.Command) error {
	songID, err := strconv.Atoi(cmd.StringArg("song-id"))
	if err != nil {
		return fmt.Errorf("%w: song-id must be a number", shared.ErrInvalidArgument)
	}

	username, err := r.username()
	if err != nil {
		return err
	}

	message, err := r.backend.DeleteRequest(ctx, songID, username)
	if err != nil {
		return err
	}

	if err := r.store.RemoveRequestedID(songID); err != nil {
		r.logger.Warn("failed to update requested-song cache", "error", err)
	}

	return r.writePlainln("%s", message)
}

// RequestList prints the user's outstanding requests.
func (r *Runner) RequestList(ctx context.Context, cmd *cli.Command) error {
	requests, err := r.backend.UserRequests(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(requests, true)
	}

	if len(requests) == 0 {
		return r.writePlainln("No outstanding requests.")
	}

	for i, request := range requests {
		r.writePlainln("%d. %s - %s", i+1, request.Author, request.Title)
	}
	return nil
}

// Tip sends a standalone tip with no song attached.
func (r *Runner) Tip(ctx context.Context, cmd *cli.Command) error {
	amount, err := strconv.ParseFloat(cmd.StringArg("amount"), 64)
	if err != nil || amount < tipflow.CustomMinAmount {
		return fmt.Errorf("%w: amount must be at least %s euro", shared.ErrInvalidArgument, shared.FormatEuros(tipflow.CustomMinAmount))
	}

	r.logger.Info("creating tip", "amount", amount)

	outcome, err := r.backend.CreateTip(ctx, amount)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.handleOutcome(ctx, outcome, 0)
}

// handleOutcome interprets a request outcome: business errors print and
// fail, tip intents continue into the payment flow.
func (r *Runner) handleOutcome(ctx context.Context, outcome *services.RequestOutcome, songID int) error {
	if outcome.Redirect != "" {
		r.writePlainln("Session expired, log in again at %s", outcome.Redirect)
		return shared.ErrSessionExpired
	}

	if outcome.Error != "" {
		if tipflow.IsMaxRequests(outcome.Error) {
			return fmt.Errorf("request limit reached: %s", outcome.Error)
		}
		return fmt.Errorf("request failed: %s", outcome.ErrorText())
	}

	if songID != 0 {
		if err := r.store.AddRequestedID(songID); err != nil {
			r.logger.Warn("failed to update requested-song cache", "error", err)
		}
		r.scope.IncrementRequestCount()
		if name := r.config.Branding.MusicianName; name != "" {
			r.writePlainln("Request sent to %s!", name)
		} else {
			r.writePlainln("Request sent!")
		}
	}

	intent := outcome.Intent()
	if intent == nil {
		// A standalone tip is nothing but its intent; the server
		// replying without one means there is no payment to complete.
		if songID == 0 {
			return shared.ErrMissingTipIntent
		}
		return nil
	}
	return r.completeTip(ctx, intent)
}

// completeTip walks a tip intent through order creation, browser approval,
// and capture. A failed or cancelled tip never undoes the song request.
func (r *Runner) completeTip(ctx context.Context, intent *models.TipIntent) error {
	orderID := intent.PayPalOrderID

	if intent.ID != "" && (intent.PayPalClientID == "" || orderID == "") {
		creds, err := r.backend.CreatePayPalOrder(ctx, intent.ID)
		if err != nil {
			return fmt.Errorf("failed to prepare tip payment: %w", err)
		}
		if creds.PayPalClientID != "" {
			intent.PayPalClientID = creds.PayPalClientID
		}
		if creds.PayPalMode != "" {
			intent.PayPalMode = creds.PayPalMode
		}
		if creds.OrderID != "" {
			orderID = creds.OrderID
		}
	}

	provider, err := r.providerFor(intent)
	if err != nil {
		return fmt.Errorf("failed to initialize payment provider: %w", err)
	}

	if orderID == "" {
		if orderID, err = provider.CreateOrder(ctx, intent.AmountEuros, intent.CurrencyCode()); err != nil {
			return fmt.Errorf("failed to create payment order: %w", err)
		}
	}

	link, err := provider.ApprovalLink(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to fetch approval link: %w", err)
	}

	r.writePlainln("Approve the %s tip in your browser:", shared.FormatEuros(intent.AmountEuros))
	r.writePlainln("  %s", link)
	if err := shared.OpenBrowser(link); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
	}

	r.writePlain("Press enter once approved (or ctrl+c to skip the tip): ")
	bufio.NewReader(os.Stdin).ReadString('\n')

	if err := provider.CaptureOrder(ctx, orderID); err != nil {
		return fmt.Errorf("failed to capture payment: %w", err)
	}
	if intent.ID != "" {
		if err := r.backend.ConfirmCapture(ctx, intent.ID, orderID); err != nil {
			return fmt.Errorf("failed to confirm capture: %w", err)
		}
	}

	return r.writePlainln("Thank you for your tip!")
}
