// Package orchestrator sequences one automation cycle: login, balance
// check against the goal, conditional reward collection, conditional parlay
// construction, and outcome reporting. It is the single top-level error
// boundary: every failure ends with an error screenshot, an error
// notification and guaranteed cleanup.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Ducky705/AutoFliff/internal/pkg/storage"
)

// Automator is the browser automation surface the driver sequences.
type Automator interface {
	Login(ctx context.Context) error
	GetBalance(ctx context.Context) (float64, error)
	CheckOpenWagers(ctx context.Context) (bool, error)
	CheckAndClaimRewards(ctx context.Context) (int, error)
	ExecuteBettingStrategy(ctx context.Context, minPayout, maxPayout float64) (bool, error)
	CurrentPayout(ctx context.Context) (float64, error)
	TakeBetScreenshot(ctx context.Context) string
	TakeErrorScreenshot(ctx context.Context) string
	Close()
}

// Notifier reports cycle outcomes to the operator.
type Notifier interface {
	SendStatusUpdate(message string) error
	SendSuccessNotification(balance float64) error
	SendBetConfirmation(wagerAmount, potentialPayout float64, screenshotPath string) error
	SendErrorNotification(errorMessage, screenshotPath string) error
}

// WorkflowManager disables the recurring trigger once the goal is reached.
type WorkflowManager interface {
	DisableWorkflow(ctx context.Context) error
}

// Thresholds are the business limits applied per cycle.
type Thresholds struct {
	GoalBalance float64
	MinBet      float64
	MinPayout   float64
	MaxPayout   float64
}

// Orchestrator drives one cycle. Runs is optional; nil disables history.
type Orchestrator struct {
	automator  Automator
	notifier   Notifier
	workflow   WorkflowManager
	runs       storage.RunStorage
	thresholds Thresholds

	now func() time.Time
}

func New(automator Automator, notifier Notifier, workflow WorkflowManager, runs storage.RunStorage, thresholds Thresholds) *Orchestrator {
	return &Orchestrator{
		automator:  automator,
		notifier:   notifier,
		workflow:   workflow,
		runs:       runs,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// Run executes one cycle. All failures are handled here (screenshot,
// notification, cleanup) before the error is returned for the exit code.
func (o *Orchestrator) Run(ctx context.Context) error {
	record := &storage.RunRecord{StartedAt: o.now()}
	var screenshotPath string

	defer o.cleanup(&screenshotPath, record)

	slog.Info("Starting bot execution")
	o.notifyStatus("Bot started execution")

	if err := o.automator.Login(ctx); err != nil {
		return o.fail(ctx, record, &screenshotPath, err)
	}

	balance, err := o.automator.GetBalance(ctx)
	if err != nil {
		return o.fail(ctx, record, &screenshotPath, err)
	}
	record.BalanceBefore = balance
	record.BalanceAfter = balance

	if balance >= o.thresholds.GoalBalance {
		slog.Info("Goal already met", "balance", fmt.Sprintf("$%.2f", balance), "goal", fmt.Sprintf("$%.2f", o.thresholds.GoalBalance))
		if err := o.notifier.SendSuccessNotification(balance); err != nil {
			slog.Error("Failed to send success notification", "error", err)
		}
		if err := o.workflow.DisableWorkflow(ctx); err != nil {
			slog.Error("Failed to disable workflow", "error", err)
		}
		record.Status = "goal_reached"
		return nil
	}

	hasBlockingWagers, err := o.automator.CheckOpenWagers(ctx)
	if err != nil {
		return o.fail(ctx, record, &screenshotPath, err)
	}

	// Phase 1: resource collection.
	if balance < o.thresholds.MinBet && !hasBlockingWagers {
		slog.Info("Balance below threshold, attempting to collect rewards")
		claimed, err := o.automator.CheckAndClaimRewards(ctx)
		if err != nil {
			return o.fail(ctx, record, &screenshotPath, err)
		}
		record.RewardsClaimed = claimed

		balance, err = o.automator.GetBalance(ctx)
		if err != nil {
			return o.fail(ctx, record, &screenshotPath, err)
		}
		record.BalanceAfter = balance
		slog.Info("Balance after rewards", "balance", fmt.Sprintf("$%.2f", balance))

		if balance < o.thresholds.MinBet {
			slog.Info("Balance still below minimum bet threshold", "threshold", fmt.Sprintf("$%.2f", o.thresholds.MinBet))
			o.notifyStatus(fmt.Sprintf(
				"Rewards collected but balance still insufficient for betting. Current balance: $%.2f", balance))
			record.Status = "insufficient_balance"
			return nil
		}
	}

	// Phase 2: parlay construction and betting.
	if balance >= o.thresholds.MinBet && !hasBlockingWagers {
		slog.Info("Balance sufficient for betting and no blocking wagers, constructing parlay")
		betPlaced, err := o.automator.ExecuteBettingStrategy(ctx, o.thresholds.MinPayout, o.thresholds.MaxPayout)
		if err != nil {
			return o.fail(ctx, record, &screenshotPath, err)
		}

		if betPlaced {
			slog.Info("Bet placed successfully")
			screenshotPath = o.automator.TakeBetScreenshot(ctx)

			finalBalance, err := o.automator.GetBalance(ctx)
			if err != nil {
				return o.fail(ctx, record, &screenshotPath, err)
			}
			potentialPayout, err := o.automator.CurrentPayout(ctx)
			if err != nil {
				return o.fail(ctx, record, &screenshotPath, err)
			}

			if err := o.notifier.SendBetConfirmation(finalBalance, potentialPayout, screenshotPath); err != nil {
				slog.Error("Failed to send bet confirmation", "error", err)
			}
			record.Status = "bet_placed"
			record.BetPlaced = true
			record.Payout = potentialPayout
			record.BalanceAfter = finalBalance
		} else {
			slog.Info("No suitable parlay could be constructed")
			o.notifyStatus("No suitable parlay could be constructed from available games. " +
				"Will try again on next scheduled run.")
			record.Status = "no_parlay"
		}
	} else if hasBlockingWagers {
		slog.Info("Open wagers block further action this cycle")
		record.Status = "blocked_wager"
	}

	slog.Info("Bot execution completed successfully")
	return nil
}

// fail is the single error path: best-effort error screenshot, error
// notification with the failure message, record update. The original error
// is returned unchanged.
func (o *Orchestrator) fail(ctx context.Context, record *storage.RunRecord, screenshotPath *string, err error) error {
	slog.Error("Critical error in bot execution", "error", err)
	*screenshotPath = o.automator.TakeErrorScreenshot(ctx)
	if nerr := o.notifier.SendErrorNotification(err.Error(), *screenshotPath); nerr != nil {
		slog.Error("Failed to send error notification", "error", nerr)
	}
	record.Status = "error"
	record.Error = err.Error()
	return err
}

// cleanup always runs: session teardown, screenshot removal (tolerating a
// file already gone) and run-history persistence. Failures here are logged
// and never propagate.
func (o *Orchestrator) cleanup(screenshotPath *string, record *storage.RunRecord) {
	slog.Info("Performing cleanup")
	o.automator.Close()

	if *screenshotPath != "" {
		if err := os.Remove(*screenshotPath); err == nil {
			slog.Info("Cleaned up screenshot", "path", *screenshotPath)
		} else if !os.IsNotExist(err) {
			slog.Error("Error during screenshot cleanup", "error", err)
		}
	}

	if o.runs != nil {
		record.FinishedAt = o.now()
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := o.runs.SaveRun(saveCtx, record); err != nil {
			slog.Error("Failed to save run history", "error", err)
		}
	}
}

// notifyStatus sends a status update, logging (not propagating) failures:
// the run must not die because a status message did not go through.
func (o *Orchestrator) notifyStatus(message string) {
	if err := o.notifier.SendStatusUpdate(message); err != nil {
		slog.Error("Failed to send status update", "error", err)
	}
}
