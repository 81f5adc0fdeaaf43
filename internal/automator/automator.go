// Package automator drives the betting site's mobile UI through the browser
// primitives: login, balance reads, wager detection, reward claiming, parlay
// construction and bet submission. Every public operation retries with
// bounded exponential backoff because the page renders asynchronously and
// individual waits routinely time out on slow loads.
package automator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Ducky705/AutoFliff/internal/pkg/browser"
	"github.com/Ducky705/AutoFliff/internal/pkg/odds"
	"github.com/Ducky705/AutoFliff/internal/pkg/retry"
)

// An already-open wager whose potential payout exceeds this blocks reward
// collection and betting for the cycle.
const blockingPayout = 1.80

// How long to wait for the optional post-login location-consent prompt.
// Its absence is normal.
const locationPromptTimeout = 5 * time.Second

// Config holds everything the automator needs up front. Credentials and
// geolocation come from the validated application config, never from the
// process environment at call time.
type Config struct {
	BaseURL       string
	Username      string
	Password      string
	Latitude      float64
	Longitude     float64
	ScreenshotDir string
}

// Automator is the facade combining the page session and the UI operations.
// It owns its browser session exclusively: the session opens lazily on the
// first UI operation and lives until Close. Not safe for concurrent use;
// callers must serialize operations against one instance.
type Automator struct {
	cfg    Config
	policy retry.Policy

	session *browser.Session
	page    browser.Page

	// test seams
	sleep func(time.Duration)
	now   func() time.Time
}

// New builds an automator. The selector registry is validated here so a
// broken registry fails at startup, not mid-cycle.
func New(cfg Config) (*Automator, error) {
	if err := validateSelectors(); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://fliff.com"
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	return &Automator{
		cfg:    cfg,
		policy: retry.DefaultPolicy(),
		sleep:  time.Sleep,
		now:    time.Now,
	}, nil
}

// ensurePage opens the browser session on first use.
func (a *Automator) ensurePage() (browser.Page, error) {
	if a.page != nil {
		return a.page, nil
	}
	sess := browser.NewSession(browser.SessionConfig{
		Latitude:  a.cfg.Latitude,
		Longitude: a.cfg.Longitude,
	})
	if err := sess.Open(); err != nil {
		return nil, err
	}
	a.session = sess
	a.page = sess.Page()
	return a.page, nil
}

// Login navigates to the login route, submits credentials, dismisses the
// optional location-consent prompt and waits for the page to settle.
func (a *Automator) Login(ctx context.Context) error {
	return retry.DoVoid(ctx, "login", a.policy, a.loginOnce)
}

func (a *Automator) loginOnce(ctx context.Context) error {
	page, err := a.ensurePage()
	if err != nil {
		return err
	}

	slog.Info("Navigating to login page")
	if err := page.Navigate(ctx, a.cfg.BaseURL+"/login"); err != nil {
		return fmt.Errorf("%w: %v", ErrLogin, err)
	}

	loginButton, err := page.WaitVisible(ctx, sel(selLoginButton), 0)
	if err != nil {
		return fmt.Errorf("%w: login control never appeared: %v", ErrLogin, err)
	}

	slog.Info("Entering credentials")
	if err := page.Fill(ctx, sel(selUsernameInput), a.cfg.Username); err != nil {
		return fmt.Errorf("%w: %v", ErrLogin, err)
	}
	if err := page.Fill(ctx, sel(selPasswordInput), a.cfg.Password); err != nil {
		return fmt.Errorf("%w: %v", ErrLogin, err)
	}
	if err := loginButton.Click(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrLogin, err)
	}

	// The location prompt only shows on fresh sessions; absence is not an error.
	if consent, err := page.WaitVisible(ctx, sel(selLocationContinue), locationPromptTimeout); err == nil {
		if err := consent.Click(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrLogin, err)
		}
		slog.Info("Location prompt handled")
	} else {
		slog.Info("No location prompt found")
	}

	if err := page.WaitReady(ctx); err != nil {
		return fmt.Errorf("%w: navigation never settled: %v", ErrLogin, err)
	}
	slog.Info("Login completed successfully")
	return nil
}

// GetBalance navigates to the account view and parses the displayed cash
// balance. The result is always non-negative.
func (a *Automator) GetBalance(ctx context.Context) (float64, error) {
	return retry.Do(ctx, "get_balance", a.policy, a.balanceOnce)
}

func (a *Automator) balanceOnce(ctx context.Context) (float64, error) {
	page, err := a.ensurePage()
	if err != nil {
		return 0, err
	}

	slog.Info("Fetching current balance")
	if err := page.Click(ctx, sel(selNavAccount)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBalanceRead, err)
	}
	if err := page.WaitReady(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBalanceRead, err)
	}

	element, err := page.WaitVisible(ctx, sel(selBalance), 0)
	if err != nil {
		return 0, fmt.Errorf("%w: balance element not found: %v", ErrBalanceRead, err)
	}
	text, err := element.Text(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBalanceRead, err)
	}
	balance, err := odds.ParseMoney(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBalanceRead, err)
	}

	slog.Info("Current balance", "balance", fmt.Sprintf("$%.2f", balance))
	return balance, nil
}

// CheckOpenWagers reports whether any already-open bet slip has a potential
// payout above the blocking threshold. No slips, or no parsable payouts,
// means not blocking; that is a result, not an error.
func (a *Automator) CheckOpenWagers(ctx context.Context) (bool, error) {
	return retry.Do(ctx, "check_open_wagers", a.policy, a.checkWagersOnce)
}

func (a *Automator) checkWagersOnce(ctx context.Context) (bool, error) {
	page, err := a.ensurePage()
	if err != nil {
		return false, err
	}

	slog.Info("Checking for open wagers")
	if err := page.Click(ctx, sel(selNavActivity)); err != nil {
		return false, err
	}
	if err := page.WaitReady(ctx); err != nil {
		return false, err
	}

	slips, err := page.QueryAll(ctx, sel(selBetSlip))
	if err != nil {
		return false, err
	}
	if len(slips) == 0 {
		slog.Info("No open wagers found")
		return false, nil
	}

	for _, slip := range slips {
		text, err := slip.Text(ctx)
		if err != nil {
			return false, err
		}
		if !strings.Contains(strings.ToLower(text), "payout") {
			continue
		}
		if payout, ok := odds.ExtractAmount(text); ok && payout > blockingPayout {
			slog.Info("Found blocking wager", "payout", fmt.Sprintf("$%.2f", payout))
			return true, nil
		}
	}

	slog.Info("No blocking wagers found")
	return false, nil
}

// CheckAndClaimRewards claims the shop free-coins plaque if present, then
// every claim-labelled control on the rewards view. Absent claim controls
// simply yield zero claims. Returns how many rewards were claimed.
func (a *Automator) CheckAndClaimRewards(ctx context.Context) (int, error) {
	return retry.Do(ctx, "claim_rewards", a.policy, a.claimRewardsOnce)
}

func (a *Automator) claimRewardsOnce(ctx context.Context) (int, error) {
	page, err := a.ensurePage()
	if err != nil {
		return 0, err
	}

	slog.Info("Checking and claiming rewards")
	if err := page.Click(ctx, sel(selNavShop)); err != nil {
		return 0, err
	}
	if err := page.WaitReady(ctx); err != nil {
		return 0, err
	}

	claimed := 0
	shopClaim, err := page.Query(ctx, sel(selShopClaimButton))
	if err != nil {
		return 0, err
	}
	if shopClaim != nil {
		if err := shopClaim.Click(ctx); err != nil {
			return 0, err
		}
		claimed++
		slog.Info("Shop rewards claimed")
		a.sleep(2 * time.Second) // claim animation
	}

	if err := page.Click(ctx, sel(selNavRewards)); err != nil {
		return claimed, err
	}
	if err := page.WaitReady(ctx); err != nil {
		return claimed, err
	}

	buttons, err := page.QueryAll(ctx, sel(selRewardsClaim))
	if err != nil {
		return claimed, err
	}
	for _, button := range buttons {
		text, err := button.Text(ctx)
		if err != nil {
			return claimed, err
		}
		if !strings.Contains(strings.ToLower(text), "claim") {
			continue
		}
		if err := button.Click(ctx); err != nil {
			return claimed, err
		}
		claimed++
		a.sleep(1 * time.Second)
	}

	slog.Info("Rewards claimed", "count", claimed)
	return claimed, nil
}

// parlayCandidate is a safe-odds proposal discovered on the sports listing,
// kept in UI-listed order.
type parlayCandidate struct {
	element browser.Element
	odds    float64
}

// ExecuteBettingStrategy builds a parlay greedily from safe-odds proposals
// until the running payout enters [minPayout, maxPayout] or candidates run
// out. Returns true when the final payout is at least minPayout. No games
// or no safe-odds proposals is a false result, not an error.
//
// The accumulation never backtracks: an overshoot past maxPayout without
// landing inside the band still succeeds if the payout cleared minPayout.
func (a *Automator) ExecuteBettingStrategy(ctx context.Context, minPayout, maxPayout float64) (bool, error) {
	return retry.Do(ctx, "betting_strategy", a.policy, func(ctx context.Context) (bool, error) {
		return a.strategyOnce(ctx, minPayout, maxPayout)
	})
}

func (a *Automator) strategyOnce(ctx context.Context, minPayout, maxPayout float64) (bool, error) {
	page, err := a.ensurePage()
	if err != nil {
		return false, err
	}

	slog.Info("Executing betting strategy",
		"min_payout", fmt.Sprintf("$%.2f", minPayout),
		"max_payout", fmt.Sprintf("$%.2f", maxPayout))

	if err := page.Click(ctx, sel(selNavSports)); err != nil {
		return false, err
	}
	if err := page.WaitReady(ctx); err != nil {
		return false, err
	}

	games, err := page.QueryAll(ctx, sel(selGameCard))
	if err != nil {
		return false, err
	}
	if len(games) == 0 {
		slog.Warn("No games found")
		return false, nil
	}

	candidates := a.collectSafeCandidates(ctx, games)
	if len(candidates) == 0 {
		slog.Warn("No games with safe odds found")
		return false, nil
	}

	currentPayout := 1.0
	selections := 0
	for _, candidate := range candidates {
		if currentPayout >= maxPayout {
			break
		}

		if err := candidate.element.Click(ctx); err != nil {
			return false, err
		}
		a.sleep(1 * time.Second) // bet slip update

		currentPayout, err = a.currentPayoutOnce(ctx)
		if err != nil {
			return false, err
		}
		selections++
		slog.Info("Added selection",
			"odds", candidate.odds,
			"selections", selections,
			"payout", fmt.Sprintf("$%.2f", currentPayout))

		if currentPayout >= minPayout && currentPayout <= maxPayout {
			slog.Info("Target payout reached", "payout", fmt.Sprintf("$%.2f", currentPayout))
			return true, nil
		}
	}

	slog.Info("Parlay construction completed", "payout", fmt.Sprintf("$%.2f", currentPayout))
	return currentPayout >= minPayout, nil
}

// collectSafeCandidates walks every game card's unlocked proposals and keeps
// the ones whose odds fall inside the safe band, in discovery order. A game
// that fails to enumerate is skipped, not fatal.
func (a *Automator) collectSafeCandidates(ctx context.Context, games []browser.Element) []parlayCandidate {
	var candidates []parlayCandidate
	for _, game := range games {
		proposals, err := game.QueryAll(ctx, sel(selUnlockedProposal))
		if err != nil {
			slog.Warn("Error processing game", "error", err)
			continue
		}
		for _, proposal := range proposals {
			label, err := proposal.Query(ctx, sel(selOddsLabel))
			if err != nil || label == nil {
				continue
			}
			text, err := label.Text(ctx)
			if err != nil {
				continue
			}
			decimal, err := odds.ToDecimal(strings.TrimSpace(text))
			if err != nil {
				slog.Warn("Unparsable odds text", "text", text, "error", err)
				continue
			}
			if odds.IsSafe(decimal) {
				candidates = append(candidates, parlayCandidate{element: proposal, odds: decimal})
			}
		}
	}
	return candidates
}

// CurrentPayout reads the running parlay payout from the bet slip. A slip
// with no recognizable amount reads as zero.
func (a *Automator) CurrentPayout(ctx context.Context) (float64, error) {
	return retry.Do(ctx, "current_payout", a.policy, a.currentPayoutOnce)
}

func (a *Automator) currentPayoutOnce(ctx context.Context) (float64, error) {
	page, err := a.ensurePage()
	if err != nil {
		return 0, err
	}
	slip, err := page.WaitVisible(ctx, sel(selBetSlipContainer), 0)
	if err != nil {
		return 0, err
	}
	text, err := slip.Text(ctx)
	if err != nil {
		return 0, err
	}
	payout, ok := odds.ExtractAmount(text)
	if !ok {
		return 0, nil
	}
	return payout, nil
}

// PlaceBet captures the slip, enters the integer wager amount, submits and
// waits for the success confirmation.
func (a *Automator) PlaceBet(ctx context.Context, wagerAmount float64) error {
	return retry.DoVoid(ctx, "place_bet", a.policy, func(ctx context.Context) error {
		return a.placeBetOnce(ctx, wagerAmount)
	})
}

func (a *Automator) placeBetOnce(ctx context.Context, wagerAmount float64) error {
	page, err := a.ensurePage()
	if err != nil {
		return err
	}

	slog.Info("Placing bet", "amount", fmt.Sprintf("$%.2f", wagerAmount))
	a.TakeBetScreenshot(ctx)

	input, err := page.WaitVisible(ctx, sel(selWagerInput), 0)
	if err != nil {
		return fmt.Errorf("%w: wager input not found: %v", ErrBetSubmit, err)
	}
	if err := input.Click(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrBetSubmit, err)
	}
	if err := page.Fill(ctx, sel(selWagerInput), strconv.Itoa(int(wagerAmount))); err != nil {
		return fmt.Errorf("%w: %v", ErrBetSubmit, err)
	}

	submit, err := page.WaitVisible(ctx, sel(selSubmitBetButton), 0)
	if err != nil {
		return fmt.Errorf("%w: submit control not found: %v", ErrBetSubmit, err)
	}
	if err := submit.Click(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrBetSubmit, err)
	}

	if _, err := page.WaitVisible(ctx, sel(selBetConfirmation), 0); err != nil {
		return fmt.Errorf("%w: confirmation never appeared: %v", ErrBetSubmit, err)
	}

	slog.Info("Bet placed successfully")
	return nil
}

// TakeBetScreenshot captures the bet-slip region to a timestamped file.
// Capture failures are logged and yield an empty path, never an error: the
// run must not fail because diagnostics failed.
func (a *Automator) TakeBetScreenshot(ctx context.Context) string {
	path := filepath.Join(a.cfg.ScreenshotDir,
		fmt.Sprintf("bet_slip_%s.png", a.now().Format("20060102_150405")))

	page, err := a.ensurePage()
	if err != nil {
		slog.Error("Failed to take bet slip screenshot", "error", err)
		return ""
	}
	slip, err := page.WaitVisible(ctx, sel(selBetSlipContainer), 0)
	if err != nil {
		slog.Error("Failed to take bet slip screenshot", "error", err)
		return ""
	}
	if err := slip.Screenshot(ctx, path); err != nil {
		slog.Error("Failed to take bet slip screenshot", "error", err)
		return ""
	}
	slog.Info("Bet slip screenshot saved", "path", path)
	return path
}

// TakeErrorScreenshot captures the full page to a timestamped file. Same
// never-propagates contract as TakeBetScreenshot; a session that never
// opened yields an empty path.
func (a *Automator) TakeErrorScreenshot(ctx context.Context) string {
	if a.page == nil {
		slog.Error("Failed to take error screenshot", "error", "no browser session")
		return ""
	}
	path := filepath.Join(a.cfg.ScreenshotDir,
		fmt.Sprintf("error_%s.png", a.now().Format("20060102_150405")))

	if err := a.page.Screenshot(ctx, path, true); err != nil {
		slog.Error("Failed to take error screenshot", "error", err)
		return ""
	}
	slog.Info("Error screenshot saved", "path", path)
	return path
}

// Close tears down the browser session. Best-effort, never fails; safe to
// call when no session was ever opened.
func (a *Automator) Close() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
	a.page = nil
	slog.Info("Browser resources cleaned up")
}
