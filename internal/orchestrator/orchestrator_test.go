package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ducky705/AutoFliff/internal/pkg/storage"
)

// fakeAutomator scripts the automation surface for scenario tests.
type fakeAutomator struct {
	balances      []float64 // consumed by successive GetBalance calls
	balanceErr    error
	blocking      bool
	claimCount    int
	strategyOK    bool
	payout        float64
	screenshotDir string

	loginCalls    int
	balanceCalls  int
	wagerCalls    int
	claimCalls    int
	strategyCalls int
	betShots      int
	errorShots    int
	closeCalls    int

	betShotPath string
}

func (f *fakeAutomator) Login(ctx context.Context) error {
	f.loginCalls++
	return nil
}

func (f *fakeAutomator) GetBalance(ctx context.Context) (float64, error) {
	f.balanceCalls++
	if f.balanceErr != nil {
		return 0, f.balanceErr
	}
	balance := f.balances[0]
	if len(f.balances) > 1 {
		f.balances = f.balances[1:]
	}
	return balance, nil
}

func (f *fakeAutomator) CheckOpenWagers(ctx context.Context) (bool, error) {
	f.wagerCalls++
	return f.blocking, nil
}

func (f *fakeAutomator) CheckAndClaimRewards(ctx context.Context) (int, error) {
	f.claimCalls++
	return f.claimCount, nil
}

func (f *fakeAutomator) ExecuteBettingStrategy(ctx context.Context, minPayout, maxPayout float64) (bool, error) {
	f.strategyCalls++
	return f.strategyOK, nil
}

func (f *fakeAutomator) CurrentPayout(ctx context.Context) (float64, error) {
	return f.payout, nil
}

func (f *fakeAutomator) TakeBetScreenshot(ctx context.Context) string {
	f.betShots++
	path := filepath.Join(f.screenshotDir, "bet_slip_test.png")
	os.WriteFile(path, []byte("png"), 0o644)
	f.betShotPath = path
	return path
}

func (f *fakeAutomator) TakeErrorScreenshot(ctx context.Context) string {
	f.errorShots++
	path := filepath.Join(f.screenshotDir, "error_test.png")
	os.WriteFile(path, []byte("png"), 0o644)
	return path
}

func (f *fakeAutomator) Close() { f.closeCalls++ }

// fakeNotifier records every notification.
type fakeNotifier struct {
	statuses      []string
	successes     []float64
	confirmations []struct {
		wager, payout float64
		path          string
	}
	errors []struct {
		message, path string
	}
}

func (f *fakeNotifier) SendStatusUpdate(message string) error {
	f.statuses = append(f.statuses, message)
	return nil
}

func (f *fakeNotifier) SendSuccessNotification(balance float64) error {
	f.successes = append(f.successes, balance)
	return nil
}

func (f *fakeNotifier) SendBetConfirmation(wagerAmount, potentialPayout float64, screenshotPath string) error {
	f.confirmations = append(f.confirmations, struct {
		wager, payout float64
		path          string
	}{wagerAmount, potentialPayout, screenshotPath})
	return nil
}

func (f *fakeNotifier) SendErrorNotification(errorMessage, screenshotPath string) error {
	f.errors = append(f.errors, struct {
		message, path string
	}{errorMessage, screenshotPath})
	return nil
}

type fakeWorkflow struct {
	disableCalls int
}

func (f *fakeWorkflow) DisableWorkflow(ctx context.Context) error {
	f.disableCalls++
	return nil
}

type fakeRunStorage struct {
	records []*storage.RunRecord
}

func (f *fakeRunStorage) SaveRun(ctx context.Context, record *storage.RunRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRunStorage) Close() error { return nil }

func defaultThresholds() Thresholds {
	return Thresholds{GoalBalance: 10.00, MinBet: 1.80, MinPayout: 50.00, MaxPayout: 100.00}
}

func TestRunGoalAlreadyMet(t *testing.T) {
	auto := &fakeAutomator{balances: []float64{15.00}, screenshotDir: t.TempDir()}
	notifier := &fakeNotifier{}
	wf := &fakeWorkflow{}
	runs := &fakeRunStorage{}

	o := New(auto, notifier, wf, runs, defaultThresholds())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(notifier.successes) != 1 || notifier.successes[0] != 15.00 {
		t.Errorf("success notifications = %v, want [15.00]", notifier.successes)
	}
	if wf.disableCalls != 1 {
		t.Errorf("workflow disable called %d times, want exactly 1", wf.disableCalls)
	}
	if auto.claimCalls != 0 || auto.strategyCalls != 0 {
		t.Errorf("claims=%d strategy=%d, want no rewards or betting attempted", auto.claimCalls, auto.strategyCalls)
	}
	if auto.closeCalls != 1 {
		t.Errorf("Close called %d times, want 1", auto.closeCalls)
	}
	if len(runs.records) != 1 || runs.records[0].Status != "goal_reached" {
		t.Errorf("run records = %+v, want one goal_reached record", runs.records)
	}
}

func TestRunInsufficientAfterRewards(t *testing.T) {
	auto := &fakeAutomator{balances: []float64{1.00, 0.50}, claimCount: 1, screenshotDir: t.TempDir()}
	notifier := &fakeNotifier{}
	wf := &fakeWorkflow{}

	o := New(auto, notifier, wf, nil, defaultThresholds())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if auto.claimCalls != 1 {
		t.Errorf("reward claim called %d times, want exactly 1", auto.claimCalls)
	}
	if len(notifier.statuses) != 2 {
		t.Fatalf("status notifications = %d, want 2 (start, insufficient)", len(notifier.statuses))
	}
	if notifier.statuses[0] != "Bot started execution" {
		t.Errorf("first status = %q, want start message", notifier.statuses[0])
	}
	if auto.strategyCalls != 0 {
		t.Errorf("strategy called %d times, want no betting attempted", auto.strategyCalls)
	}
	if wf.disableCalls != 0 {
		t.Errorf("workflow disable called %d times, want 0", wf.disableCalls)
	}
}

func TestRunBetPlaced(t *testing.T) {
	auto := &fakeAutomator{
		balances:      []float64{5.00, 5.00},
		strategyOK:    true,
		payout:        75.00,
		screenshotDir: t.TempDir(),
	}
	notifier := &fakeNotifier{}
	runs := &fakeRunStorage{}

	o := New(auto, notifier, &fakeWorkflow{}, runs, defaultThresholds())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if auto.claimCalls != 0 {
		t.Errorf("reward claim called %d times, want 0 (balance above min bet)", auto.claimCalls)
	}
	if len(notifier.confirmations) != 1 {
		t.Fatalf("confirmations = %d, want 1", len(notifier.confirmations))
	}
	conf := notifier.confirmations[0]
	if conf.wager != 5.00 || conf.payout != 75.00 {
		t.Errorf("confirmation = wager %v payout %v, want 5.00 / 75.00", conf.wager, conf.payout)
	}
	if auto.betShots != 1 {
		t.Errorf("bet slip screenshots = %d, want exactly 1", auto.betShots)
	}
	if _, err := os.Stat(auto.betShotPath); !os.IsNotExist(err) {
		t.Errorf("screenshot %s still exists after run, want removed", auto.betShotPath)
	}
	if len(runs.records) != 1 || !runs.records[0].BetPlaced || runs.records[0].Payout != 75.00 {
		t.Errorf("run record = %+v, want bet_placed with payout 75.00", runs.records[0])
	}
}

func TestRunBalanceReadFailure(t *testing.T) {
	wantErr := errors.New("balance element not found")
	auto := &fakeAutomator{balanceErr: wantErr, screenshotDir: t.TempDir()}
	notifier := &fakeNotifier{}

	o := New(auto, notifier, &fakeWorkflow{}, nil, defaultThresholds())
	err := o.Run(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("Run() error = %v, want the balance error", err)
	}

	if auto.errorShots != 1 {
		t.Errorf("error screenshots = %d, want exactly 1", auto.errorShots)
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("error notifications = %d, want 1", len(notifier.errors))
	}
	if notifier.errors[0].message != wantErr.Error() {
		t.Errorf("error notification message = %q, want %q", notifier.errors[0].message, wantErr.Error())
	}
	if notifier.errors[0].path == "" {
		t.Error("error notification has no screenshot path")
	}
	if auto.closeCalls != 1 {
		t.Errorf("Close called %d times, want exactly 1", auto.closeCalls)
	}
}

func TestRunBlockedByOpenWager(t *testing.T) {
	auto := &fakeAutomator{balances: []float64{1.00}, blocking: true, screenshotDir: t.TempDir()}
	notifier := &fakeNotifier{}

	o := New(auto, notifier, &fakeWorkflow{}, nil, defaultThresholds())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if auto.claimCalls != 0 || auto.strategyCalls != 0 {
		t.Errorf("claims=%d strategy=%d, want no action with blocking wager", auto.claimCalls, auto.strategyCalls)
	}
}

func TestRunNoParlayConstructed(t *testing.T) {
	auto := &fakeAutomator{balances: []float64{5.00}, strategyOK: false, screenshotDir: t.TempDir()}
	notifier := &fakeNotifier{}

	o := New(auto, notifier, &fakeWorkflow{}, nil, defaultThresholds())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if auto.betShots != 0 {
		t.Errorf("bet screenshots = %d, want 0", auto.betShots)
	}
	if len(notifier.statuses) != 2 {
		t.Errorf("status notifications = %d, want 2 (start, no parlay)", len(notifier.statuses))
	}
	if len(notifier.confirmations) != 0 {
		t.Errorf("confirmations = %d, want 0", len(notifier.confirmations))
	}
}

func TestRunRewardsThenBet(t *testing.T) {
	// Balance starts under the min bet, rewards push it over, betting proceeds.
	auto := &fakeAutomator{
		balances:      []float64{1.00, 2.50, 2.50},
		claimCount:    2,
		strategyOK:    true,
		payout:        60.00,
		screenshotDir: t.TempDir(),
	}
	notifier := &fakeNotifier{}

	o := New(auto, notifier, &fakeWorkflow{}, nil, defaultThresholds())
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if auto.claimCalls != 1 || auto.strategyCalls != 1 {
		t.Errorf("claims=%d strategy=%d, want 1/1", auto.claimCalls, auto.strategyCalls)
	}
	if len(notifier.confirmations) != 1 {
		t.Errorf("confirmations = %d, want 1", len(notifier.confirmations))
	}
}
