package automator

import "errors"

// Sentinel errors for the automation failure taxonomy. Session init failures
// surface as browser.ErrSessionInit; parse failures from rendered text carry
// odds.ErrParse and are retried like any interaction failure.
var (
	// ErrLogin marks a login where the login control never appeared or the
	// post-login navigation never settled.
	ErrLogin = errors.New("login failed")
	// ErrBalanceRead marks a missing balance element or unparsable balance text.
	ErrBalanceRead = errors.New("balance read failed")
	// ErrBetSubmit marks a bet submission where the wager input, submit
	// control or success confirmation never appeared.
	ErrBetSubmit = errors.New("bet submission failed")
)
