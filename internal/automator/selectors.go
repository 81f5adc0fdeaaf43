package automator

import (
	"fmt"
	"strings"
)

// selectorName is a logical UI element name. Selectors are configuration
// data, not logic: every lookup goes through the registry below so a site
// redesign is a one-file change.
type selectorName string

const (
	selLoginButton      selectorName = "login_button"
	selUsernameInput    selectorName = "username_input"
	selPasswordInput    selectorName = "password_input"
	selLocationContinue selectorName = "location_continue"
	selNavAccount       selectorName = "nav_account"
	selNavActivity      selectorName = "nav_activity"
	selNavShop          selectorName = "nav_shop"
	selNavRewards       selectorName = "nav_rewards"
	selNavSports        selectorName = "nav_sports"
	selBalance          selectorName = "balance_container"
	selBetSlip          selectorName = "bet_slip"
	selBetSlipContainer selectorName = "bet_slip_container"
	selShopClaimButton  selectorName = "shop_claim_button"
	selRewardsClaim     selectorName = "rewards_claim_buttons"
	selGameCard         selectorName = "game_card"
	selUnlockedProposal selectorName = "unlocked_proposal"
	selOddsLabel        selectorName = "odds_label"
	selWagerInput       selectorName = "wager_input"
	selSubmitBetButton  selectorName = "submit_bet_button"
	selBetConfirmation  selectorName = "bet_success_confirmation"
)

// Verified selectors for the mobile UI. Entries prefixed with "//" are
// XPath (needed where matching on element text), the rest are CSS.
var selectors = map[selectorName]string{
	selLoginButton:      `//*[contains(@class,"ticket-submit-button__label") and contains(.,"LOGIN")]`,
	selUsernameInput:    `input[type="text"]`,
	selPasswordInput:    `input[type="password"]`,
	selLocationContinue: `//*[contains(@class,"button__label") and contains(.,"Continue")]`,
	selNavAccount:       `div.nav-account`,
	selNavActivity:      `a[href="/activity"]`,
	selNavShop:          `a[href="/shop"]`,
	selNavRewards:       `a[href="/rewards"]`,
	selNavSports:        `a[href="/sports"]`,
	selBalance:          `div.balances__item img[alt*='cash icon'] + span.balances__balance`,
	selBetSlip:          `.bet-slip`,
	selBetSlipContainer: `.mobile-ticket-container`,
	selShopClaimButton:  `.free-coins-plaque__claim-button`,
	selRewardsClaim:     `.claim-button`,
	selGameCard:         `div.card-shared-container`,
	selUnlockedProposal: `div.card-home-proposal:not(:has(img[alt="lock"]))`,
	selOddsLabel:        `.card-cell-label`,
	selWagerInput:       `.risk-amount-input__amount`,
	selSubmitBetButton:  `//*[contains(@class,"ticket-submit-button__label") and contains(.,"SUBMIT")]`,
	selBetConfirmation:  `//*[contains(@class,"ticket-submit-button__bonus-text") and contains(.,"Claim")]`,
}

var allSelectorNames = []selectorName{
	selLoginButton, selUsernameInput, selPasswordInput, selLocationContinue,
	selNavAccount, selNavActivity, selNavShop, selNavRewards, selNavSports,
	selBalance, selBetSlip, selBetSlipContainer, selShopClaimButton,
	selRewardsClaim, selGameCard, selUnlockedProposal, selOddsLabel,
	selWagerInput, selSubmitBetButton, selBetConfirmation,
}

// validateSelectors checks the registry is complete at construction time so
// a missing or blank selector fails fast instead of at first lookup.
func validateSelectors() error {
	var missing []string
	for _, name := range allSelectorNames {
		if strings.TrimSpace(selectors[name]) == "" {
			missing = append(missing, string(name))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("selector registry incomplete: %s", strings.Join(missing, ", "))
	}
	return nil
}

func sel(name selectorName) string {
	return selectors[name]
}
