package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// Delay after document-ready before a navigation counts as settled. The
// site keeps rendering balances and odds after the load event fires.
const settleDelay = 1 * time.Second

// chromePage implements Page against a chromedp tab context.
type chromePage struct {
	tab     context.Context
	timeout time.Duration
}

// queryOpt picks the chromedp query strategy for a selector. Selectors
// starting with "//" are XPath (used where element text matching is needed),
// everything else is a CSS query.
func queryOpt(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "//") || strings.HasPrefix(selector, "(//") {
		return chromedp.BySearch
	}
	return chromedp.ByQueryAll
}

// run executes chromedp actions on the tab with a bounded deadline. The
// caller context is consulted for cancellation only; chromedp actions must
// run on the tab's own context chain.
func (p *chromePage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = p.timeout
	}
	runCtx, cancel := context.WithTimeout(p.tab, timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, 0, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (p *chromePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	var nodes []*cdp.Node
	err := p.run(ctx, timeout,
		chromedp.WaitVisible(selector, queryOpt(selector)),
		chromedp.Nodes(selector, &nodes, queryOpt(selector)),
	)
	if err != nil || len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %q (%v)", ErrElementNotFound, selector, err)
	}
	return &chromeElement{page: p, node: nodes[0]}, nil
}

func (p *chromePage) Query(ctx context.Context, selector string) (Element, error) {
	elements, err := p.QueryAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, nil
	}
	return elements[0], nil
}

func (p *chromePage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := p.run(ctx, 0, chromedp.Nodes(selector, &nodes, queryOpt(selector), chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{page: p, node: n})
	}
	return elements, nil
}

func (p *chromePage) Click(ctx context.Context, selector string) error {
	if err := p.run(ctx, 0, chromedp.Click(selector, queryOpt(selector))); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

func (p *chromePage) Fill(ctx context.Context, selector, value string) error {
	err := p.run(ctx, 0,
		chromedp.Click(selector, queryOpt(selector)),
		chromedp.SendKeys(selector, value, queryOpt(selector)),
	)
	if err != nil {
		return fmt.Errorf("fill %q: %w", selector, err)
	}
	return nil
}

func (p *chromePage) WaitReady(ctx context.Context) error {
	err := p.run(ctx, 0,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
	)
	if err != nil {
		return fmt.Errorf("wait for page ready: %w", err)
	}
	return nil
}

func (p *chromePage) Screenshot(ctx context.Context, path string, fullPage bool) error {
	var buf []byte
	var action chromedp.Action
	if fullPage {
		action = chromedp.FullScreenshot(&buf, 90)
	} else {
		action = chromedp.CaptureScreenshot(&buf)
	}
	if err := p.run(ctx, 0, action); err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	return writeScreenshot(path, buf)
}

// chromeElement implements Element for a discovered DOM node.
type chromeElement struct {
	page *chromePage
	node *cdp.Node
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.page.run(ctx, 0, chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID))
	if err != nil {
		return "", fmt.Errorf("read element text: %w", err)
	}
	return text, nil
}

func (e *chromeElement) Click(ctx context.Context) error {
	if err := e.page.run(ctx, 0, chromedp.MouseClickNode(e.node)); err != nil {
		return fmt.Errorf("click element: %w", err)
	}
	return nil
}

func (e *chromeElement) Query(ctx context.Context, selector string) (Element, error) {
	elements, err := e.QueryAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, nil
	}
	return elements[0], nil
}

func (e *chromeElement) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := e.page.run(ctx, 0,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.FromNode(e.node), chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("query %q in element: %w", selector, err)
	}
	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{page: e.page, node: n})
	}
	return elements, nil
}

func (e *chromeElement) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	err := e.page.run(ctx, 0, chromedp.Screenshot([]cdp.NodeID{e.node.NodeID}, &buf, chromedp.ByNodeID))
	if err != nil {
		return fmt.Errorf("capture element screenshot: %w", err)
	}
	return writeScreenshot(path, buf)
}

func writeScreenshot(path string, buf []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}
