package browser

import (
	"fmt"
	"strings"
)

// Strategy is the lookup rule used by a Locator.
type Strategy string

const (
	StrategyCSS      Strategy = "css"
	StrategyID       Strategy = "id"
	StrategyName     Strategy = "name"
	StrategyLinkText Strategy = "link text"
	StrategyXPath    Strategy = "xpath"
)

// Locator identifies zero or more elements on a page.
// Locators are plain values and are usually declared once per page object.
type Locator struct {
	Strategy Strategy
	Selector string
}

// ByCSS matches elements by CSS selector.
func ByCSS(selector string) Locator { return Locator{Strategy: StrategyCSS, Selector: selector} }

// ByID matches the element with the given id attribute.
func ByID(id string) Locator { return Locator{Strategy: StrategyID, Selector: id} }

// ByName matches elements with the given name attribute.
func ByName(name string) Locator { return Locator{Strategy: StrategyName, Selector: name} }

// ByLinkText matches anchors whose normalized text equals text.
func ByLinkText(text string) Locator { return Locator{Strategy: StrategyLinkText, Selector: text} }

// ByXPath matches elements by XPath expression.
func ByXPath(expr string) Locator { return Locator{Strategy: StrategyXPath, Selector: expr} }

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Selector)
}

// Query translates the locator into a selector an engine understands.
// If xpath is false, expr is a CSS selector.
func (l Locator) Query() (expr string, xpath bool, err error) {
	switch l.Strategy {
	case StrategyCSS:
		return l.Selector, false, nil
	case StrategyID:
		return fmt.Sprintf(`[id=%s]`, cssString(l.Selector)), false, nil
	case StrategyName:
		return fmt.Sprintf(`[name=%s]`, cssString(l.Selector)), false, nil
	case StrategyLinkText:
		return fmt.Sprintf(`//a[normalize-space(.)=%s]`, xpathLiteral(l.Selector)), true, nil
	case StrategyXPath:
		return l.Selector, true, nil
	default:
		return "", false, fmt.Errorf("%w: locator strategy %q", ErrUnsupported, l.Strategy)
	}
}

func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}

// xpathLiteral quotes s for use inside an XPath 1.0 expression, which has no escape syntax.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	parts := strings.Split(s, `"`)
	args := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if p != "" {
			args = append(args, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
