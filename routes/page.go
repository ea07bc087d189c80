// Package routes drives the Urban Routes ride-hailing application for the
// end-to-end suite: a page object over the order form, a reachability
// pre-flight check, and the phone confirmation code helper.
package routes

import (
	"errors"
	"time"

	"github.com/urbanroutes/webdriver"
)

const (
	// interactionTimeout bounds waits for controls to become clickable.
	interactionTimeout = 10 * time.Second
	// carSearchTimeout bounds the wait for the car search modal, which only
	// appears once a driver lookup has started.
	carSearchTimeout = 40 * time.Second
)

// locator names one control on the page.
type locator struct {
	by, value string
}

// Locators for the Urban Routes controls.
var (
	fromField          = locator{webdriver.ByID, "from"}
	toField            = locator{webdriver.ByID, "to"}
	phoneField         = locator{webdriver.ByID, "phone"}
	codeField          = locator{webdriver.ByID, "code"}
	callTaxiButton     = locator{webdriver.ByXPATH, "//button[text()='Call a taxi']"}
	supportivePlanCard = locator{webdriver.ByXPATH, "//div[text()='Supportive']"}
	paymentMethod      = locator{webdriver.ByClassName, "pp-button"}
	addCardButton      = locator{webdriver.ByXPATH, "//div[text()='Add card']"}
	cardNumberField    = locator{webdriver.ByID, "number"}
	cardCodeField      = locator{webdriver.ByXPATH, "//input[@placeholder='12']"}
	addCardSubmit      = locator{webdriver.ByXPATH, "//button[text()='Add']"}
	closePaymentModal  = locator{webdriver.ByXPATH, "//button[@class='close-button section-close']"}
	messageField       = locator{webdriver.ByID, "comment"}
	blanketSwitch      = locator{webdriver.ByXPATH, "//div[@class='r-sw']//div[@class='switch']"}
	iceCreamPlus       = locator{webdriver.ByXPATH, "//div[@class='counter-plus']"}
	carSearchModal     = locator{webdriver.ByClassName, "order-header-title"}
	nextButton         = locator{webdriver.ByXPATH, "//button[text()='Next']"}
	confirmButton      = locator{webdriver.ByXPATH, "//button[text()='Confirm']"}
)

// Page drives the Urban Routes order form through an active WebDriver
// session.
type Page struct {
	wd webdriver.WebDriver
}

// NewPage returns a Page bound to the given session.
func NewPage(wd webdriver.WebDriver) *Page {
	return &Page{wd: wd}
}

func (p *Page) find(l locator) (webdriver.WebElement, error) {
	return p.wd.FindElement(l.by, l.value)
}

// clickable waits until the control located by l is displayed and enabled,
// then returns it.
func (p *Page) clickable(l locator) (webdriver.WebElement, error) {
	var elem webdriver.WebElement
	err := p.wd.WaitWithTimeout(func(wd webdriver.WebDriver) (bool, error) {
		e, err := wd.FindElement(l.by, l.value)
		if err != nil {
			if errors.Is(err, &webdriver.CommandError{Kind: webdriver.NoSuchElement}) {
				return false, nil
			}
			return false, err
		}
		if displayed, err := e.IsDisplayed(); err != nil || !displayed {
			return false, nil
		}
		if enabled, err := e.IsEnabled(); err != nil || !enabled {
			return false, nil
		}
		elem = e
		return true, nil
	}, interactionTimeout)
	if err != nil {
		return nil, err
	}
	return elem, nil
}

// visible waits until the control located by l is displayed, then returns it.
func (p *Page) visible(l locator, timeout time.Duration) (webdriver.WebElement, error) {
	var elem webdriver.WebElement
	err := p.wd.WaitWithTimeout(func(wd webdriver.WebDriver) (bool, error) {
		e, err := wd.FindElement(l.by, l.value)
		if err != nil {
			if errors.Is(err, &webdriver.CommandError{Kind: webdriver.NoSuchElement}) {
				return false, nil
			}
			return false, err
		}
		if displayed, err := e.IsDisplayed(); err != nil || !displayed {
			return false, nil
		}
		elem = e
		return true, nil
	}, timeout)
	if err != nil {
		return nil, err
	}
	return elem, nil
}

func (p *Page) clickAfterWait(l locator) error {
	elem, err := p.clickable(l)
	if err != nil {
		return err
	}
	return elem.Click()
}

func (p *Page) sendKeys(l locator, keys string) error {
	elem, err := p.find(l)
	if err != nil {
		return err
	}
	return elem.SendKeys(keys)
}

func (p *Page) fieldValue(l locator) (string, error) {
	elem, err := p.find(l)
	if err != nil {
		return "", err
	}
	return elem.GetAttribute("value")
}

// WaitForLoad waits until the order form is interactable after navigation.
func (p *Page) WaitForLoad() error {
	_, err := p.visible(fromField, interactionTimeout)
	return err
}

// SetFromAddress types the pickup address.
func (p *Page) SetFromAddress(address string) error {
	return p.sendKeys(fromField, address)
}

// SetToAddress types the destination address.
func (p *Page) SetToAddress(address string) error {
	return p.sendKeys(toField, address)
}

// FromAddress returns the pickup address field's current value.
func (p *Page) FromAddress() (string, error) {
	return p.fieldValue(fromField)
}

// ToAddress returns the destination address field's current value.
func (p *Page) ToAddress() (string, error) {
	return p.fieldValue(toField)
}

// CallTaxi clicks the call-a-taxi button once it becomes clickable.
func (p *Page) CallTaxi() error {
	return p.clickAfterWait(callTaxiButton)
}

// SelectSupportivePlan picks the Supportive tariff card.
func (p *Page) SelectSupportivePlan() error {
	return p.clickAfterWait(supportivePlanCard)
}

// ClickPhoneField opens the phone number modal.
func (p *Page) ClickPhoneField() error {
	return p.clickAfterWait(phoneField)
}

// FillPhoneNumber types the phone number into the opened phone modal.
func (p *Page) FillPhoneNumber(number string) error {
	return p.sendKeys(phoneField, number)
}

// PhoneNumber returns the phone field's current value.
func (p *Page) PhoneNumber() (string, error) {
	return p.fieldValue(phoneField)
}

// ClickNext submits the phone number, which makes the application request a
// confirmation code.
func (p *Page) ClickNext() error {
	return p.clickAfterWait(nextButton)
}

// FillSMSCode types the phone confirmation code.
func (p *Page) FillSMSCode(code string) error {
	return p.sendKeys(codeField, code)
}

// ClickConfirm confirms the typed phone confirmation code.
func (p *Page) ClickConfirm() error {
	return p.clickAfterWait(confirmButton)
}

// AddCreditCard opens the payment methods modal, registers a card and closes
// the modal again. The card code field loses focus via a TAB keystroke, which
// is what arms the submit button.
func (p *Page) AddCreditCard(number, code string) error {
	if err := p.clickAfterWait(paymentMethod); err != nil {
		return err
	}
	if err := p.clickAfterWait(addCardButton); err != nil {
		return err
	}
	if err := p.sendKeys(cardNumberField, number); err != nil {
		return err
	}
	if err := p.sendKeys(cardCodeField, code); err != nil {
		return err
	}
	if err := p.sendKeys(cardCodeField, webdriver.TabKey); err != nil {
		return err
	}
	if err := p.clickAfterWait(addCardSubmit); err != nil {
		return err
	}
	elem, err := p.find(closePaymentModal)
	if err != nil {
		return err
	}
	return elem.Click()
}

// SetDriverMessage types a message for the driver.
func (p *Page) SetDriverMessage(message string) error {
	return p.sendKeys(messageField, message)
}

// DriverMessage returns the driver message field's current value.
func (p *Page) DriverMessage() (string, error) {
	return p.fieldValue(messageField)
}

// OrderBlanketAndHandkerchiefs toggles the blanket and handkerchiefs switch.
func (p *Page) OrderBlanketAndHandkerchiefs() error {
	elem, err := p.find(blanketSwitch)
	if err != nil {
		return err
	}
	return elem.Click()
}

// AddIceCream increments the ice cream counter once.
func (p *Page) AddIceCream() error {
	elem, err := p.find(iceCreamPlus)
	if err != nil {
		return err
	}
	return elem.Click()
}

// WaitForCarSearchModal waits until the car search modal is shown. Driver
// lookup can take a while, so this uses a longer timeout than the control
// waits.
func (p *Page) WaitForCarSearchModal() error {
	_, err := p.visible(carSearchModal, carSearchTimeout)
	return err
}
