package webdriver

import (
	"fmt"
	"strings"
)

// SelectElement wraps a WebElement for a select dropdown.
type SelectElement struct {
	element WebElement
	isMulti bool
}

// Select wraps el, which must be a select element. Multi-select support is
// detected from the element's multiple attribute.
func Select(el WebElement) (SelectElement, error) {
	tagName, err := el.TagName()
	if err != nil || strings.ToLower(tagName) != "select" {
		return SelectElement{}, fmt.Errorf(`element should have been "select" but was %q`, tagName)
	}

	mult, err := el.GetAttribute("multiple")
	return SelectElement{
		element: el,
		isMulti: err == nil && strings.ToLower(mult) != "false",
	}, nil
}

// GetElement returns the underlying WebElement.
func (s SelectElement) GetElement() WebElement {
	return s.element
}

// IsMultiple reports whether the element supports selecting multiple options
// at the same time.
func (s SelectElement) IsMultiple() bool {
	return s.isMulti
}

// GetOptions returns all options of the select.
func (s SelectElement) GetOptions() ([]WebElement, error) {
	return s.element.FindElements(ByTagName, "option")
}

// GetAllSelectedOptions returns the options that are currently selected.
func (s SelectElement) GetAllSelectedOptions() ([]WebElement, error) {
	opts, err := s.GetOptions()
	if err != nil {
		return nil, err
	}
	var selected []WebElement
	for _, o := range opts {
		sel, err := o.IsSelected()
		if err != nil {
			return nil, err
		}
		if sel {
			selected = append(selected, o)
		}
	}
	return selected, nil
}

// GetFirstSelectedOption returns the first selected option.
func (s SelectElement) GetFirstSelectedOption() (WebElement, error) {
	opts, err := s.GetAllSelectedOptions()
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("no options are selected")
	}
	return opts[0], nil
}

// SelectByVisibleText selects all options whose displayed text matches the
// argument. Given "Bar", this selects an option like:
//
//	<option value="foo">Bar</option>
func (s SelectElement) SelectByVisibleText(text string) error {
	options, err := s.element.FindElements(ByXPATH, `.//option[normalize-space(.) = "`+escapeQuotes(text)+`"]`)
	if err != nil {
		return err
	}

	for _, option := range options {
		if err := s.setSelected(option, true); err != nil {
			return err
		}
		if !s.isMulti {
			return nil
		}
	}

	matched := len(options) > 0
	if !matched && strings.Contains(text, " ") {
		// The displayed text may be wrapped, so retry on the longest word
		// and compare the trimmed texts.
		subStringWithoutSpace := getLongestSubstringWithoutSpace(text)
		var candidates []WebElement
		if subStringWithoutSpace == "" {
			candidates, err = s.GetOptions()
		} else {
			candidates, err = s.element.FindElements(ByXPATH, `.//option[contains(., "`+escapeQuotes(subStringWithoutSpace)+`")]`)
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(text)

		for _, option := range candidates {
			o, err := option.Text()
			if err != nil {
				return err
			}
			if trimmed == strings.TrimSpace(o) {
				if err := s.setSelected(option, true); err != nil {
					return err
				}
				if !s.isMulti {
					return nil
				}
				matched = true
			}
		}
	}
	if !matched {
		return fmt.Errorf("cannot locate option with text: %s", text)
	}
	return nil
}

// SelectByIndex selects the option at the given index. This examines the
// option's index attribute, it does not merely count.
func (s SelectElement) SelectByIndex(idx int) error {
	return s.setSelectedByIndex(idx, true)
}

// SelectByValue selects all options whose value matches the argument. Given
// "foo", this selects an option like:
//
//	<option value="foo">Bar</option>
func (s SelectElement) SelectByValue(value string) error {
	opts, err := s.findOptionsByValue(value)
	if err != nil {
		return err
	}
	for _, option := range opts {
		if err := s.setSelected(option, true); err != nil {
			return err
		}
		if !s.isMulti {
			return nil
		}
	}
	return nil
}

// DeselectAll clears all selected entries. Only valid on a multi-select.
func (s SelectElement) DeselectAll() error {
	if !s.isMulti {
		return fmt.Errorf("you may only deselect options of a multi-select")
	}

	opts, err := s.GetOptions()
	if err != nil {
		return err
	}
	for _, o := range opts {
		if err := s.setSelected(o, false); err != nil {
			return err
		}
	}
	return nil
}

// DeselectByValue deselects all options whose value matches the argument.
// Only valid on a multi-select.
func (s SelectElement) DeselectByValue(value string) error {
	if !s.isMulti {
		return fmt.Errorf("you may only deselect options of a multi-select")
	}

	opts, err := s.findOptionsByValue(value)
	if err != nil {
		return err
	}
	for _, o := range opts {
		if err := s.setSelected(o, false); err != nil {
			return err
		}
	}
	return nil
}

// DeselectByIndex deselects the option at the given index. Only valid on a
// multi-select.
func (s SelectElement) DeselectByIndex(index int) error {
	if !s.isMulti {
		return fmt.Errorf("you may only deselect options of a multi-select")
	}

	return s.setSelectedByIndex(index, false)
}

// DeselectByVisibleText deselects all options whose displayed text matches
// the argument. Only valid on a multi-select.
func (s SelectElement) DeselectByVisibleText(text string) error {
	if !s.isMulti {
		return fmt.Errorf("you may only deselect options of a multi-select")
	}

	options, err := s.element.FindElements(ByXPATH, `.//option[normalize-space(.) = "`+escapeQuotes(text)+`"]`)
	if err != nil {
		return err
	}
	if len(options) == 0 {
		return fmt.Errorf("cannot locate option with text: %s", text)
	}

	for _, option := range options {
		if err := s.setSelected(option, false); err != nil {
			return err
		}
	}
	return nil
}

func escapeQuotes(str string) string {
	return strings.Replace(str, `"`, `\"`, -1)
}

func getLongestSubstringWithoutSpace(s string) string {
	result := ""
	for _, t := range strings.Split(s, " ") {
		if len(t) > len(result) {
			result = t
		}
	}
	return result
}

func (s SelectElement) findOptionsByValue(value string) ([]WebElement, error) {
	opts, err := s.element.FindElements(ByXPATH, `.//option[@value = "`+escapeQuotes(value)+`"]`)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("cannot locate option with value: %s", value)
	}
	return opts, nil
}

func (s SelectElement) setSelectedByIndex(index int, selected bool) error {
	idx := fmt.Sprintf("%d", index)
	opts, err := s.element.FindElements(ByXPATH, `.//option[@index = "`+idx+`"]`)
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		return fmt.Errorf("cannot locate option with index: %s", idx)
	}

	return s.setSelected(opts[0], selected)
}

func (s SelectElement) setSelected(option WebElement, selected bool) error {
	sel, err := option.IsSelected()
	if err != nil {
		return err
	}
	if sel != selected {
		return option.Click()
	}
	return nil
}
