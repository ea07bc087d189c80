package webdriver

import "time"

// KeyAction is one step of a key input source's action sequence.
type KeyAction map[string]interface{}

// PointerAction is one step of a pointer input source's action sequence.
type PointerAction map[string]interface{}

// PointerType is the kind of pointer device used by StorePointerActions.
type PointerType string

const (
	// MousePointer is a mouse-type pointer.
	MousePointer PointerType = "mouse"
	// PenPointer is a pen-type pointer.
	PenPointer = "pen"
	// TouchPointer is a touch-type pointer.
	TouchPointer = "touch"
)

// PointerMoveOrigin controls what a PointerMoveAction's offset is relative
// to.
type PointerMoveOrigin string

const (
	// FromViewport offsets from the viewport's origin.
	FromViewport PointerMoveOrigin = "viewport"
	// FromPointer offsets from the pointer's current position.
	FromPointer = "pointer"
)

func keySource(inputID string, actions []KeyAction) map[string]interface{} {
	raw := make([]map[string]interface{}, len(actions))
	for i, action := range actions {
		raw[i] = action
	}
	return map[string]interface{}{
		"type":    "key",
		"id":      inputID,
		"actions": raw,
	}
}

func pointerSource(inputID string, pointer PointerType, actions []PointerAction) map[string]interface{} {
	raw := make([]map[string]interface{}, len(actions))
	for i, action := range actions {
		raw[i] = action
	}
	return map[string]interface{}{
		"type":       "pointer",
		"id":         inputID,
		"parameters": map[string]string{"pointerType": string(pointer)},
		"actions":    raw,
	}
}

// performNow sends a single input source's actions immediately, bypassing
// the store.
func (wd *remoteWD) performNow(source map[string]interface{}) error {
	return wd.voidCommand(cmdPerformActions, map[string]interface{}{
		"actions": []map[string]interface{}{source},
	})
}

func (wd *remoteWD) KeyDownAction(key string) KeyAction {
	return KeyAction{
		"type":  "keyDown",
		"value": key,
	}
}

func (wd *remoteWD) KeyUpAction(key string) KeyAction {
	return KeyAction{
		"type":  "keyUp",
		"value": key,
	}
}

func (wd *remoteWD) KeyPauseAction(duration time.Duration) KeyAction {
	return KeyAction{
		"type":     "pause",
		"duration": uint(duration / time.Millisecond),
	}
}

func (wd *remoteWD) PointerDownAction(button int) PointerAction {
	return PointerAction{
		"type":   "pointerDown",
		"button": button,
	}
}

func (wd *remoteWD) PointerUpAction(button int) PointerAction {
	return PointerAction{
		"type":   "pointerUp",
		"button": button,
	}
}

func (wd *remoteWD) PointerMoveAction(duration time.Duration, offset Point, origin PointerMoveOrigin) PointerAction {
	return PointerAction{
		"type":     "pointerMove",
		"duration": uint(duration / time.Millisecond),
		"origin":   origin,
		"x":        offset.X,
		"y":        offset.Y,
	}
}

func (wd *remoteWD) PointerPauseAction(duration time.Duration) PointerAction {
	return PointerAction{
		"type":     "pause",
		"duration": uint(duration / time.Millisecond),
	}
}

// StoreKeyActions adds the actions as a key input source for the next
// PerformActions call.
func (wd *remoteWD) StoreKeyActions(inputID string, actions ...KeyAction) {
	wd.storedActions = append(wd.storedActions, keySource(inputID, actions))
}

// StorePointerActions adds the actions as a pointer input source for the
// next PerformActions call.
func (wd *remoteWD) StorePointerActions(inputID string, pointer PointerType, actions ...PointerAction) {
	wd.storedActions = append(wd.storedActions, pointerSource(inputID, pointer, actions))
}

// PerformActions sends the stored input sources to the remote end, which
// interleaves their ticks, and clears the store.
func (wd *remoteWD) PerformActions() error {
	actions := wd.storedActions
	if actions == nil {
		actions = []map[string]interface{}{}
	}
	err := wd.voidCommand(cmdPerformActions, map[string]interface{}{
		"actions": actions,
	})
	wd.storedActions = nil
	return err
}

// ReleaseActions releases any keys or buttons the remote end still holds
// pressed from previously performed actions.
func (wd *remoteWD) ReleaseActions() error {
	return wd.voidCommand(cmdReleaseActions, nil)
}
