package avatar

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/glog"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string `json:"action"`
	Key    string `json:"key,omitempty"`
	Label  string `json:"label,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// script is the top-level JSON structure of an input script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptTarget receives the actions of a ScriptRunner. *App implements it.
type ScriptTarget interface {
	PressBinding(name string) bool
	ToggleFlip()
	ToggleOutput()
	Screenshot(label string)
	Quit()
}

// ScriptRunner replays a scripted sequence of inputs, one step per frame,
// for unattended demos and visual checks. Steps are:
//
//	{"action": "press", "key": "W"}        press a binding
//	{"action": "flip"}                     toggle horizontal flip
//	{"action": "output"}                   close or reopen the output surface
//	{"action": "screenshot", "label": "x"} capture the output surface
//	{"action": "wait", "frames": 30}       do nothing for N frames
//	{"action": "quit"}                     stop the application
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// ParseScript parses a JSON input script.
func ParseScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("avatar: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("avatar: parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "press":
			if st.Key == "" {
				return nil, fmt.Errorf("avatar: parse script: step %d: press needs a key", i)
			}
		case "flip", "output", "screenshot", "wait", "quit":
		default:
			return nil, fmt.Errorf("avatar: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// LoadScript reads and parses a JSON input script file.
func LoadScript(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("avatar: read script %s: %w", path, err)
	}
	return ParseScript(data)
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step executes at most one step against t. Called once per frame.
func (r *ScriptRunner) Step(t ScriptTarget) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		if !t.PressBinding(st.Key) {
			glog.Warningf("avatar: script: no binding for key %q", st.Key)
		}
	case "flip":
		t.ToggleFlip()
	case "output":
		t.ToggleOutput()
	case "screenshot":
		t.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "quit":
		t.Quit()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
