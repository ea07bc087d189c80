package webdriver

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/urbanroutes/webdriver/log"
)

func TestMergeCapabilities(t *testing.T) {
	tests := []struct {
		desc string
		in   []Capabilities
		want NewSessionCapabilities
	}{
		{
			desc: "single candidate is hoisted entirely",
			in: []Capabilities{
				{"browserName": "chrome", "acceptInsecureCerts": true},
			},
			want: NewSessionCapabilities{
				AlwaysMatch: Capabilities{"browserName": "chrome", "acceptInsecureCerts": true},
				FirstMatch:  []Capabilities{{}},
			},
		},
		{
			desc: "no candidates yields an empty but valid request",
			in:   nil,
			want: NewSessionCapabilities{
				AlwaysMatch: Capabilities{},
				FirstMatch:  []Capabilities{{}},
			},
		},
		{
			desc: "shared key is hoisted, differing keys stay per candidate in order",
			in: []Capabilities{
				{"browserName": "chrome", "pageLoad": "eager"},
				{"browserName": "chrome", "pageLoad": "normal"},
			},
			want: NewSessionCapabilities{
				AlwaysMatch: Capabilities{"browserName": "chrome"},
				FirstMatch: []Capabilities{
					{"pageLoad": "eager"},
					{"pageLoad": "normal"},
				},
			},
		},
		{
			desc: "three candidates hoist only keys shared by every candidate",
			in: []Capabilities{
				{"browserName": "chrome", "platformName": "linux", "pageLoad": "eager"},
				{"browserName": "chrome", "platformName": "linux"},
				{"browserName": "chrome", "pageLoad": "eager"},
			},
			want: NewSessionCapabilities{
				AlwaysMatch: Capabilities{"browserName": "chrome"},
				FirstMatch: []Capabilities{
					{"platformName": "linux", "pageLoad": "eager"},
					{"platformName": "linux"},
					{"pageLoad": "eager"},
				},
			},
		},
		{
			desc: "a key shared only by adjacent pairs is not hoisted",
			in: []Capabilities{
				{"browserName": "chrome", "pageLoad": "eager"},
				{"browserName": "chrome", "pageLoad": "eager"},
				{"browserName": "chrome"},
			},
			want: NewSessionCapabilities{
				AlwaysMatch: Capabilities{"browserName": "chrome"},
				FirstMatch: []Capabilities{
					{"pageLoad": "eager"},
					{"pageLoad": "eager"},
					{},
				},
			},
		},
		{
			desc: "identical nested values compare deeply",
			in: []Capabilities{
				{"browserName": "chrome", "proxy": map[string]interface{}{"proxyType": "manual", "httpProxy": "localhost:8080"}},
				{"browserName": "chrome", "proxy": map[string]interface{}{"proxyType": "manual", "httpProxy": "localhost:8080"}},
			},
			want: NewSessionCapabilities{
				AlwaysMatch: Capabilities{
					"browserName": "chrome",
					"proxy":       map[string]interface{}{"proxyType": "manual", "httpProxy": "localhost:8080"},
				},
				FirstMatch: []Capabilities{{}, {}},
			},
		},
		{
			desc: "same key with different values is not hoisted",
			in: []Capabilities{
				{"browserName": "chrome"},
				{"browserName": "firefox"},
			},
			want: NewSessionCapabilities{
				AlwaysMatch: Capabilities{},
				FirstMatch: []Capabilities{
					{"browserName": "chrome"},
					{"browserName": "firefox"},
				},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			got := MergeCapabilities(test.in...)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("MergeCapabilities(%v) returned diff (-want/+got):\n%s", test.in, diff)
			}
			// Hoisted keys must not linger in any firstMatch entry.
			for k := range got.AlwaysMatch {
				for i, fm := range got.FirstMatch {
					if _, ok := fm[k]; ok {
						t.Errorf("key %q is in alwaysMatch and in firstMatch[%d]", k, i)
					}
				}
			}
		})
	}
}

func TestMergeCapabilitiesDoesNotMutateInput(t *testing.T) {
	candidates := []Capabilities{
		{"browserName": "chrome", "pageLoad": "eager"},
		{"browserName": "chrome", "pageLoad": "normal"},
	}
	MergeCapabilities(candidates...)
	want := []Capabilities{
		{"browserName": "chrome", "pageLoad": "eager"},
		{"browserName": "chrome", "pageLoad": "normal"},
	}
	if diff := cmp.Diff(want, candidates); diff != "" {
		t.Errorf("MergeCapabilities mutated its input (-want/+got):\n%s", diff)
	}
}

func TestMergeCapabilitiesJSONShape(t *testing.T) {
	merged := MergeCapabilities(Capabilities{"browserName": "chrome"})
	data, err := json.Marshal(merged)
	if err != nil {
		t.Fatalf("json.Marshal(merged) returned error: %v", err)
	}
	want := `{"alwaysMatch":{"browserName":"chrome"},"firstMatch":[{}]}`
	if string(data) != want {
		t.Errorf("json.Marshal(merged) = %s, want %s", data, want)
	}
}

func TestSetLogLevel(t *testing.T) {
	caps := Capabilities{"browserName": "chrome"}
	caps.SetLogLevel(log.Performance, log.All)
	caps.SetLogLevel(log.Browser, log.Severe)

	prefs, ok := caps[log.CapabilitiesKey].(log.Capabilities)
	if !ok {
		t.Fatalf("caps[%q] has type %T, want log.Capabilities", log.CapabilitiesKey, caps[log.CapabilitiesKey])
	}
	want := log.Capabilities{
		log.Performance: log.All,
		log.Browser:     log.Severe,
	}
	if diff := cmp.Diff(want, prefs); diff != "" {
		t.Errorf("logging preferences returned diff (-want/+got):\n%s", diff)
	}
}
