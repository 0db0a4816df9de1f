package diag

import "testing"

var contextTests = []struct {
	Name    string
	Context *Context
	Indent  string

	WantDescribe string
	WantShow     string
}{
	{
		Name:    "single-line culprit",
		Context: contextInParen("[test]", "`A (bad)"),

		WantDescribe: "[test]:1:4",
		WantShow:     "[test]:1:4: `A <(bad)>",
	},
	{
		Name:    "culprit on a later line",
		Context: contextInParen("[test]", "`A\n  (bad) B\nmore"),

		WantDescribe: "[test]:2:3",
		WantShow:     "[test]:2:3:   <(bad)> B",
	},
	{
		Name:    "multi-line culprit is cut at the first newline",
		Context: contextInParen("[test]", "`A (bad\nbad) B"),

		WantDescribe: "[test]:1:4",
		WantShow:     "[test]:1:4: `A <(bad>",
	},
	{
		Name: "empty culprit",
		//                             012
		Context: NewContext("[test]", "`A", PointRanging(2)),

		WantDescribe: "[test]:1:3",
		WantShow:     "[test]:1:3: `A<^>",
	},
	{
		Name:    "invalid culprit range",
		Context: NewContext("[test]", "A", Ranging{2, 1}),

		WantDescribe: "[test]:1:2",
		WantShow:     "[test], invalid position 2-1",
	},
}

func TestContext(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	for _, test := range contextTests {
		t.Run(test.Name, func(t *testing.T) {
			if got := test.Context.Describe(); got != test.WantDescribe {
				t.Errorf("Describe() -> %q, want %q", got, test.WantDescribe)
			}
			if got := test.Context.Show(test.Indent); got != test.WantShow {
				t.Errorf("Show() -> %q, want %q", got, test.WantShow)
			}
		})
	}
}
