package markup

import "testing"

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		text string
		from Dialect
		to   Dialect
		want string
	}{
		{"same dialect", "<font color=red>x</font>", SubRip, SubRip, "<font color=red>x</font>"},
		{"subrip to ssa", "<i>Hello</i> world", SubRip, SSA, `{\i1}Hello{\i0} world`},
		{"ssa to subrip", `{\i1\b1}Hi{\b0\i0}`, SSA, SubRip, "<i><b>Hi</b></i>"},
		{"ssa drops override tags", `{\pos(10,20)}Text`, SSA, SubRip, "Text"},
		{"subrip to webvtt drops font", `<font color="red">Red</font> <I>it</I>`, SubRip, WebVTT, "Red <i>it</i>"},
		{"webvtt voice and timestamps", "<v Bob>Hi <00:00:01.000>there</v>", WebVTT, SubRip, "Hi there"},
		{"microdvd sticky", "{Y:i}One\nTwo", MicroDVD, SubRip, "<i>One</i>\n<i>Two</i>"},
		{"microdvd slash", "/One\nTwo", MicroDVD, SubRip, "<i>One</i>\nTwo"},
		{"microdvd combined", "{y:ib}Loud", MicroDVD, SSA, `{\i1}{\b1}Loud{\b0}{\i0}`},
		{"to microdvd across lines", "<i>One\nTwo</i>", SubRip, MicroDVD, "{y:i}One\n{y:i}Two"},
		{"to microdvd partial dropped", "a <i>b</i>", SubRip, MicroDVD, "a b"},
		{"to none", "<b>x</b>", WebVTT, None, "x"},
		{"from none", "plain", None, SSA, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.text, tt.from, tt.to)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	if got := Strip(`{\i1}a{\i0}`, SSA); got != "a" {
		t.Errorf("expected 'a', got %q", got)
	}
}
