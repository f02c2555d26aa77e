package symbols

import "testing"

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"9831", "9831.T"},
		{"9831.t", "9831.T"},
		{"9831.T", "9831.T"},
		{"  7419  ", "7419.T"},
		{"aapl", "AAPL"},
		{"MSFT", "MSFT"},
		{"トヨタ", "トヨタ"},
		{"abcdef", "abcdef"},
		{"12345", "12345"},
		{"Sony Group", "Sony Group"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeTicker(tt.input); got != tt.want {
				t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTicker_Idempotent(t *testing.T) {
	inputs := []string{
		"9831", "9831.t", "aapl", "トヨタ", "", " 8058 ", "brk.b", "mitsubishi corporation",
		"7203.JP", "x", "ABCDEF", "1234.5", "三菱商事",
	}
	for _, in := range inputs {
		once := NormalizeTicker(in)
		twice := NormalizeTicker(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsTickerLike(t *testing.T) {
	if !IsTickerLike("8058.T") {
		t.Error("expected 8058.T to be ticker-like")
	}
	if !IsTickerLike("TYO:8058") {
		t.Error("expected TYO:8058 to be ticker-like")
	}
	if IsTickerLike("三菱商事") {
		t.Error("expected 三菱商事 not to be ticker-like")
	}
	if IsTickerLike("mitsubishi corporation") {
		t.Error("expected names with spaces not to be ticker-like")
	}
}

func TestIsTokyoSymbol(t *testing.T) {
	if !IsTokyoSymbol("9831.t") {
		t.Error("expected lowercase suffix to count as Tokyo")
	}
	if IsTokyoSymbol("AAPL") {
		t.Error("expected AAPL not to be Tokyo")
	}
}

func TestBaseCode(t *testing.T) {
	if got := BaseCode("8058.T"); got != "8058" {
		t.Errorf("BaseCode(8058.T) = %q", got)
	}
	if got := BaseCode("AAPL"); got != "AAPL" {
		t.Errorf("BaseCode(AAPL) = %q", got)
	}
}
