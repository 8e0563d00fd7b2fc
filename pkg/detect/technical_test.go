package detect

import (
	"strings"
	"testing"

	"github.com/mindfort-ai/bulwark/pkg/patterns"
)

func newTechnical(t *testing.T) *TechnicalDetector {
	t.Helper()
	return NewTechnicalDetector(patterns.Default())
}

func TestTechnicalNoArtifacts(t *testing.T) {
	d := newTechnical(t)

	signals := d.Detect(Input{Text: "hello, how are you today"})
	if len(signals) != 0 {
		t.Errorf("artifact-free text produced %+v", signals)
	}
}

func TestTechnicalPlainLink(t *testing.T) {
	d := newTechnical(t)

	signals := d.Detect(Input{Text: "see example.com/page", Links: []string{"example.com/page"}})
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1: %+v", len(signals), signals)
	}

	sig := signals[0]
	if sig.Name != "Technical: Embedded Link" {
		t.Errorf("name = %q", sig.Name)
	}
	if sig.Confidence != linkConfidence || sig.Severity != linkSeverity {
		t.Errorf("got conf=%v sev=%v, want %v/%v", sig.Confidence, sig.Severity, linkConfidence, linkSeverity)
	}
	if len(sig.Evidence) != 1 || sig.Evidence[0] != "example.com/page" {
		t.Errorf("evidence = %v", sig.Evidence)
	}
}

func TestTechnicalShortenedURL(t *testing.T) {
	d := newTechnical(t)

	signals := d.Detect(Input{Text: "claim at bit.ly/abc", Links: []string{"bit.ly/abc"}})

	short := findSignal(signals, "Technical: Shortened URL")
	if short == nil {
		t.Fatalf("no shortener signal in %+v", signals)
	}
	if short.Confidence != shortenerConfidence || short.Severity != shortenerSeverity {
		t.Errorf("got conf=%v sev=%v, want %v/%v", short.Confidence, short.Severity, shortenerConfidence, shortenerSeverity)
	}
	if findSignal(signals, "Technical: Embedded Link") == nil {
		t.Error("base link signal should fire alongside the shortener signal")
	}
}

func TestTechnicalRawIPLink(t *testing.T) {
	d := newTechnical(t)

	signals := d.Detect(Input{Links: []string{"http://192.168.4.77/login"}})

	if findSignal(signals, "Technical: Raw IP Link") == nil {
		t.Fatalf("no raw IP signal in %+v", signals)
	}
	// The digit check must not double-report an IP host.
	if findSignal(signals, "Technical: Digit-Heavy Domain") != nil {
		t.Error("IP host wrongly reported as digit-heavy domain")
	}
}

func TestTechnicalDigitHeavyAndSuspiciousTLD(t *testing.T) {
	d := newTechnical(t)

	signals := d.Detect(Input{Links: []string{"paypal-44021.xyz/verify"}})

	if findSignal(signals, "Technical: Digit-Heavy Domain") == nil {
		t.Errorf("no digit-heavy signal in %+v", signals)
	}
	if findSignal(signals, "Technical: Suspicious TLD") == nil {
		t.Errorf("no suspicious TLD signal in %+v", signals)
	}
}

func TestTechnicalOneTimeCode(t *testing.T) {
	d := newTechnical(t)

	signals := d.Detect(Input{Text: "Your verification code is 847291. Do not share it"})

	otp := findSignal(signals, "Technical: One-Time Code")
	if otp == nil {
		t.Fatalf("no one-time code signal in %+v", signals)
	}
	for _, ev := range otp.Evidence {
		if strings.Contains(ev, "847291") {
			t.Errorf("evidence leaks the code: %v", otp.Evidence)
		}
	}

	none := d.Detect(Input{Text: "the total is 12345"})
	if findSignal(none, "Technical: One-Time Code") != nil {
		t.Error("five digits misread as a one-time code")
	}
}

func TestTechnicalMoneyAmount(t *testing.T) {
	d := newTechnical(t)

	signals := d.Detect(Input{Text: "You won $1,000,000 in our draw"})

	money := findSignal(signals, "Technical: Money Amount")
	if money == nil {
		t.Fatalf("no money signal in %+v", signals)
	}
	if len(money.Evidence) == 0 || !strings.Contains(money.Evidence[0], "$1,000,000") {
		t.Errorf("evidence = %v", money.Evidence)
	}
	// A comma-grouped amount is not a one-time code or a phone number.
	if findSignal(signals, "Technical: One-Time Code") != nil {
		t.Error("amount misread as one-time code")
	}
	if findSignal(signals, "Technical: Phone Number") != nil {
		t.Error("amount misread as phone number")
	}
}

func TestTechnicalPhoneNumber(t *testing.T) {
	d := newTechnical(t)

	testCases := []struct {
		name string
		text string
		want bool
	}{
		{"dashed", "call 555-123-4567 to claim", true},
		{"bare_ten_digits", "text 5551234567 for help", true},
		{"international", "reach us at +14155550123", true},
		{"no_number", "call me later", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			signals := d.Detect(Input{Text: tc.text})
			got := findSignal(signals, "Technical: Phone Number") != nil
			if got != tc.want {
				t.Errorf("phone detection = %v, want %v for %q", got, tc.want, tc.text)
			}
		})
	}
}
