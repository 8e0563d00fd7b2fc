package detect

import (
	"regexp"

	"github.com/mindfort-ai/bulwark/pkg/links"
	"github.com/mindfort-ai/bulwark/pkg/patterns"
	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// Sub-check constants. Confidence reflects how reliably the artifact
// indicates what it claims; severity reflects how dangerous the artifact is
// when real. A shortened URL is near-certain to be what it looks like and
// hides its destination, so it scores high on both.
const (
	linkConfidence = 0.6
	linkSeverity   = 0.3

	shortenerConfidence = 0.9
	shortenerSeverity   = 0.7

	rawIPConfidence = 0.95
	rawIPSeverity   = 0.9

	digitDomainConfidence = 0.7
	digitDomainSeverity   = 0.5

	suspiciousTLDConfidence = 0.8
	suspiciousTLDSeverity   = 0.6

	otpConfidence = 0.7
	otpSeverity   = 0.8

	moneyConfidence = 0.7
	moneySeverity   = 0.3

	phoneConfidence = 0.7
	phoneSeverity   = 0.4
)

// digitDomainMax is the digit count above which a host looks
// machine-generated ("paypal-44021-secure.com").
const digitDomainMax = 4

// Precompiled patterns (compiled once at package init for performance)
var (
	reOTP   = regexp.MustCompile(`\b\d{6}\b`)
	reMoney = regexp.MustCompile(`(?i)[$£€]\s?\d[\d,]*(?:\.\d+)?|\b\d[\d,]*\s?(?:dollars|euros|pounds|usd)\b`)
	rePhone = regexp.MustCompile(`\b\d{3}[-. ]\d{3}[-. ]\d{4}\b|\b\d{10}\b|\+\d{10,14}\b`)
)

// TechnicalDetector inspects message artifacts rather than language: the
// pre-extracted links plus numeric patterns in the text. Sub-checks are
// additive: each one that fires emits its own signal, and a link that is
// both shortened and on a suspicious TLD produces both signals.
type TechnicalDetector struct {
	reg *patterns.Registry
}

// NewTechnicalDetector builds the detector on the given tables.
func NewTechnicalDetector(reg *patterns.Registry) *TechnicalDetector {
	return &TechnicalDetector{reg: reg}
}

func (d *TechnicalDetector) Category() risk.Category {
	return risk.CategoryTechnical
}

func (d *TechnicalDetector) Detect(in Input) []risk.Signal {
	signals := d.linkSignals(in.Links)
	return append(signals, d.textSignals(in.Text)...)
}

func (d *TechnicalDetector) linkSignals(urls []string) []risk.Signal {
	if len(urls) == 0 {
		return nil
	}
	var shortened, rawIP, digitHeavy, badTLD []string
	table := d.reg.Technical()
	for _, u := range urls {
		host := links.Host(u)
		if host == "" {
			continue
		}
		if links.IsIPHost(host) {
			// IP hosts would also trip the digit check; report them once,
			// as what they are.
			rawIP = append(rawIP, u)
			continue
		}
		for _, s := range table.Shorteners {
			if links.MatchesDomain(host, s) {
				shortened = append(shortened, u)
				break
			}
		}
		if links.DigitCount(host) > digitDomainMax {
			digitHeavy = append(digitHeavy, u)
		}
		if links.HasSuffixAny(host, table.SuspiciousTLDs) {
			badTLD = append(badTLD, u)
		}
	}

	signals := []risk.Signal{
		risk.NewSignal(risk.CategoryTechnical, signalName(risk.CategoryTechnical, "Embedded Link"),
			linkConfidence, linkSeverity, urls...),
	}
	if len(shortened) > 0 {
		signals = append(signals, risk.NewSignal(risk.CategoryTechnical,
			signalName(risk.CategoryTechnical, "Shortened URL"),
			shortenerConfidence, shortenerSeverity, shortened...))
	}
	if len(rawIP) > 0 {
		signals = append(signals, risk.NewSignal(risk.CategoryTechnical,
			signalName(risk.CategoryTechnical, "Raw IP Link"),
			rawIPConfidence, rawIPSeverity, rawIP...))
	}
	if len(digitHeavy) > 0 {
		signals = append(signals, risk.NewSignal(risk.CategoryTechnical,
			signalName(risk.CategoryTechnical, "Digit-Heavy Domain"),
			digitDomainConfidence, digitDomainSeverity, digitHeavy...))
	}
	if len(badTLD) > 0 {
		signals = append(signals, risk.NewSignal(risk.CategoryTechnical,
			signalName(risk.CategoryTechnical, "Suspicious TLD"),
			suspiciousTLDConfidence, suspiciousTLDSeverity, badTLD...))
	}
	return signals
}

func (d *TechnicalDetector) textSignals(text string) []risk.Signal {
	var signals []risk.Signal
	if reOTP.MatchString(text) {
		// The code itself stays out of the evidence.
		signals = append(signals, risk.NewSignal(risk.CategoryTechnical,
			signalName(risk.CategoryTechnical, "One-Time Code"),
			otpConfidence, otpSeverity, "6-digit code present"))
	}
	if m := reMoney.FindString(text); m != "" {
		signals = append(signals, risk.NewSignal(risk.CategoryTechnical,
			signalName(risk.CategoryTechnical, "Money Amount"),
			moneyConfidence, moneySeverity, "amount: "+m))
	}
	if rePhone.MatchString(text) {
		signals = append(signals, risk.NewSignal(risk.CategoryTechnical,
			signalName(risk.CategoryTechnical, "Phone Number"),
			phoneConfidence, phoneSeverity, "phone number present"))
	}
	return signals
}
