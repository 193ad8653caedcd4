// Copyright (c) 2025 Berik Ashimov

package problem

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"subnetlab/internal/ipmath"
	"subnetlab/internal/vlsm"
)

func TestBoundaryGenerateAndCheck(t *testing.T) {
	p := GenerateBoundary(&Sequence{Values: []int{26, 77}})
	if p.Address != "192.168.1.77" || p.Prefix != 26 {
		t.Fatalf("unexpected problem: %+v", p)
	}
	if p.Network != "192.168.1.64" || p.Broadcast != "192.168.1.127" {
		t.Fatalf("wrong answers: %+v", p)
	}
	res := p.Check(Submission{FieldNetwork: " 192.168.1.64 ", FieldBroadcast: "192.168.1.127"})
	if !res.Correct {
		t.Fatalf("expected correct, got %+v", res)
	}
	res = p.Check(Submission{FieldNetwork: "192.168.1.64", FieldBroadcast: "192.168.1.128"})
	if res.Correct {
		t.Fatalf("wrong broadcast graded correct")
	}
	if strings.Contains(res.Feedback, "Step 1") {
		t.Fatalf("boundary feedback should not carry drill steps: %q", res.Feedback)
	}
}

func TestDrillFeedbackHasSteps(t *testing.T) {
	p := GenerateDrill(&Sequence{Values: []int{22, 5, 9}})
	if p.Kind() != KindDrill {
		t.Fatalf("kind = %s", p.Kind())
	}
	if p.Network != "172.16.4.0" || p.Broadcast != "172.16.7.255" {
		t.Fatalf("wrong answers: %+v", p)
	}
	res := p.Check(Submission{})
	if res.Correct || !strings.Contains(res.Feedback, "Step 1") || !strings.Contains(res.Feedback, "is 4") {
		t.Fatalf("unexpected drill feedback: %+v", res)
	}
}

func TestGeneratedRanges(t *testing.T) {
	src := NewSource(11)
	for i := 0; i < 500; i++ {
		b := GenerateBoundary(src)
		if b.Prefix < BoundaryMinPrefix || b.Prefix > BoundaryMaxPrefix || !strings.HasPrefix(b.Address, "192.168.1.") {
			t.Fatalf("boundary out of range: %+v", b)
		}
		d := GenerateDrill(src)
		if d.Prefix < DrillMinPrefix || d.Prefix > DrillMaxPrefix || !strings.HasPrefix(d.Address, "172.16.") {
			t.Fatalf("drill out of range: %+v", d)
		}
		c := GenerateCalculator(src)
		if c.Calc.Prefix < CalculatorMinPrefix || c.Calc.Prefix > CalculatorMaxPrefix || !c.Calc.HasUsable {
			t.Fatalf("calculator out of range: %+v", c.Calc)
		}
		s := GenerateSummary(src)
		if s.Summary.Prefix != 22 || s.Summary.Network[2]%4 != 0 {
			t.Fatalf("summary: %+v", s.Summary)
		}
	}
}

func TestCalculate(t *testing.T) {
	c, err := Calculate(ipmath.MustParseAddress("192.168.1.77"), 26)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if c.InterestingOctet != 4 || c.MaskOctet != 192 || c.MagicNumber != 64 || c.BlockStart != 64 {
		t.Fatalf("walkthrough numbers: %+v", c)
	}
	want := map[string]string{
		"network":   c.Network,
		"broadcast": c.Broadcast,
		"first":     c.FirstUsable,
		"last":      c.LastUsable,
		"next":      c.NextNetwork,
		"mask":      c.Mask,
		"wildcard":  c.Wildcard,
	}
	expected := map[string]string{
		"network":   "192.168.1.64",
		"broadcast": "192.168.1.127",
		"first":     "192.168.1.65",
		"last":      "192.168.1.126",
		"next":      "192.168.1.128",
		"mask":      "255.255.255.192",
		"wildcard":  "0.0.0.63",
	}
	if !reflect.DeepEqual(want, expected) {
		t.Fatalf("calculation = %v, want %v", want, expected)
	}
	if c.Usable != 62 || len(c.Steps) != 5 {
		t.Fatalf("usable %d, steps %v", c.Usable, c.Steps)
	}
	if !strings.Contains(c.Steps[3], "0, 64, 128, 192") {
		t.Fatalf("multiples step: %q", c.Steps[3])
	}

	c, err = Calculate(ipmath.MustParseAddress("10.0.0.5"), 31)
	if err != nil {
		t.Fatalf("calculate /31: %v", err)
	}
	if c.HasUsable || c.FirstUsable != "" {
		t.Fatalf("/31 should have no usable range: %+v", c)
	}
	if _, err := Calculate(ipmath.Address{}, 33); err == nil {
		t.Fatalf("expected error for /33")
	}
}

func TestCalculatorCheck(t *testing.T) {
	p, err := NewCalculatorProblem(ipmath.MustParseAddress("172.16.5.9"), 22)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	sub := Submission{}
	for k, v := range p.expected() {
		sub[k] = v
	}
	if res := p.Check(sub); !res.Correct {
		t.Fatalf("expected correct: %+v", res)
	}
	sub[FieldNext] = "172.16.7.0"
	res := p.Check(sub)
	if res.Correct || !strings.Contains(res.Feedback, FieldNext) {
		t.Fatalf("expected next flagged: %+v", res)
	}
}

func TestQuizTiers(t *testing.T) {
	a := ipmath.MustParseAddress("10.1.2.77")
	cases := []struct {
		tier Tier
		want string
	}{
		{TierMask, "192"},
		{TierNetwork, "10.1.2.64"},
		{TierLastUsable, "10.1.2.126"},
	}
	for _, tc := range cases {
		q, err := NewQuiz(NewSource(1), tc.tier, a, 26)
		if err != nil {
			t.Fatalf("tier %d: %v", tc.tier, err)
		}
		if q.Answer != tc.want {
			t.Fatalf("tier %d answer = %q, want %q", tc.tier, q.Answer, tc.want)
		}
		assertOptions(t, q.Options, q.Answer)
		if !q.Check(Submission{FieldChoice: tc.want}).Correct {
			t.Fatalf("tier %d: correct choice rejected", tc.tier)
		}
		res := q.Check(Submission{FieldChoice: "nope"})
		if res.Correct || !strings.Contains(res.Feedback, "magic number for /26 is 64") {
			t.Fatalf("tier %d feedback: %+v", tc.tier, res)
		}
	}
}

func TestGenerateQuizRange(t *testing.T) {
	src := NewSource(5)
	for i := 0; i < 200; i++ {
		q, err := GenerateQuiz(src, TierLastUsable)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if q.Prefix < QuizMinPrefix || q.Prefix > QuizMaxPrefix || !strings.HasPrefix(q.Address, "10.") {
			t.Fatalf("out of range: %+v", q)
		}
		assertOptions(t, q.Options, q.Answer)
	}
}

func TestWildcardAndReverse(t *testing.T) {
	w, err := NewWildcard(NewSource(3), ipmath.MustParseAddress("10.4.0.0"), 22)
	if err != nil {
		t.Fatalf("wildcard: %v", err)
	}
	if w.Answer != "0.0.3.255" || w.Network != "10.4.0.0" {
		t.Fatalf("wildcard = %+v", w)
	}
	assertOptions(t, w.Options, w.Answer)
	if !w.Check(Submission{FieldChoice: "0.0.3.255"}).Correct {
		t.Fatalf("wildcard rejected")
	}

	r, err := NewReverseCidr(NewSource(3), ipmath.MustParseAddress("192.168.10.0"), 23)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if r.Broadcast != "192.168.11.255" || r.Answer != "/23" {
		t.Fatalf("reverse = %+v", r)
	}
	assertOptions(t, r.Options, r.Answer)
	for _, in := range []string{"/23", "23", " /23 "} {
		if !r.Check(Submission{FieldChoice: in}).Correct {
			t.Fatalf("%q rejected", in)
		}
	}
	if r.Check(Submission{FieldChoice: "/24"}).Correct {
		t.Fatalf("/24 accepted")
	}
}

func TestDistractorExhaustion(t *testing.T) {
	// Every distractor draw yields /26, so only two unique options exist.
	_, err := NewReverseCidr(&Sequence{Values: []int{26}}, ipmath.MustParseAddress("192.168.0.0"), 24)
	var gen *GenerationError
	if !errors.As(err, &gen) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if gen.Attempts != MaxDistractorAttempts || gen.Unique != 2 || gen.Kind != KindReverseCIDR {
		t.Fatalf("unexpected error fields: %+v", gen)
	}
}

func TestSummaryProblem(t *testing.T) {
	p := GenerateSummary(&Sequence{Values: []int{1}})
	if p.Summary.String() != "192.168.4.0/22" || len(p.Networks) != 4 {
		t.Fatalf("summary = %+v", p)
	}
	if !p.Check(Submission{FieldAddress: "192.168.4.0", FieldPrefix: "/22"}).Correct {
		t.Fatalf("correct summary rejected")
	}
	if !p.Check(Submission{FieldAddress: "192.168.4.0", FieldPrefix: "22"}).Correct {
		t.Fatalf("bare prefix rejected")
	}
	if p.Check(Submission{FieldAddress: "192.168.4.0", FieldPrefix: "/21"}).Correct {
		t.Fatalf("wrong prefix accepted")
	}
	if _, err := NewSummary([]ipmath.Subnet{ipmath.MustSubnet("10.0.1.0/24"), ipmath.MustSubnet("10.0.2.0/24")}); err == nil {
		t.Fatalf("expected coverage error")
	}
}

func TestVLSMProblem(t *testing.T) {
	p := GenerateVLSM(nil)
	want := map[string]string{
		"HQ":         "10.10.0.0/23",
		"Sales":      "10.10.2.0/24",
		"Marketing":  "10.10.3.0/25",
		"WAN Link A": "10.10.3.128/30",
		"WAN Link B": "10.10.3.132/30",
	}
	sub := Submission{}
	for name, cidr := range want {
		parts := strings.SplitN(cidr, "/", 2)
		sub[NetworkField(name)] = parts[0]
		sub[PrefixField(name)] = "/" + parts[1]
	}
	if res := p.Check(sub); !res.Correct {
		t.Fatalf("expected correct: %+v", res)
	}
	sub[NetworkField("WAN Link A")], sub[NetworkField("WAN Link B")] = "10.10.3.132", "10.10.3.128"
	res := p.Check(sub)
	if res.Correct || !strings.Contains(res.Feedback, "largest block first") {
		t.Fatalf("swapped rows accepted: %+v", res)
	}
	if len(p.Card().Fields) != 2*len(CampusRequirements) {
		t.Fatalf("fields: %v", p.Card().Fields)
	}
}

func TestVLSMRejectsRepeatedNames(t *testing.T) {
	reqs := []vlsm.Requirement{{Name: "LAN", Hosts: 100}, {Name: "LAN", Hosts: 20}}
	_, err := NewVLSM(reqs, ipmath.MustParseAddress("10.0.0.0"))
	var ae *vlsm.AllocationError
	if !errors.As(err, &ae) || ae.Requirement != "LAN" {
		t.Fatalf("expected AllocationError for LAN, got %v", err)
	}
}

func testScenario() TroubleshootingScenario {
	return TroubleshootingScenario{
		Title:   "Lab",
		Network: "192.168.100.0/26",
		Devices: []Device{
			{Name: "Router", IP: "192.168.100.1", Mask: "/26"},
			{Name: "PC-B", IP: "192.168.100.63", Mask: "/26", Issue: "This is the broadcast address and cannot be assigned to a host."},
		},
	}
}

func TestTroubleshootingCheck(t *testing.T) {
	s := testScenario()
	if res := s.Check(Submission{FieldRow: "1"}); !res.Correct || !strings.Contains(res.Feedback, "broadcast address") {
		t.Fatalf("faulty row: %+v", res)
	}
	if res := s.Check(Submission{FieldRow: "0"}); res.Correct || !strings.Contains(res.Feedback, "valid") {
		t.Fatalf("valid row: %+v", res)
	}
	for _, raw := range []string{"2", "-1", "x", ""} {
		if s.Check(Submission{FieldRow: raw}).Correct {
			t.Fatalf("row %q accepted", raw)
		}
	}
	if got := s.Faulty(); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("faulty = %v", got)
	}
}

func TestGeneratorAndCodec(t *testing.T) {
	scenarios := func() []TroubleshootingScenario { return []TroubleshootingScenario{testScenario()} }
	g := NewGenerator(NewSource(42), scenarios)
	for _, k := range Kinds {
		p, err := g.Generate(k, TierNetwork)
		if err != nil {
			t.Fatalf("generate %s: %v", k, err)
		}
		if p.Kind() != k {
			t.Fatalf("kind = %s, want %s", p.Kind(), k)
		}
		data, err := Encode(p)
		if err != nil {
			t.Fatalf("encode %s: %v", k, err)
		}
		back, err := Decode(data)
		if err != nil {
			t.Fatalf("decode %s: %v", k, err)
		}
		if !reflect.DeepEqual(back, p) {
			t.Fatalf("%s round trip:\n got %+v\nwant %+v", k, back, p)
		}
	}
	if _, err := Decode([]byte(`{"kind":"bogus","payload":{}}`)); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestGeneratorDeterminism(t *testing.T) {
	a := NewGenerator(NewSource(7), nil)
	b := NewGenerator(NewSource(7), nil)
	for i := 0; i < 20; i++ {
		k := Kinds[i%(len(Kinds)-1)]
		pa, err := a.Generate(k, TierLastUsable)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		pb, _ := b.Generate(k, TierLastUsable)
		ea, _ := Encode(pa)
		eb, _ := Encode(pb)
		if !bytes.Equal(ea, eb) {
			t.Fatalf("same seed diverged on %s", k)
		}
	}
	if _, err := a.Generate(KindTroubleshoot, TierMask); !errors.Is(err, ErrNoScenarios) {
		t.Fatalf("expected ErrNoScenarios, got %v", err)
	}
}

func TestParseKindAndTier(t *testing.T) {
	if k, err := ParseKind(" Reverse-CIDR "); err != nil || k != KindReverseCIDR {
		t.Fatalf("ParseKind = %q, %v", k, err)
	}
	if _, err := ParseKind("binary"); err == nil {
		t.Fatalf("expected unknown kind")
	}
	if tier, err := ParseTier(""); err != nil || tier != TierMask {
		t.Fatalf("default tier = %d, %v", tier, err)
	}
	if _, err := ParseTier("4"); err == nil {
		t.Fatalf("tier 4 accepted")
	}
}

func assertOptions(t *testing.T, opts []string, answer string) {
	t.Helper()
	if len(opts) != OptionCount {
		t.Fatalf("got %d options: %v", len(opts), opts)
	}
	seen := map[string]bool{}
	for _, o := range opts {
		if seen[o] {
			t.Fatalf("duplicate option %q in %v", o, opts)
		}
		seen[o] = true
	}
	if !seen[answer] {
		t.Fatalf("answer %q missing from %v", answer, opts)
	}
}
