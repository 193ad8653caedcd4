// Copyright (c) 2025 Berik Ashimov

package problem

import (
	"strconv"

	"subnetlab/internal/ipmath"
)

const (
	QuizMinPrefix = 25
	QuizMaxPrefix = 30
)

// tierOneOctets are the mask octets of /25 through /30.
var tierOneOctets = []int{128, 192, 224, 240, 248, 252}

// QuizQuestion is the multiple-choice gauntlet question for a tier.
type QuizQuestion struct {
	Tier    Tier     `json:"tier"`
	Address string   `json:"address"`
	Prefix  int      `json:"prefix"`
	Text    string   `json:"text"`
	Answer  string   `json:"answer"`
	Options []string `json:"options"`
}

func quizAddress(src Source) ipmath.Address {
	return ipmath.Address{10, byte(src.IntRange(0, 255)), byte(src.IntRange(0, 255)), byte(src.IntRange(1, 254))}
}

func quizAnswer(tier Tier, a ipmath.Address, prefix int) string {
	switch tier {
	case TierMask:
		return strconv.Itoa(int(ipmath.MaskForPrefix(prefix)[3]))
	case TierNetwork:
		return ipmath.NetworkAddress(a, prefix).String()
	default:
		n := ipmath.NetworkAddress(a, prefix)
		return ipmath.PrevAddress(ipmath.BroadcastAddress(n, prefix)).String()
	}
}

// NewQuiz builds the question for a given host and prefix. Distractors come
// from the same formula on fresh random input.
func NewQuiz(src Source, tier Tier, a ipmath.Address, prefix int) (QuizQuestion, error) {
	if tier < TierMask || tier > TierLastUsable {
		tier = TierLastUsable
	}
	if err := ipmath.CheckPrefix(prefix); err != nil {
		return QuizQuestion{}, err
	}
	q := QuizQuestion{
		Tier:    tier,
		Address: a.String(),
		Prefix:  prefix,
		Answer:  quizAnswer(tier, a, prefix),
	}
	cidr := "/" + strconv.Itoa(prefix)
	switch tier {
	case TierMask:
		q.Text = "What is the mask octet for " + cidr + "?"
	case TierNetwork:
		q.Text = "Find the network ID for " + q.Address + cidr + "."
	default:
		q.Text = "Find the last usable IP for " + q.Address + cidr + "."
	}
	opts, err := buildOptions(src, KindQuiz, q.Answer, func() string {
		if tier == TierMask {
			return strconv.Itoa(tierOneOctets[src.IntRange(0, len(tierOneOctets)-1)])
		}
		ra := quizAddress(src)
		rp := src.IntRange(QuizMinPrefix, QuizMaxPrefix)
		return quizAnswer(tier, ra, rp)
	})
	if err != nil {
		return QuizQuestion{}, err
	}
	q.Options = opts
	return q, nil
}

// GenerateQuiz draws a host in 10.0.0.0/8 with a /25 to /30 mask.
func GenerateQuiz(src Source, tier Tier) (QuizQuestion, error) {
	a := quizAddress(src)
	prefix := src.IntRange(QuizMinPrefix, QuizMaxPrefix)
	return NewQuiz(src, tier, a, prefix)
}

func (q QuizQuestion) Kind() Kind     { return KindQuiz }
func (q QuizQuestion) Prompt() string { return q.Text }

func (q QuizQuestion) Card() Card {
	return Card{Kind: KindQuiz, Prompt: q.Text, Fields: []string{FieldChoice}, Options: q.Options}
}

func (q QuizQuestion) Check(sub Submission) Result {
	res := Result{
		Correct:  sub.get(FieldChoice) == q.Answer,
		Expected: map[string]string{FieldChoice: q.Answer},
	}
	if res.Correct {
		res.Feedback = "Correct! Well done."
		return res
	}
	magic := 256 - int(ipmath.MaskForPrefix(q.Prefix)[3])
	res.Feedback = "The correct answer was " + q.Answer + ". Hint: the magic number for /" +
		strconv.Itoa(q.Prefix) + " is " + strconv.Itoa(magic) + "."
	return res
}

const (
	WildcardMinPrefix = 16
	WildcardMaxPrefix = 30
)

// WildcardQuestion asks for the ACL wildcard mask that matches a network.
type WildcardQuestion struct {
	Network string   `json:"network"`
	Prefix  int      `json:"prefix"`
	Answer  string   `json:"answer"`
	Options []string `json:"options"`
}

func NewWildcard(src Source, a ipmath.Address, prefix int) (WildcardQuestion, error) {
	s, err := ipmath.NewSubnet(a, prefix)
	if err != nil {
		return WildcardQuestion{}, err
	}
	q := WildcardQuestion{
		Network: s.Network.String(),
		Prefix:  prefix,
		Answer:  s.Wildcard().String(),
	}
	opts, err := buildOptions(src, KindWildcard, q.Answer, func() string {
		return ipmath.WildcardForPrefix(src.IntRange(WildcardMinPrefix, WildcardMaxPrefix)).String()
	})
	if err != nil {
		return WildcardQuestion{}, err
	}
	q.Options = opts
	return q, nil
}

// GenerateWildcard draws a network in 10.0.0.0/8 with a /16 to /30 mask.
func GenerateWildcard(src Source) (WildcardQuestion, error) {
	a := quizAddress(src)
	prefix := src.IntRange(WildcardMinPrefix, WildcardMaxPrefix)
	return NewWildcard(src, a, prefix)
}

func (q WildcardQuestion) Kind() Kind { return KindWildcard }

func (q WildcardQuestion) Prompt() string {
	return "Which wildcard mask matches " + q.Network + "/" + strconv.Itoa(q.Prefix) + " in an access list?"
}

func (q WildcardQuestion) Card() Card {
	return Card{Kind: KindWildcard, Prompt: q.Prompt(), Fields: []string{FieldChoice}, Options: q.Options}
}

func (q WildcardQuestion) Check(sub Submission) Result {
	res := Result{
		Correct:  sub.get(FieldChoice) == q.Answer,
		Expected: map[string]string{FieldChoice: q.Answer},
	}
	if res.Correct {
		res.Feedback = "Correct! The wildcard is the mask flipped bit for bit."
		return res
	}
	res.Feedback = "The correct wildcard was " + q.Answer + ". Subtract each octet of the mask " +
		ipmath.MaskForPrefix(q.Prefix).String() + " from 255."
	return res
}

const (
	ReverseMinPrefix = 23
	ReverseMaxPrefix = 29
)

// ReverseCidrQuestion shows a network and broadcast pair and asks for the
// prefix length.
type ReverseCidrQuestion struct {
	Network   string   `json:"network"`
	Broadcast string   `json:"broadcast"`
	Prefix    int      `json:"prefix"`
	Answer    string   `json:"answer"`
	Options   []string `json:"options"`
}

func NewReverseCidr(src Source, a ipmath.Address, prefix int) (ReverseCidrQuestion, error) {
	s, err := ipmath.NewSubnet(a, prefix)
	if err != nil {
		return ReverseCidrQuestion{}, err
	}
	q := ReverseCidrQuestion{
		Network:   s.Network.String(),
		Broadcast: s.Broadcast().String(),
		Prefix:    prefix,
		Answer:    "/" + strconv.Itoa(prefix),
	}
	opts, err := buildOptions(src, KindReverseCIDR, q.Answer, func() string {
		return "/" + strconv.Itoa(src.IntRange(ReverseMinPrefix, ReverseMaxPrefix))
	})
	if err != nil {
		return ReverseCidrQuestion{}, err
	}
	q.Options = opts
	return q, nil
}

// GenerateReverseCidr draws a /23 to /29 network under 192.168.0.0 to
// 192.168.49.0.
func GenerateReverseCidr(src Source) (ReverseCidrQuestion, error) {
	prefix := src.IntRange(ReverseMinPrefix, ReverseMaxPrefix)
	a := ipmath.Address{192, 168, byte(src.IntRange(0, 49)), 0}
	return NewReverseCidr(src, a, prefix)
}

func (q ReverseCidrQuestion) Kind() Kind { return KindReverseCIDR }

func (q ReverseCidrQuestion) Prompt() string {
	return "Network ID: " + q.Network + ", broadcast: " + q.Broadcast + ". What is the CIDR notation?"
}

func (q ReverseCidrQuestion) Card() Card {
	return Card{Kind: KindReverseCIDR, Prompt: q.Prompt(), Fields: []string{FieldChoice}, Options: q.Options}
}

func (q ReverseCidrQuestion) Check(sub Submission) Result {
	res := Result{
		Correct:  matchPrefix(sub.get(FieldChoice), q.Prefix),
		Expected: map[string]string{FieldChoice: q.Answer},
	}
	if res.Correct {
		res.Feedback = "Correct! You reverse-engineered the CIDR."
		return res
	}
	res.Feedback = "The correct CIDR was " + q.Answer + ". Hint: count the addresses in the range to find the host bits."
	return res
}
