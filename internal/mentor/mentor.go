// Copyright (c) 2025 Berik Ashimov

// Package mentor answers chat messages from a fixed list of keyword rules.
package mentor

import "strings"

type Action string

const (
	ActionNone        Action = ""
	ActionOpenChapter Action = "open-chapter"
	ActionNewQuiz     Action = "new-quiz"
)

type Reply struct {
	Text    string `json:"text"`
	Action  Action `json:"action,omitempty"`
	Chapter int    `json:"chapter,omitempty"`
}

// Rule matches when the lowercased message contains any of Keywords.
type Rule struct {
	Keywords []string
	Reply    Reply
}

const Greeting = "Hello, Recruit. I am the Cyber Mentor. Ask me about subnetting concepts, or tell me to 'create a quiz'."

const fallback = "My knowledge is focused on subnetting. Try asking me 'what is a network id?', " +
	"'explain vlsm', 'how do I calculate a subnet?', or tell me to 'create a quiz'."

// Rules are tried in order; the first match wins.
var Rules = []Rule{
	{
		Keywords: []string{"what are you", "who are you"},
		Reply:    Reply{Text: "I am the Cyber Mentor for this training module. I help you master subnetting with definitions and practice questions."},
	},
	{
		Keywords: []string{"start", "begin", "basics"},
		Reply: Reply{
			Text:    "The best place to start is Chapter 1: The Fundamentals. It explains what an IP address is and how binary numbers work. I've opened it for you.",
			Action:  ActionOpenChapter,
			Chapter: 1,
		},
	},
	{
		Keywords: []string{"calculate", "how to", "steps"},
		Reply: Reply{Text: "The fastest way to calculate a subnet is the Magic Number method: " +
			"1. Find the interesting mask octet (the one that isn't 255). " +
			"2. Calculate the magic number: 256 - mask octet. This is your block size. " +
			"3. Your network starts at the largest multiple of the magic number that is less than or equal to your address octet. " +
			"The calculator walks through a full example."},
	},
	{
		Keywords: []string{"cidr"},
		Reply: Reply{Text: "CIDR (Classless Inter-Domain Routing) defines the size of a network. " +
			"The number after the slash, such as /24, is how many bits belong to the network portion. " +
			"A higher number means more network bits and fewer host bits."},
	},
	{
		Keywords: []string{"create quiz", "new question", "quiz me", "quiz"},
		Reply: Reply{
			Text:    "Understood. I have generated a new question for you in Chapter 6: The Gauntlet.",
			Action:  ActionNewQuiz,
			Chapter: 6,
		},
	},
	{
		Keywords: []string{"network id"},
		Reply:    Reply{Text: "The Network ID is the very first address in a subnet. It represents the entire network and cannot be assigned to a single device."},
	},
	{
		Keywords: []string{"broadcast"},
		Reply:    Reply{Text: "The Broadcast Address is the very last address in a subnet. Sending data to it reaches every device on that subnet."},
	},
	{
		Keywords: []string{"magic number"},
		Reply: Reply{Text: "The Magic Number (or block size) is 256 minus the interesting mask octet. " +
			"It is the number of addresses in each subnet and where each new subnet begins, e.g. 0, 32, 64."},
	},
	{
		Keywords: []string{"vlsm"},
		Reply: Reply{Text: "VLSM stands for Variable Length Subnet Masking. It carves subnets of different sizes from one address block, " +
			"so a point-to-point link gets a /30 while a department of 50 hosts gets a /26. Always allocate the largest block first."},
	},
	{
		Keywords: []string{"hint", "help"},
		Reply: Reply{
			Text:   "I can't give hints for an active quiz, but I have generated a fresh question for you in Chapter 6.",
			Action: ActionNewQuiz,
		},
	},
	{
		Keywords: []string{"hello", "hi"},
		Reply:    Reply{Text: "Hello. How can I assist you with your subnetting training?"},
	},
}

// Respond returns the reply of the first rule matching message.
func Respond(message string) Reply {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return Reply{Text: fallback}
	}
	for _, r := range Rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return r.Reply
			}
		}
	}
	return Reply{Text: fallback}
}
