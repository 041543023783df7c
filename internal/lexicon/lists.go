// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package lexicon

// Lists is the raw phrase material for a Set. All phrases are lowercase
// because matching runs against lowercased text.
type Lists struct {
	Buzzword             []string
	NegativeBuzzword     []string
	NotJust              []string
	Devlog               []string
	IrregularEllipsis    []string
	Backstory            []string
	NegativeBackstory    []string
	IncorrectPerspective []string
	BrokenEnglish        []string
	OverlyFormal         []string
}

// DefaultLists returns a fresh copy of the built-in phrase lists.
//
// Every negative phrase contains exactly one positive phrase of its pair so
// that subtracting the negative count cancels that single false positive.
func DefaultLists() Lists {
	return Lists{
		Buzzword:             clone(buzzwords),
		NegativeBuzzword:     clone(negativeBuzzwords),
		NotJust:              clone(notJust),
		Devlog:               clone(devlog),
		IrregularEllipsis:    clone(irregularEllipsis),
		Backstory:            clone(backstory),
		NegativeBackstory:    clone(negativeBackstory),
		IncorrectPerspective: clone(incorrectPerspective),
		BrokenEnglish:        clone(brokenEnglish),
		OverlyFormal:         clone(overlyFormal),
	}
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

var buzzwords = []string{
	"seamless",
	"leverag",
	"robust",
	"cutting-edge",
	"cutting edge",
	"state-of-the-art",
	"game-changer",
	"game changer",
	"game-changing",
	"revolutioniz",
	"revolutionary",
	"innovative",
	"empower",
	"elevate",
	"unlock",
	"unleash",
	"harness",
	"streamline",
	"comprehensive",
	"intuitive",
	"user-friendly",
	"delve",
	"deep dive",
	"tapestry",
	"testament to",
	"vibrant",
	"dynamic",
	"scalable",
	"sleek",
	"modern",
	"immersive",
	"next-level",
	"next-generation",
	"effortless",
	"enhance",
	"showcas",
	"ever-evolving",
	"landscape",
	"realm",
	"fast-paced",
	"boasts",
	"meticulous",
	"feature-rich",
	"blazing fast",
	"blazingly fast",
	"lightning-fast",
	"world-class",
	"top-notch",
	"at its core",
	"whether you're",
	"perfect for",
	"key features",
	"paving the way",
	"look no further",
	"take it to the next level",
}

var negativeBuzzwords = []string{
	"modern english",
	"modern history",
	"modern art",
	"dynamic programming",
	"dynamic array",
	"dynamically typed",
	"test harness",
	"landscape mode",
	"landscape orientation",
	"unlock the door",
	"unlocked the door",
	"not robust",
	"realm of the dead",
}

var notJust = []string{
	"it's not just",
	"it is not just",
	"isn't just",
	"is not just",
	"aren't just",
	"not just a ",
	"not just an ",
	"not just about",
	"more than just",
	"not merely",
	"not only",
}

var devlog = []string{
	"devlog #",
	"devlog:",
	"dev log #",
	"dev log:",
	"update #",
	"progress update",
	"entry #",
	"changelog:",
	"what's new:",
	"next steps:",
	"today's progress",
	"this update",
	"in this devlog",
	"since the last devlog",
}

var irregularEllipsis = []string{
	"…",
	"...",
}

var backstory = []string{
	"i built this for",
	"i made this for",
	"i've always wanted",
	"i have always wanted",
	"i was inspired",
	"inspired me to",
	"the idea came",
	"this project was born",
	"born out of",
	"frustrated with",
	"tired of",
	"my passion for",
	"passionate about",
	"as a student",
	"as a developer",
	"growing up",
	"ever since i was",
}

var negativeBackstory = []string{
	"not tired of",
	"never tired of",
	"as a developer, you",
	"as a student, you",
}

var incorrectPerspective = []string{
	" we ",
	" we're ",
	" we've ",
	" our ",
	" us ",
	" you ",
	" you'll ",
	" you're ",
	" your ",
}

var brokenEnglish = []string{
	" im ",
	" ive ",
	" idk",
	" dont ",
	" cant ",
	" wont ",
	" didnt ",
	" doesnt ",
	" isnt ",
	" u ",
	" ur ",
	"tbh",
	"lol",
	"lmao",
	"gonna",
	"wanna",
	"kinda",
	"sorta",
	" pls",
	" thx",
	" ngl",
	" rn ",
	"alot",
	"definately",
	"recieve",
	"seperate",
	"thier",
	"becuase",
	"untill",
	"i has ",
	"he don't",
	"she don't",
	"it don't",
}

var overlyFormal = []string{
	"(e.g.",
	"(i.e.",
	"(formerly",
	"role- ",
	"furthermore,",
	"moreover,",
	"additionally,",
}
