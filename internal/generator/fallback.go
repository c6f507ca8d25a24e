package generator

import "strings"

// generalSubject keys the set used when a subject has none of its own.
const generalSubject = "general"

type cannedAnswer struct {
	keywords []string
	text     string
}

// offlineAnswers are served when the model stays over capacity. Entries
// with keywords are chosen by topic; the rest only by the random pick.
var offlineAnswers = map[string][]cannedAnswer{
	"coding": {
		{[]string{"variable"}, "A variable is a named place to store a value so your program can use it later. In Python you create one by assignment, for example `age = 25`, and you can change what it stores at any time by assigning again."},
		{[]string{"function", "def "}, "A function is a reusable block of code that runs when you call it. You define it once with a name and parameters, for example `def add(a, b): return a + b`, and then call `add(2, 3)` wherever you need the result."},
		{[]string{"loop", "for ", "while"}, "A loop repeats a block of code. A `for` loop walks over every item in a sequence, such as `for n in range(5): print(n)`, while a `while` loop keeps running as long as its condition stays true."},
		{nil, "Good code is built in small steps: write a few lines, run them, check the output, then extend. Reading error messages carefully usually points straight at the line that needs fixing."},
	},
	"math": {
		{[]string{"derivative", "differentiat"}, "A derivative measures how fast a function changes. For a power of x, bring the exponent down and reduce it by one: the derivative of x^3 is 3x^2."},
		{[]string{"equation", "solve"}, "To solve an equation, do the same operation to both sides until the unknown stands alone. For 2x + 3 = 11, subtract 3 to get 2x = 8, then divide by 2 to get x = 4."},
		{[]string{"fraction"}, "To add fractions, first give them a common denominator. For 1/2 + 1/3, rewrite them as 3/6 + 2/6, which gives 5/6."},
		{nil, "Most math problems become easier when you write down what you know, what you need to find and which rule connects them before calculating anything."},
	},
	"ielts": {
		{[]string{"essay", "writing"}, "A strong IELTS essay has a clear introduction that answers the question, two or three body paragraphs that each develop one idea with an example, and a short conclusion that restates your position."},
		{[]string{"vocabulary", "word"}, "To build vocabulary for IELTS, learn words in topic groups such as environment or technology, and practise using each new word in a sentence of your own."},
		{[]string{"speaking", "speak"}, "In the IELTS speaking test, extend your answers: give your opinion, explain the reason, and add a short personal example."},
		{nil, "Regular timed practice with past IELTS papers is the most reliable way to learn the format and manage your time on test day."},
	},
	"physics": {
		{[]string{"force", "newton"}, "Newton's second law says force equals mass times acceleration, F = m * a. Pushing a 2 kg cart so it accelerates at 3 m/s^2 takes a force of 6 newtons."},
		{[]string{"energy", "kinetic"}, "Kinetic energy is the energy of motion, KE = 1/2 * m * v^2. Doubling the speed of an object makes its kinetic energy four times larger."},
		{[]string{"velocity", "speed"}, "Velocity is speed in a given direction. Average velocity equals displacement divided by time, so moving 100 m north in 20 s is 5 m/s north."},
		{nil, "In physics problems, list the known quantities with their units, pick the formula that links them to the unknown, and check that the units of your answer make sense."},
	},
	generalSubject: {
		{nil, "Break the topic into small parts, learn one part at a time, and test yourself with a quick example after each one. Ask me again in a moment and I will go into more detail."},
		{nil, "A good way to learn anything is to explain it in your own words. Try writing a short summary of what you already know, and we can build on it together."},
	},
}

// fallback selects an offline answer: a topic match in the subject's set,
// else a pseudo-random answer from that set, else from the general set.
func (g *Generator) fallback(subject, query string) string {
	set, ok := offlineAnswers[strings.ToLower(strings.TrimSpace(subject))]
	if !ok || len(set) == 0 {
		set = offlineAnswers[generalSubject]
	}

	lowered := strings.ToLower(query)
	for _, a := range set {
		for _, kw := range a.keywords {
			if strings.Contains(lowered, kw) {
				return a.text
			}
		}
	}
	return set[g.pick(len(set))].text
}
