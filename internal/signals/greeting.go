package signals

// greetingMaxWords bounds what can count as a greeting-only message.
const greetingMaxWords = 2

var greetingWords = map[string]bool{
	"hi": true, "hey": true, "hello": true, "salam": true, "salaam": true,
	"asl": true, "assalam": true, "asalam": true, "yo": true,
	"ok": true, "okay": true, "thanks": true, "thx": true,
}

// informalGreetings mark a greeting in the informal register.
var informalGreetings = map[string]bool{
	"salam": true, "salaam": true, "asl": true, "assalam": true, "asalam": true,
}

// Greeting reports whether text is only a greeting of at most two words,
// and whether that greeting uses the informal register.
func Greeting(text string) (isGreeting, informal bool) {
	words := Words(text)
	if len(words) == 0 || len(words) > greetingMaxWords {
		return false, false
	}
	for _, w := range words {
		if !greetingWords[w] {
			return false, false
		}
		if informalGreetings[w] {
			informal = true
		}
	}
	return true, informal
}
