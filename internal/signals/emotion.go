package signals

import "strings"

// Emotion is the learner's detected emotional state.
type Emotion string

const (
	Frustrated     Emotion = "frustrated"
	Confident      Emotion = "confident"
	Curious        Emotion = "curious"
	RequestingHelp Emotion = "requesting_help"
	Positive       Emotion = "positive"
	Neutral        Emotion = "neutral"
)

// EmotionConfidenceThreshold is the confidence from which the emotion
// steers the reply tone. Empirically chosen.
const EmotionConfidenceThreshold = 0.3

// neutralConfidence is reported when nothing fires.
const neutralConfidence = 0.5

// emotionKeywords is ordered: earlier categories win ties.
var emotionKeywords = []struct {
	emotion  Emotion
	keywords []string
}{
	{Frustrated, []string{
		"dont understand", "don't understand", "confused", "stuck", "help",
		"difficult", "hard", "cant", "can't", "not working", "error",
		"samajh nahi aya", "mushkil", "masla", "nahi samajh",
	}},
	{Confident, []string{
		"easy", "got it", "understand", "clear", "makes sense",
		"challenge", "more", "advanced", "next level",
		"samajh gaya", "samajh gayi", "theek hai", "achha",
	}},
	{Curious, []string{
		"how", "why", "what", "when", "where", "which",
		"explain", "tell me", "show me", "kaise", "kya", "kyun",
	}},
	{RequestingHelp, []string{
		"please", "help", "need", "can you", "could you",
		"madad", "help karo", "please btao",
	}},
	{Positive, []string{
		"thank", "thanks", "great", "awesome", "perfect", "excellent",
		"shukriya", "bahut achha", "zabardast",
	}},
}

// errorVocabulary adds to frustration when present.
var errorVocabulary = []string{"error", "bug", "wrong", "issue", "problem"}

// Tone is how the reply should be pitched for an emotion.
type Tone struct {
	Tone     string
	Style    string
	Prefix   string
	Emphasis string
}

var tones = map[Emotion]Tone{
	Frustrated: {
		Tone:     "supportive and encouraging",
		Style:    "Break down concepts into simpler steps. Use more examples. Be patient and reassuring.",
		Prefix:   "I understand this can be challenging. Let me explain it step-by-step in a simpler way.",
		Emphasis: "Focus on clarity over completeness. Use analogies and simple examples.",
	},
	Confident: {
		Tone:     "challenging and advanced",
		Style:    "Provide more advanced concepts. Add edge cases. Suggest best practices.",
		Prefix:   "Great! Since you understand the basics, let me show you some advanced concepts.",
		Emphasis: "Include advanced techniques, optimization tips, and real-world scenarios.",
	},
	Curious: {
		Tone:     "informative and exploratory",
		Style:    "Provide comprehensive explanations. Include related concepts. Encourage exploration.",
		Prefix:   "That's a great question! Let me explain this in detail.",
		Emphasis: "Provide context, related concepts, and encourage further questions.",
	},
	RequestingHelp: {
		Tone:     "helpful and patient",
		Style:    "Direct assistance. Clear instructions. Step-by-step guidance.",
		Prefix:   "I'm here to help! Here's what you need to know:",
		Emphasis: "Be direct, clear, and actionable. Focus on solving the immediate problem.",
	},
	Positive: {
		Tone:     "encouraging and motivating",
		Style:    "Reinforce learning. Suggest next steps. Build confidence.",
		Prefix:   "Wonderful! You're making great progress. Let me help you with that.",
		Emphasis: "Celebrate progress, suggest next challenges, maintain momentum.",
	},
	Neutral: {
		Tone:     "balanced and educational",
		Style:    "Standard educational approach. Clear and comprehensive.",
		Emphasis: "Provide balanced, educational content with examples.",
	},
}

// ToneFor returns the tone adjustments for e, neutral for unknown values.
func ToneFor(e Emotion) Tone {
	if t, ok := tones[e]; ok {
		return t
	}
	return tones[Neutral]
}

// DetectEmotion scores each category by keyword hits in the lowercased
// text, adds one to curious for a question mark and one to frustrated for
// error vocabulary, and returns the arg-max with its share of the total.
// When nothing fires the result is (Neutral, 0.5).
func DetectEmotion(text string) (Emotion, float64) {
	lowered := strings.ToLower(text)

	scores := make([]float64, len(emotionKeywords))
	for i, cat := range emotionKeywords {
		for _, kw := range cat.keywords {
			if strings.Contains(lowered, kw) {
				scores[i]++
			}
		}
		switch cat.emotion {
		case Curious:
			if strings.Contains(text, "?") {
				scores[i]++
			}
		case Frustrated:
			if containsAny(lowered, errorVocabulary) {
				scores[i]++
			}
		}
	}

	best, total := 0, 0.0
	for i, s := range scores {
		total += s
		if s > scores[best] {
			best = i
		}
	}
	if total == 0 {
		return Neutral, neutralConfidence
	}
	return emotionKeywords[best].emotion, scores[best] / total
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
