package signals

// Profile is everything derived from one learner message. Recomputed per
// call, never persisted.
type Profile struct {
	Language   Language
	Emotion    Emotion
	Confidence float64
	Style      Style
}

// Detect builds the profile of text. explicitLanguage may be empty or
// "auto" to detect the reply language.
func Detect(text, explicitLanguage string) Profile {
	emotion, confidence := DetectEmotion(text)
	return Profile{
		Language:   ResolveLanguage(explicitLanguage, text),
		Emotion:    emotion,
		Confidence: confidence,
		Style:      DetectStyle(text),
	}
}

// SteersTone reports whether the emotion is confident enough to shape
// the reply.
func (p Profile) SteersTone() bool {
	return p.Confidence >= EmotionConfidenceThreshold
}
