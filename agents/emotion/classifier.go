package emotion

import (
	"strings"
)

// Emotion labels produced by the classifier.
const (
	EmotionNeutral  = "neutral"
	EmotionJoy      = "joy"
	EmotionSurprise = "surprise"
	EmotionAnger    = "anger"
	EmotionSadness  = "sadness"
	EmotionFear     = "fear"
	EmotionDisgust  = "disgust"
	EmotionDistress = "distress"
)

var positiveEmotions = map[string]bool{
	EmotionJoy:      true,
	EmotionSurprise: true,
}

var negativeEmotions = map[string]bool{
	EmotionAnger:    true,
	EmotionSadness:  true,
	EmotionFear:     true,
	EmotionDisgust:  true,
	EmotionDistress: true,
}

// emotionLexicon maps emotions to indicative words and phrases.
var emotionLexicon = map[string][]string{
	EmotionJoy:      {"great", "love", "awesome", "excellent", "happy", "thank", "wonderful", "perfect", "amazing"},
	EmotionSurprise: {"wow", "unexpected", "surprised", "can't believe", "incredible"},
	EmotionAnger:    {"angry", "furious", "outraged", "ridiculous", "unacceptable", "fed up", "sick of", "worst", "terrible", "awful"},
	EmotionSadness:  {"sad", "disappointed", "unhappy", "let down", "unfortunate"},
	EmotionFear:     {"worried", "afraid", "scared", "concerned", "anxious", "nervous"},
	EmotionDisgust:  {"disgusting", "gross", "appalling", "shameful"},
	EmotionDistress: {"urgent", "desperate", "emergency", "immediately", "help me", "critical", "asap", "right now"},
}

// classificationSequence fixes iteration order for deterministic ties.
var classificationSequence = []string{
	EmotionAnger,
	EmotionDistress,
	EmotionSadness,
	EmotionFear,
	EmotionDisgust,
	EmotionJoy,
	EmotionSurprise,
}

// classifyEmotions returns a normalized emotion distribution for the text.
// Text matching no lexicon entry is fully neutral.
func classifyEmotions(text string) map[string]float64 {
	lower := strings.ToLower(text)

	hits := make(map[string]int)
	total := 0
	for _, emotion := range classificationSequence {
		for _, word := range emotionLexicon[emotion] {
			if strings.Contains(lower, word) {
				hits[emotion]++
				total++
			}
		}
	}

	dist := make(map[string]float64, len(hits)+1)
	if total == 0 {
		dist[EmotionNeutral] = 1.0
		return dist
	}
	for emotion, n := range hits {
		dist[emotion] = float64(n) / float64(total)
	}
	return dist
}

// dominantEmotion picks the highest-mass emotion, breaking ties in the fixed
// classification sequence.
func dominantEmotion(dist map[string]float64) string {
	if dist[EmotionNeutral] == 1.0 {
		return EmotionNeutral
	}
	best := EmotionNeutral
	bestMass := 0.0
	for _, emotion := range classificationSequence {
		if mass, ok := dist[emotion]; ok && mass > bestMass {
			best = emotion
			bestMass = mass
		}
	}
	return best
}

// sentimentFromEmotions converts the distribution into a single score in
// [-1, 1]: positive mass adds, negative mass subtracts, neutral contributes
// nothing.
func sentimentFromEmotions(dist map[string]float64) float64 {
	score := 0.0
	for emotion, mass := range dist {
		switch {
		case positiveEmotions[emotion]:
			score += mass
		case negativeEmotions[emotion]:
			score -= mass
		}
	}
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
