package llmvision

import "onscreen-translator/src/recognition"

const basePrompt = `Extract all text visible in this image exactly as written.
Separate distinct text blocks with one blank line. Keep line breaks inside a block.
Do not translate, explain or add formatting. If there is no text, reply NO_TEXT_FOUND.`

func promptFor(script recognition.Script) string {
	switch script {
	case recognition.Chinese:
		return basePrompt + "\nThe text is mostly Chinese. Preserve simplified or traditional characters as they appear."
	case recognition.Japanese:
		return basePrompt + "\nThe text is mostly Japanese. Keep kanji, hiragana and katakana as they appear, including vertical text read top to bottom."
	case recognition.Korean:
		return basePrompt + "\nThe text is mostly Korean Hangul."
	case recognition.Devanagari:
		return basePrompt + "\nThe text is written in Devanagari script."
	default:
		return basePrompt
	}
}

var catalog = []recognition.Entry{
	{Code: "af", Name: "Afrikaans"},
	{Code: "sq", Name: "Albanian"},
	{Code: "ca", Name: "Catalan"},
	{Code: "zh-Hans", Name: "Chinese (Simplified)"},
	{Code: "zh-Hant", Name: "Chinese (Traditional)"},
	{Code: "hr", Name: "Croatian"},
	{Code: "cs", Name: "Czech"},
	{Code: "da", Name: "Danish"},
	{Code: "nl", Name: "Dutch"},
	{Code: "en", Name: "English"},
	{Code: "et", Name: "Estonian"},
	{Code: "fil", Name: "Filipino"},
	{Code: "fi", Name: "Finnish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "hi", Name: "Hindi"},
	{Code: "hu", Name: "Hungarian"},
	{Code: "is", Name: "Icelandic"},
	{Code: "id", Name: "Indonesian"},
	{Code: "it", Name: "Italian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "lv", Name: "Latvian"},
	{Code: "lt", Name: "Lithuanian"},
	{Code: "ms", Name: "Malay"},
	{Code: "mr", Name: "Marathi"},
	{Code: "ne", Name: "Nepali"},
	{Code: "no", Name: "Norwegian"},
	{Code: "pl", Name: "Polish"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ro", Name: "Romanian"},
	{Code: "sa", Name: "Sanskrit"},
	{Code: "sr-Latn", Name: "Serbian"},
	{Code: "sk", Name: "Slovak"},
	{Code: "sl", Name: "Slovenian"},
	{Code: "es", Name: "Spanish"},
	{Code: "sv", Name: "Swedish"},
	{Code: "tr", Name: "Turkish"},
	{Code: "vi", Name: "Vietnamese"},
}
