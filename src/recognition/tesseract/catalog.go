package tesseract

import "onscreen-translator/src/recognition"

// Codes are ISO 639-1 style tags, inner codes are tessdata file names.
var catalog = []recognition.Entry{
	{Code: "ar", Name: "Arabic", InnerCode: "ara"},
	{Code: "bg", Name: "Bulgarian", InnerCode: "bul"},
	{Code: "zh-Hans", Name: "Chinese (Simplified)", InnerCode: "chi_sim"},
	{Code: "zh-Hant", Name: "Chinese (Traditional)", InnerCode: "chi_tra"},
	{Code: "cs", Name: "Czech", InnerCode: "ces"},
	{Code: "da", Name: "Danish", InnerCode: "dan"},
	{Code: "nl", Name: "Dutch", InnerCode: "nld"},
	{Code: "en", Name: "English", InnerCode: "eng"},
	{Code: "fi", Name: "Finnish", InnerCode: "fin"},
	{Code: "fr", Name: "French", InnerCode: "fra"},
	{Code: "de", Name: "German", InnerCode: "deu"},
	{Code: "el", Name: "Greek", InnerCode: "ell"},
	{Code: "he", Name: "Hebrew", InnerCode: "heb"},
	{Code: "hi", Name: "Hindi", InnerCode: "hin"},
	{Code: "hu", Name: "Hungarian", InnerCode: "hun"},
	{Code: "id", Name: "Indonesian", InnerCode: "ind"},
	{Code: "it", Name: "Italian", InnerCode: "ita"},
	{Code: "ja", Name: "Japanese", InnerCode: "jpn"},
	{Code: "ko", Name: "Korean", InnerCode: "kor"},
	{Code: "no", Name: "Norwegian", InnerCode: "nor"},
	{Code: "fa", Name: "Persian", InnerCode: "fas"},
	{Code: "pl", Name: "Polish", InnerCode: "pol"},
	{Code: "pt", Name: "Portuguese", InnerCode: "por"},
	{Code: "ro", Name: "Romanian", InnerCode: "ron"},
	{Code: "ru", Name: "Russian", InnerCode: "rus"},
	{Code: "es", Name: "Spanish", InnerCode: "spa"},
	{Code: "sv", Name: "Swedish", InnerCode: "swe"},
	{Code: "th", Name: "Thai", InnerCode: "tha"},
	{Code: "tr", Name: "Turkish", InnerCode: "tur"},
	{Code: "uk", Name: "Ukrainian", InnerCode: "ukr"},
	{Code: "vi", Name: "Vietnamese", InnerCode: "vie"},
}

func innerCode(code string) (string, bool) {
	for _, e := range catalog {
		if e.Code == code {
			return e.InnerCode, true
		}
	}
	return "", false
}
