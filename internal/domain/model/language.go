package model

// Judge0 language IDs for the supported submission languages.
var judgeLanguageIDs = map[string]int{
	"javascript": 63,
	"python":     71,
	"cpp":        54,
	"java":       62,
}

// JudgeLanguageID resolves a submission language to its Judge0 language ID.
func JudgeLanguageID(language string) (int, bool) {
	id, ok := judgeLanguageIDs[language]
	return id, ok
}

// IsSupportedLanguage reports whether submissions in the given language are
// accepted at intake.
func IsSupportedLanguage(language string) bool {
	_, ok := judgeLanguageIDs[language]
	return ok
}

// SupportedLanguages returns the accepted language identifiers.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(judgeLanguageIDs))
	for l := range judgeLanguageIDs {
		langs = append(langs, l)
	}
	return langs
}
