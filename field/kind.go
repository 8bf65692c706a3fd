package field

import "strings"

// Kind is the type of a form field.
type Kind int

const (
	KindText Kind = iota + 1
	KindEmail
	KindURL
	KindPassword
	KindTel
	KindNumber
	KindSelect
	KindChoice
	KindPictureChoice
	KindRating
	KindOpinionScale
	KindDatetime
	KindDate
	KindTime
	KindFile
)

var kindNames = map[Kind]string{
	KindText:          "TextInput",
	KindEmail:         "EmailInput",
	KindURL:           "URLInput",
	KindPassword:      "PasswordInput",
	KindTel:           "TelInput",
	KindNumber:        "NumberInput",
	KindSelect:        "SelectBox",
	KindChoice:        "ChoiceInput",
	KindPictureChoice: "PictureChoice",
	KindRating:        "RatingInput",
	KindOpinionScale:  "OpinionScale",
	KindDatetime:      "DatetimeInput",
	KindDate:          "DateInput",
	KindTime:          "TimeInput",
	KindFile:          "FileInput",
}

var kindSlugs = map[Kind]string{
	KindText:          "text-input",
	KindEmail:         "email-input",
	KindURL:           "url-input",
	KindPassword:      "password-input",
	KindTel:           "tel-input",
	KindNumber:        "number-input",
	KindSelect:        "select-box",
	KindChoice:        "choice-input",
	KindPictureChoice: "picture-choice",
	KindRating:        "rating-input",
	KindOpinionScale:  "opinion-scale",
	KindDatetime:      "datetime-input",
	KindDate:          "date-input",
	KindTime:          "time-input",
	KindFile:          "file-input",
}

// Kinds returns all the kinds in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := KindText; k <= KindFile; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

var kindsByKeyword = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[normalizeWord(name)] = k
	}
	return m
}()

// LookupKind finds the kind of a type keyword, ignoring case, '-' and '_'.
func LookupKind(keyword string) (Kind, bool) {
	k, ok := kindsByKeyword[normalizeWord(keyword)]
	return k, ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Slug is the kebab-case name used in class names and data attributes.
func (k Kind) Slug() string {
	return kindSlugs[k]
}

// IsGroup reports whether the field is a group of controls, rendered as a
// fieldset with a legend instead of a single labelled control.
func (k Kind) IsGroup() bool {
	switch k {
	case KindChoice, KindPictureChoice, KindRating, KindOpinionScale:
		return true
	}
	return false
}

// normalizeWord lowercases s and removes '-' and '_'
func normalizeWord(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return -1
		}
		return r
	}, s)
}
