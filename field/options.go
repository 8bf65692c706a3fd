package field

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueType is the type of the value of an option.
type ValueType int

const (
	TypeString ValueType = iota
	TypeBool
	TypeNumber
	TypeList
)

func (v ValueType) String() string {
	switch v {
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeList:
		return "list"
	}
	return "string"
}

// OptionSpec describes an option accepted by a field kind.
type OptionSpec struct {
	Key     string
	Type    ValueType
	Default string
	Enum    []string
	Alias   string
	Doc     string
}

var commonOptions = []OptionSpec{
	{Key: "question", Type: TypeString, Doc: "text of the label or legend, inline markdown allowed"},
	{Key: "description", Type: TypeString, Doc: "help text shown below the question"},
	{Key: "fieldsize", Type: TypeString, Enum: []string{"default", "sm"}, Doc: "size of the control"},
	{Key: "labelstyle", Type: TypeString, Enum: []string{"classic", "bold"}, Doc: "style of the question"},
	{Key: "subfield", Type: TypeBool, Doc: "render the field as a continuation of the previous one"},
	{Key: "disabled", Type: TypeBool},
	{Key: "autofocus", Type: TypeBool},
	{Key: "id", Type: TypeString, Doc: "id of the wrapper element"},
}

var textOptions = []OptionSpec{
	{Key: "placeholder", Type: TypeString},
	{Key: "value", Type: TypeString, Doc: "initial value"},
	{Key: "maxlength", Type: TypeNumber},
}

var dateOptions = []OptionSpec{
	{Key: "value", Type: TypeString},
	{Key: "min", Type: TypeString},
	{Key: "max", Type: TypeString},
	{Key: "step", Type: TypeNumber},
}

var kindOptions = map[Kind][]OptionSpec{
	KindText: append(append([]OptionSpec{}, textOptions...),
		OptionSpec{Key: "multiline", Type: TypeBool, Doc: "render a textarea"},
	),
	KindEmail:    textOptions,
	KindURL:      textOptions,
	KindPassword: textOptions,
	KindTel: append(append([]OptionSpec{}, textOptions...),
		OptionSpec{Key: "country", Type: TypeString, Doc: "ISO code of the initial country, US or the first available one by default"},
		OptionSpec{Key: "availablecountries", Type: TypeList, Doc: "ISO codes offered, all when empty"},
	),
	KindNumber: {
		{Key: "placeholder", Type: TypeString},
		{Key: "value", Type: TypeNumber},
		{Key: "min", Type: TypeNumber},
		{Key: "max", Type: TypeNumber},
		{Key: "step", Type: TypeNumber},
		{Key: "unitstart", Type: TypeString, Doc: "unit shown before the control"},
		{Key: "unitend", Type: TypeString, Doc: "unit shown after the control"},
	},
	KindSelect: {
		{Key: "placeholder", Type: TypeString},
		{Key: "options", Type: TypeList},
		{Key: "choices", Type: TypeList, Alias: "options"},
		{Key: "selected", Type: TypeString},
	},
	KindChoice: {
		{Key: "choices", Type: TypeList},
		{Key: "options", Type: TypeList, Alias: "choices"},
		{Key: "checked", Type: TypeList, Doc: "labels checked initially"},
		{Key: "multiple", Type: TypeBool},
		{Key: "horizontal", Type: TypeBool},
		{Key: "hideformtext", Type: TypeBool},
	},
	KindPictureChoice: {
		{Key: "choices", Type: TypeList, Doc: "items like: label && image URL"},
		{Key: "options", Type: TypeList, Alias: "choices"},
		{Key: "checked", Type: TypeList},
		{Key: "multiple", Type: TypeBool},
		{Key: "supersize", Type: TypeBool},
		{Key: "hidelabels", Type: TypeBool},
		{Key: "hideformtext", Type: TypeBool},
	},
	KindRating: {
		{Key: "outof", Type: TypeNumber, Default: "5"},
		{Key: "icon", Type: TypeString, Default: "star", Enum: []string{"star", "heart"}},
		{Key: "value", Type: TypeNumber},
		{Key: "hideformtext", Type: TypeBool},
	},
	KindOpinionScale: {
		{Key: "startat", Type: TypeNumber, Default: "0"},
		{Key: "outof", Type: TypeNumber, Default: "10"},
		{Key: "labelstart", Type: TypeString},
		{Key: "labelend", Type: TypeString},
		{Key: "hidelabelstart", Type: TypeBool},
		{Key: "hidelabelend", Type: TypeBool},
		{Key: "value", Type: TypeNumber},
		{Key: "hideformtext", Type: TypeBool},
	},
	KindDatetime: dateOptions,
	KindDate:     dateOptions,
	KindTime:     dateOptions,
	KindFile: {
		{Key: "sizelimit", Type: TypeNumber, Default: "10", Doc: "maximum size in MB"},
		{Key: "imageonly", Type: TypeBool},
		{Key: "currentfile", Type: TypeString, Doc: "name of a file already uploaded"},
	},
}

// OptionTable returns the options accepted by each kind, including the
// common ones. The result is a copy.
func OptionTable() map[Kind][]OptionSpec {
	t := make(map[Kind][]OptionSpec, len(kindOptions))
	for k := range kindOptions {
		t[k] = optionsFor(k)
	}
	return t
}

func optionsFor(k Kind) []OptionSpec {
	var specs []OptionSpec
	for _, s := range append(append([]OptionSpec{}, commonOptions...), kindOptions[k]...) {
		s.Enum = append([]string(nil), s.Enum...)
		specs = append(specs, s)
	}
	return specs
}

func lookupOption(k Kind, key string) (OptionSpec, bool) {
	for _, s := range commonOptions {
		if s.Key == key {
			return s, true
		}
	}
	for _, s := range kindOptions[k] {
		if s.Key == key {
			return s, true
		}
	}
	return OptionSpec{}, false
}

// Common holds the options shared by every kind.
type Common struct {
	Question    string
	Description string
	FieldSize   string
	LabelStyle  string
	Subfield    bool
	Disabled    bool
	Autofocus   bool
	ID          string
}

// Options is the set of kind specific options. The concrete type depends
// on the kind of the field.
type Options interface {
	isOptions()
}

// Choice is an item of a select box or a choice field.
type Choice struct {
	Label   string
	Value   string
	Image   string
	Checked bool
}

// TextOptions are used by TextInput, EmailInput, URLInput and PasswordInput.
type TextOptions struct {
	Placeholder string
	Value       string
	MaxLength   int
	Multiline   bool
}

type TelOptions struct {
	Placeholder        string
	Value              string
	MaxLength          int
	Country            string
	AvailableCountries []string
}

// NumberOptions keep the numbers as written, once validated.
type NumberOptions struct {
	Placeholder string
	Value       string
	Min         string
	Max         string
	Step        string
	UnitStart   string
	UnitEnd     string
}

type SelectOptions struct {
	Placeholder string
	Choices     []Choice
}

type ChoiceOptions struct {
	Choices      []Choice
	Multiple     bool
	Horizontal   bool
	HideFormText bool
}

type PictureChoiceOptions struct {
	Choices      []Choice
	Multiple     bool
	Supersize    bool
	HideLabels   bool
	HideFormText bool
}

type RatingOptions struct {
	OutOf        int
	Icon         string
	Value        int
	HideFormText bool
}

type OpinionScaleOptions struct {
	StartAt        int
	OutOf          int
	LabelStart     string
	LabelEnd       string
	HideLabelStart bool
	HideLabelEnd   bool
	Value          string
	HideFormText   bool
}

// DatetimeOptions are used by DatetimeInput, DateInput and TimeInput.
type DatetimeOptions struct {
	Value string
	Min   string
	Max   string
	Step  string
}

type FileOptions struct {
	SizeLimit   float64
	ImageOnly   bool
	CurrentFile string
}

func (TextOptions) isOptions()          {}
func (TelOptions) isOptions()           {}
func (NumberOptions) isOptions()        {}
func (SelectOptions) isOptions()        {}
func (ChoiceOptions) isOptions()        {}
func (PictureChoiceOptions) isOptions() {}
func (RatingOptions) isOptions()        {}
func (OpinionScaleOptions) isOptions()  {}
func (DatetimeOptions) isOptions()      {}
func (FileOptions) isOptions()          {}

// params are the validated parameters of a declaration, by option key
type params map[string]param

func (p params) has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p params) str(key string) string {
	return p[key].value
}

func (p params) flag(key string) bool {
	prm, ok := p[key]
	if !ok {
		return false
	}
	if prm.bare {
		return true
	}
	on, _ := parseBool(prm.value)
	return on
}

func (p params) number(key string) float64 {
	f, _ := strconv.ParseFloat(p[key].value, 64)
	return f
}

func (p params) list(key string) []string {
	var out []string
	for _, item := range strings.Split(p[key].value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "true", "yes", "on":
		return true, true
	case "false", "no", "off":
		return false, true
	}
	return false, false
}

// validate checks the parameters against the schema of the kind and
// fills in the defaults.
func validate(k Kind, raw []param) (params, error) {
	p := params{}
	for _, prm := range raw {
		spec, ok := lookupOption(k, prm.key)
		if !ok {
			return nil, prm.errorf("unknown option %q for %s (accepted: %s)", prm.key, k, strings.Join(acceptedKeys(k), ", "))
		}
		if spec.Alias != "" {
			prm.key = spec.Alias
		}

		switch spec.Type {
		case TypeBool:
			if _, ok := parseBool(prm.value); !ok && !prm.bare {
				return nil, prm.errorf("invalid value %q for option %q: expected true or false", prm.value, prm.key)
			}
		case TypeNumber:
			if prm.bare {
				return nil, prm.errorf("option %q needs a number", prm.key)
			}
			if _, err := strconv.ParseFloat(prm.value, 64); err != nil {
				return nil, prm.errorf("invalid number %q for option %q", prm.value, prm.key)
			}
		default:
			if prm.bare {
				return nil, prm.errorf("option %q needs a value", prm.key)
			}
		}

		if len(spec.Enum) > 0 {
			v := strings.ToLower(prm.value)
			if !contains(spec.Enum, v) {
				return nil, prm.errorf("invalid value %q for option %q: expected one of %s", prm.value, prm.key, strings.Join(spec.Enum, ", "))
			}
			prm.value = v
		}

		// A repeated option overrides the previous one
		p[prm.key] = prm
	}

	for _, spec := range kindOptions[k] {
		if spec.Default != "" && !p.has(spec.Key) {
			p[spec.Key] = param{key: spec.Key, value: spec.Default}
		}
	}
	return p, nil
}

func acceptedKeys(k Kind) []string {
	var keys []string
	for _, s := range optionsFor(k) {
		keys = append(keys, s.Key)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func buildCommon(p params) Common {
	return Common{
		Question:    p.str("question"),
		Description: p.str("description"),
		FieldSize:   p.str("fieldsize"),
		LabelStyle:  p.str("labelstyle"),
		Subfield:    p.flag("subfield"),
		Disabled:    p.flag("disabled"),
		Autofocus:   p.flag("autofocus"),
		ID:          p.str("id"),
	}
}

// buildOptions converts the validated parameters to the typed options of the kind
func buildOptions(k Kind, p params) (Options, error) {
	switch k {
	case KindText, KindEmail, KindURL, KindPassword:
		return TextOptions{
			Placeholder: p.str("placeholder"),
			Value:       p.str("value"),
			MaxLength:   int(p.number("maxlength")),
			Multiline:   p.flag("multiline"),
		}, nil

	case KindTel:
		return TelOptions{
			Placeholder:        p.str("placeholder"),
			Value:              p.str("value"),
			MaxLength:          int(p.number("maxlength")),
			Country:            strings.ToUpper(p.str("country")),
			AvailableCountries: p.list("availablecountries"),
		}, nil

	case KindNumber:
		o := NumberOptions{
			Placeholder: p.str("placeholder"),
			Value:       p.str("value"),
			Min:         p.str("min"),
			Max:         p.str("max"),
			Step:        p.str("step"),
			UnitStart:   p.str("unitstart"),
			UnitEnd:     p.str("unitend"),
		}
		if p.has("min") && p.has("max") && p.number("min") > p.number("max") {
			return nil, p["max"].errorf("max %s is lower than min %s", o.Max, o.Min)
		}
		return o, nil

	case KindSelect:
		choices := buildChoices(p.list("options"), false)
		markChecked(choices, []string{p.str("selected")}, false)
		return SelectOptions{Placeholder: p.str("placeholder"), Choices: choices}, nil

	case KindChoice:
		o := ChoiceOptions{
			Choices:      buildChoices(p.list("choices"), false),
			Multiple:     p.flag("multiple"),
			Horizontal:   p.flag("horizontal"),
			HideFormText: p.flag("hideformtext"),
		}
		markChecked(o.Choices, p.list("checked"), o.Multiple)
		return o, nil

	case KindPictureChoice:
		o := PictureChoiceOptions{
			Choices:      buildChoices(p.list("choices"), true),
			Multiple:     p.flag("multiple"),
			Supersize:    p.flag("supersize"),
			HideLabels:   p.flag("hidelabels"),
			HideFormText: p.flag("hideformtext"),
		}
		markChecked(o.Choices, p.list("checked"), o.Multiple)
		return o, nil

	case KindRating:
		o := RatingOptions{
			OutOf:        int(p.number("outof")),
			Icon:         p.str("icon"),
			Value:        int(p.number("value")),
			HideFormText: p.flag("hideformtext"),
		}
		if o.OutOf < 1 || o.OutOf > 10 {
			return nil, p["outof"].errorf("outof must be between 1 and 10, got %d", o.OutOf)
		}
		if o.Value < 0 || o.Value > o.OutOf {
			return nil, p["value"].errorf("value %d is out of range 1-%d", o.Value, o.OutOf)
		}
		return o, nil

	case KindOpinionScale:
		o := OpinionScaleOptions{
			StartAt:        int(p.number("startat")),
			OutOf:          int(p.number("outof")),
			LabelStart:     p.str("labelstart"),
			LabelEnd:       p.str("labelend"),
			HideLabelStart: p.flag("hidelabelstart"),
			HideLabelEnd:   p.flag("hidelabelend"),
			Value:          p.str("value"),
			HideFormText:   p.flag("hideformtext"),
		}
		if o.StartAt != 0 && o.StartAt != 1 {
			return nil, p["startat"].errorf("startat must be 0 or 1, got %d", o.StartAt)
		}
		if o.OutOf < 5 || o.OutOf > 10 {
			return nil, p["outof"].errorf("outof must be between 5 and 10, got %d", o.OutOf)
		}
		if p.has("value") {
			v := int(p.number("value"))
			if v < o.StartAt || v > o.OutOf {
				return nil, p["value"].errorf("value %d is out of range %d-%d", v, o.StartAt, o.OutOf)
			}
		}
		return o, nil

	case KindDatetime, KindDate, KindTime:
		return DatetimeOptions{
			Value: p.str("value"),
			Min:   p.str("min"),
			Max:   p.str("max"),
			Step:  p.str("step"),
		}, nil

	case KindFile:
		o := FileOptions{
			SizeLimit:   p.number("sizelimit"),
			ImageOnly:   p.flag("imageonly"),
			CurrentFile: p.str("currentfile"),
		}
		if o.SizeLimit <= 0 {
			return nil, p["sizelimit"].errorf("sizelimit must be positive")
		}
		return o, nil
	}

	return nil, fmt.Errorf("unsupported field kind %v", k)
}

// buildChoices creates the choices from the list items. Picture items
// have the form "label && image URL".
func buildChoices(items []string, pictures bool) []Choice {
	choices := make([]Choice, 0, len(items))
	for _, item := range items {
		c := Choice{Label: item}
		if pictures {
			if label, img, found := strings.Cut(item, "&&"); found {
				c.Label = strings.TrimSpace(label)
				c.Image = strings.TrimSpace(img)
			}
		}
		c.Value = c.Label
		choices = append(choices, c)
	}
	return choices
}

// markChecked checks the choices whose label is in labels, ignoring case.
// Only the first match is checked when multiple is false.
func markChecked(choices []Choice, labels []string, multiple bool) {
	want := map[string]bool{}
	for _, l := range labels {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			want[l] = true
		}
	}
	for i := range choices {
		if want[strings.ToLower(choices[i].Label)] {
			choices[i].Checked = true
			if !multiple {
				return
			}
		}
	}
}
