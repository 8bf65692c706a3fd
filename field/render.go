package field

import (
	"html"
	"strconv"
	"strings"

	"github.com/hesusruiz/formrite/attr"
	"github.com/hesusruiz/formrite/i18n"
	"github.com/hesusruiz/formrite/phone"
)

const defaultCountry = "US"

// RenderContext carries the document level information used to render fields.
type RenderContext struct {
	// Prefix is prepended to every class name and data attribute
	Prefix string

	Locale     string
	Translator i18n.Translator

	// Inline renders the inline markdown of questions and descriptions.
	// When nil the text is just escaped.
	Inline func(string) string

	// Document defaults for the fields that do not set them
	FieldSize  string
	LabelStyle string

	HidePlaceholders bool
}

func (rc RenderContext) text(key string) string {
	return i18n.Text(rc.Translator, rc.Locale, key)
}

func (rc RenderContext) inline(s string) string {
	if rc.Inline == nil {
		return html.EscapeString(s)
	}
	return rc.Inline(s)
}

// ByteRenderer accumulates the generated markup
type ByteRenderer struct {
	strings.Builder
}

func (b *ByteRenderer) Render(args ...string) {
	for _, a := range args {
		b.WriteString(a)
	}
}

func (b *ByteRenderer) Renderln(args ...string) {
	b.Render(args...)
	b.WriteByte('\n')
}

type fieldRenderer struct {
	f  *Field
	rc RenderContext
	br *ByteRenderer
}

// Render returns the markup of a field.
func Render(f *Field, rc RenderContext) string {
	r := &fieldRenderer{f: f, rc: rc, br: &ByteRenderer{}}
	if f.Kind.IsGroup() {
		r.renderGroup()
	} else {
		r.renderSingle()
	}
	return r.br.String()
}

// ErrorPlaceholder is rendered instead of a field that could not be parsed.
func ErrorPlaceholder(err error, prefix string) string {
	return `<div class="` + prefix + `compile-error" role="alert">` + html.EscapeString(err.Error()) + "</div>\n"
}

// class returns the prefixed class list
func (r *fieldRenderer) class(classes ...string) string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" {
			out = append(out, r.rc.Prefix+c)
		}
	}
	return ` class="` + html.EscapeString(strings.Join(out, " ")) + `"`
}

func (r *fieldRenderer) data(name, value string) string {
	return ` data-` + r.rc.Prefix + name + `="` + html.EscapeString(value) + `"`
}

func (r *fieldRenderer) id() string {
	return r.f.ControlID()
}

func (r *fieldRenderer) descriptionID() string {
	return r.id() + "-description"
}

// wrapper returns the attributes of the outer element
func (r *fieldRenderer) wrapper() string {
	f := r.f
	w := attr.Block{ID: f.Common.ID}
	w.AddClass("form-field")
	w.AddClass("form-field-" + f.Kind.Slug())

	size := f.Common.FieldSize
	if size == "" {
		size = r.rc.FieldSize
	}
	if size != "" && size != "default" {
		w.AddClass("field-size-" + size)
	}
	style := f.Common.LabelStyle
	if style == "" {
		style = r.rc.LabelStyle
	}
	if style != "" && style != "classic" {
		w.AddClass("label-style-" + style)
	}
	if f.Common.Subfield {
		w.AddClass("subfield")
	}
	if f.Required {
		w.AddClass("required")
	}

	w = w.Merge(f.Attrs)
	w.Set("data-"+r.rc.Prefix+"name", f.Name)
	w.Set("data-"+r.rc.Prefix+"type", f.Kind.Slug())
	w.Set("data-"+r.rc.Prefix+"required", strconv.FormatBool(f.Required))
	return w.Render(r.rc.Prefix)
}

func (r *fieldRenderer) question() string {
	q := r.f.Common.Question
	if q == "" {
		return html.EscapeString(r.f.Name)
	}
	return r.rc.inline(q)
}

func (r *fieldRenderer) requiredMarker() string {
	if !r.f.Required {
		return ""
	}
	return `<span` + r.class("required-marker") + ` aria-hidden="true">*</span>` +
		` <span` + r.class("visually-hidden") + `>` + html.EscapeString(r.rc.text("required")) + `</span>`
}

func (r *fieldRenderer) renderDescription() {
	if r.f.Common.Description == "" {
		return
	}
	r.br.Renderln(`<p`, r.class("form-description"), ` id="`, r.descriptionID(), `">`, r.rc.inline(r.f.Common.Description), `</p>`)
}

// controlAttrs returns the attributes shared by all the controls of the field
func (r *fieldRenderer) controlAttrs(withID bool) string {
	var sb strings.Builder
	sb.WriteString(` name="` + html.EscapeString(r.f.Name) + `"`)
	if withID {
		sb.WriteString(` id="` + html.EscapeString(r.id()) + `"`)
	}
	if r.f.Common.Description != "" {
		sb.WriteString(` aria-describedby="` + r.descriptionID() + `"`)
	}
	if r.f.Required {
		sb.WriteString(` required`)
	}
	if r.f.Common.Disabled {
		sb.WriteString(` disabled`)
	}
	if r.f.Common.Autofocus {
		sb.WriteString(` autofocus`)
	}
	return sb.String()
}

func (r *fieldRenderer) placeholder(p string) string {
	if p == "" || r.rc.HidePlaceholders {
		return ""
	}
	return ` placeholder="` + html.EscapeString(p) + `"`
}

func attrIf(name, value string) string {
	if value == "" {
		return ""
	}
	return ` ` + name + `="` + html.EscapeString(value) + `"`
}

func (r *fieldRenderer) formText(text string) {
	r.br.Renderln(`<div`, r.class("form-text"), `>`, html.EscapeString(text), `</div>`)
}

func (r *fieldRenderer) renderSingle() {
	br := r.br
	br.Renderln(`<div`, r.wrapper(), `>`)
	br.Renderln(`<label`, r.class("form-question"), ` for="`, html.EscapeString(r.id()), `">`, r.question(), r.requiredMarker(), `</label>`)
	r.renderDescription()

	switch o := r.f.Options.(type) {
	case TextOptions:
		r.renderText(o)
	case TelOptions:
		r.renderTel(o)
	case NumberOptions:
		r.renderNumber(o)
	case SelectOptions:
		r.renderSelect(o)
	case DatetimeOptions:
		r.renderDatetime(o)
	case FileOptions:
		r.renderFile(o)
	}

	br.Renderln(`</div>`)
}

func (r *fieldRenderer) renderText(o TextOptions) {
	maxLength := ""
	if o.MaxLength > 0 {
		maxLength = strconv.Itoa(o.MaxLength)
	}

	if o.Multiline {
		r.br.Renderln(`<textarea`, r.class("form-control"), r.controlAttrs(true), r.placeholder(o.Placeholder),
			attrIf("maxlength", maxLength), ` rows="3">`, html.EscapeString(o.Value), `</textarea>`)
		return
	}

	inputType := "text"
	switch r.f.Kind {
	case KindEmail:
		inputType = "email"
	case KindURL:
		inputType = "url"
	case KindPassword:
		inputType = "password"
	}
	r.br.Renderln(`<input type="`, inputType, `"`, r.class("form-control"), r.controlAttrs(true), r.placeholder(o.Placeholder),
		attrIf("value", o.Value), attrIf("maxlength", maxLength), `>`)
}

func (r *fieldRenderer) renderTel(o TelOptions) {
	br := r.br

	// The initial country is the first available one when not given
	country := o.Country
	if country == "" {
		country = defaultCountry
		if len(o.AvailableCountries) > 0 {
			country = strings.ToUpper(o.AvailableCountries[0])
		}
	}
	countries := phone.Options(country, o.AvailableCountries)

	placeholder := o.Placeholder
	br.Renderln(`<div`, r.class("tel-input-group"), `>`)
	br.Render(`<select`, r.class("form-control", "country-select"), ` name="`, html.EscapeString(r.f.Name), `_country" id="`, html.EscapeString(r.id()), `-country" aria-label="`, html.EscapeString(r.rc.text("country-code")), `"`)
	if r.f.Common.Disabled {
		br.Render(` disabled`)
	}
	br.Renderln(`>`)
	for _, c := range countries {
		selected := ""
		if c.Selected {
			selected = " selected"
			if placeholder == "" {
				placeholder = c.Placeholder
			}
		}
		br.Renderln(`<option value="`, c.ISOCode, `"`, r.data("placeholder", c.Placeholder), selected, `>`, c.ISOCode, ` `, c.CallingCode, `</option>`)
	}
	br.Renderln(`</select>`)

	maxLength := ""
	if o.MaxLength > 0 {
		maxLength = strconv.Itoa(o.MaxLength)
	}
	br.Renderln(`<input type="tel"`, r.class("form-control"), r.controlAttrs(true), r.placeholder(placeholder),
		attrIf("value", o.Value), attrIf("maxlength", maxLength), `>`)
	br.Renderln(`</div>`)
}

func (r *fieldRenderer) renderNumber(o NumberOptions) {
	br := r.br
	units := o.UnitStart != "" || o.UnitEnd != ""
	if units {
		br.Renderln(`<div`, r.class("number-input-group"), `>`)
	}
	if o.UnitStart != "" {
		br.Renderln(`<span`, r.class("unit", "unit-start"), `>`, html.EscapeString(o.UnitStart), `</span>`)
	}
	br.Renderln(`<input type="number" inputmode="decimal"`, r.class("form-control"), r.controlAttrs(true), r.placeholder(o.Placeholder),
		attrIf("value", o.Value), attrIf("min", o.Min), attrIf("max", o.Max), attrIf("step", o.Step), `>`)
	if o.UnitEnd != "" {
		br.Renderln(`<span`, r.class("unit", "unit-end"), `>`, html.EscapeString(o.UnitEnd), `</span>`)
	}
	if units {
		br.Renderln(`</div>`)
	}
}

func (r *fieldRenderer) renderSelect(o SelectOptions) {
	br := r.br
	br.Renderln(`<select`, r.class("form-control"), r.controlAttrs(true), `>`)

	anySelected := false
	for _, c := range o.Choices {
		anySelected = anySelected || c.Checked
	}

	placeholder := o.Placeholder
	if placeholder == "" || r.rc.HidePlaceholders {
		placeholder = r.rc.text("select-placeholder")
	}
	selected := ""
	if !anySelected {
		selected = " selected"
	}
	br.Renderln(`<option value="" disabled`, selected, `>`, html.EscapeString(placeholder), `</option>`)

	for _, c := range o.Choices {
		selected := ""
		if c.Checked {
			selected = " selected"
		}
		br.Renderln(`<option value="`, html.EscapeString(c.Value), `"`, selected, `>`, html.EscapeString(c.Label), `</option>`)
	}
	br.Renderln(`</select>`)
}

func (r *fieldRenderer) renderDatetime(o DatetimeOptions) {
	inputType := "datetime-local"
	switch r.f.Kind {
	case KindDate:
		inputType = "date"
	case KindTime:
		inputType = "time"
	}
	r.br.Renderln(`<input type="`, inputType, `"`, r.class("form-control"), r.controlAttrs(true),
		attrIf("value", o.Value), attrIf("min", o.Min), attrIf("max", o.Max), attrIf("step", o.Step), `>`)
}

func (r *fieldRenderer) renderFile(o FileOptions) {
	size := strconv.FormatFloat(o.SizeLimit, 'f', -1, 64)
	accept := ""
	if o.ImageOnly {
		accept = "image/*"
	}
	r.br.Renderln(`<input type="file"`, r.class("form-control"), r.controlAttrs(true), attrIf("accept", accept), r.data("size-limit", size), `>`)

	hint := i18n.Format(r.rc.Translator, r.rc.Locale, "file-size-limit", "size", size)
	if o.ImageOnly {
		hint += ". " + r.rc.text("file-image-only")
	}
	r.formText(hint)

	if o.CurrentFile != "" {
		current := i18n.Format(r.rc.Translator, r.rc.Locale, "file-current", "name", o.CurrentFile)
		r.br.Renderln(`<div`, r.class("current-file"), r.data("current-file", o.CurrentFile), `>`, html.EscapeString(current), `</div>`)
	}
}

func (r *fieldRenderer) renderGroup() {
	br := r.br
	describedBy := ""
	if r.f.Common.Description != "" {
		describedBy = ` aria-describedby="` + r.descriptionID() + `"`
	}
	br.Renderln(`<fieldset`, r.wrapper(), describedBy, `>`)
	br.Renderln(`<legend`, r.class("form-question"), `>`, r.question(), r.requiredMarker(), `</legend>`)
	r.renderDescription()

	switch o := r.f.Options.(type) {
	case ChoiceOptions:
		r.renderChoices(o.Choices, o.Multiple, o.Horizontal, false, false)
		if !o.HideFormText {
			r.choiceFormText(o.Multiple)
		}
	case PictureChoiceOptions:
		r.renderChoices(o.Choices, o.Multiple, false, o.Supersize, o.HideLabels)
		if !o.HideFormText {
			r.choiceFormText(o.Multiple)
		}
	case RatingOptions:
		r.renderRating(o)
	case OpinionScaleOptions:
		r.renderOpinionScale(o)
	}

	br.Renderln(`</fieldset>`)
}

func (r *fieldRenderer) choiceFormText(multiple bool) {
	if multiple {
		r.formText(r.rc.text("choose-many"))
	} else {
		r.formText(r.rc.text("choose-one"))
	}
}

// input renders a radio or checkbox of a group
func (r *fieldRenderer) input(inputType string, index int, value string, checked bool) string {
	c := ""
	if checked {
		c = " checked"
	}
	req := ""
	if r.f.Required && inputType == "radio" {
		req = " required"
	}
	dis := ""
	if r.f.Common.Disabled {
		dis = " disabled"
	}
	return `<input type="` + inputType + `"` + r.class("form-choice-input") +
		` name="` + html.EscapeString(r.f.Name) + `" id="` + html.EscapeString(r.itemID(index)) + `"` +
		` value="` + html.EscapeString(value) + `"` + c + req + dis + `>`
}

func (r *fieldRenderer) itemID(index int) string {
	return r.id() + "-" + strconv.Itoa(index)
}

func (r *fieldRenderer) renderChoices(choices []Choice, multiple, horizontal, supersize, hideLabels bool) {
	br := r.br
	inputType := "radio"
	if multiple {
		inputType = "checkbox"
	}

	classes := []string{"form-choices"}
	if horizontal {
		classes = append(classes, "horizontal")
	}
	if supersize {
		classes = append(classes, "supersize")
	}
	br.Renderln(`<div`, r.class(classes...), `>`)

	for i, c := range choices {
		itemClass := []string{"form-choice"}
		if c.Image != "" {
			itemClass = append(itemClass, "picture-choice")
		}
		br.Render(`<label`, r.class(itemClass...), ` for="`, html.EscapeString(r.itemID(i)), `">`)
		br.Render(r.input(inputType, i, c.Value, c.Checked))
		if c.Image != "" {
			br.Render(`<img src="`, html.EscapeString(c.Image), `" alt="`, html.EscapeString(c.Label), `" loading="lazy">`)
		}
		labelClass := []string{"form-choice-label"}
		if hideLabels {
			labelClass = append(labelClass, "visually-hidden")
		}
		br.Renderln(`<span`, r.class(labelClass...), `>`, html.EscapeString(c.Label), `</span></label>`)
	}

	br.Renderln(`</div>`)
}

func (r *fieldRenderer) renderRating(o RatingOptions) {
	br := r.br
	br.Renderln(`<div`, r.class("form-choices", "rating"), `>`)
	for n := 1; n <= o.OutOf; n++ {
		v := strconv.Itoa(n)
		br.Render(`<label`, r.class("rating-item"), ` for="`, html.EscapeString(r.itemID(n)), `">`)
		br.Render(r.input("radio", n, v, n == o.Value))
		br.Renderln(`<span`, r.class("rating-icon", "rating-icon-"+o.Icon), ` aria-hidden="true"></span><span`, r.class("visually-hidden"), `>`, v, `</span></label>`)
	}
	br.Renderln(`</div>`)
}

func (r *fieldRenderer) renderOpinionScale(o OpinionScaleOptions) {
	br := r.br
	br.Renderln(`<div`, r.class("form-choices", "opinion-scale"), `>`)
	for n := o.StartAt; n <= o.OutOf; n++ {
		v := strconv.Itoa(n)
		br.Render(`<label`, r.class("opinion-item"), ` for="`, html.EscapeString(r.itemID(n)), `">`)
		br.Render(r.input("radio", n, v, v == o.Value))
		br.Renderln(`<span`, r.class("form-choice-label"), `>`, v, `</span></label>`)
	}
	br.Renderln(`</div>`)

	start := o.LabelStart != "" && !o.HideLabelStart
	end := o.LabelEnd != "" && !o.HideLabelEnd
	if !start && !end {
		return
	}
	br.Render(`<div`, r.class("opinion-labels"), `>`)
	if start {
		br.Render(`<span`, r.class("opinion-label-start"), `>`, html.EscapeString(o.LabelStart), `</span>`)
	}
	if end {
		br.Render(`<span`, r.class("opinion-label-end"), `>`, html.EscapeString(o.LabelEnd), `</span>`)
	}
	br.Renderln(`</div>`)
}
