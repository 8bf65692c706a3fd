package slide

import (
	"html"
	"strconv"
	"strings"

	"github.com/hesusruiz/formrite/attr"
	"github.com/hesusruiz/formrite/i18n"
)

// Mode is the kind of page being built.
type Mode string

const (
	// ModeFormSlides wraps the slides with fields in a form
	ModeFormSlides Mode = "form-slides"
	// ModeSlides is a plain slide deck
	ModeSlides Mode = "slides"
)

// ParseMode returns the mode named by the page setting, with form slides
// as the default.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeSlides {
		return ModeSlides
	}
	return ModeFormSlides
}

// CTA is the main action of a slide.
type CTA string

const (
	CTANext   CTA = "next"
	CTASubmit CTA = "submit"
)

// Rendered is a segment together with its rendered markup.
type Rendered struct {
	Segment
	HTML       string
	FieldNames []string
}

// Definition is a slide ready for the runtime.
type Definition struct {
	Index           int      `json:"index"`
	HTML            string   `json:"html"`
	FormBearing     bool     `json:"formBearing"`
	PageProgress    *int     `json:"pageProgress,omitempty"`
	JumpExpression  string   `json:"jumpExpression,omitempty"`
	DisablePrevious bool     `json:"disablePrevious,omitempty"`
	CTA             CTA      `json:"cta"`
	FieldNames      []string `json:"fieldNames,omitempty"`
}

// AssembleContext is the document information used to build the scaffolding.
type AssembleContext struct {
	Prefix     string
	Translator i18n.Translator
	Locale     string

	// Override the translated labels of the buttons when not empty
	NextText   string
	SubmitText string

	HideControls bool
	Restart      bool
}

func (ac AssembleContext) label(key, override string) string {
	if override != "" {
		return override
	}
	return i18n.Text(ac.Translator, ac.Locale, key)
}

// Assemble wraps every rendered slide with its scaffolding.
func Assemble(slides []Rendered, mode Mode, ac AssembleContext) []Definition {
	defs := make([]Definition, 0, len(slides))
	for i, r := range slides {
		def := Definition{
			Index:           i,
			FormBearing:     len(r.FieldNames) > 0,
			PageProgress:    r.PageProgress,
			JumpExpression:  r.JumpExpression,
			DisablePrevious: r.DisablePrevious,
			CTA:             CTANext,
			FieldNames:      append([]string(nil), r.FieldNames...),
		}
		if mode == ModeFormSlides && def.FormBearing {
			def.CTA = CTASubmit
		}
		def.HTML = ac.wrap(def, r.HTML, i == len(slides)-1)
		defs = append(defs, def)
	}
	return defs
}

func (ac AssembleContext) wrap(def Definition, body string, last bool) string {
	p := ac.Prefix
	tag := "div"

	var w attr.Block
	w.AddClass("slide")
	if def.CTA == CTASubmit {
		tag = "form"
		w.AddClass("slide-form")
	}
	w.Set("data-"+p+"index", strconv.Itoa(def.Index))
	if def.PageProgress != nil {
		w.Set("data-"+p+"page-progress", strconv.Itoa(*def.PageProgress))
	}
	if def.JumpExpression != "" {
		w.Set("data-"+p+"jump", def.JumpExpression)
	}
	if def.DisablePrevious {
		w.Set("data-"+p+"disable-prev", "true")
	}
	if tag == "form" {
		w.Set("novalidate", "novalidate")
	}

	var sb strings.Builder
	sb.WriteString("<" + tag + w.Render(p) + ">\n")
	sb.WriteString(`<div class="` + p + `slide-content">` + "\n")
	sb.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString("</div>\n")

	if !ac.HideControls {
		sb.WriteString(`<div class="` + p + `slide-controls">` + "\n")
		if def.Index > 0 && !def.DisablePrevious {
			ac.button(&sb, "button", "previous", ac.label("previous", ""))
		}
		if def.CTA == CTASubmit {
			ac.button(&sb, "submit", "submit", ac.label("submit", ac.SubmitText))
		} else {
			ac.button(&sb, "button", "next", ac.label("next", ac.NextText))
		}
		if last && ac.Restart {
			ac.button(&sb, "button", "restart", ac.label("restart", ""))
		}
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</" + tag + ">\n")
	return sb.String()
}

func (ac AssembleContext) button(sb *strings.Builder, typ, action, label string) {
	p := ac.Prefix
	sb.WriteString(`<button type="` + typ + `" class="` + p + `button ` + p + `button-` + action + `" data-` + p + action + `>`)
	sb.WriteString(html.EscapeString(label))
	sb.WriteString("</button>\n")
}
