package report

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type BadgeVariant string

const (
	BadgeVariantSecondary BadgeVariant = "secondary"
	BadgeVariantSuccess   BadgeVariant = "success"
	BadgeVariantWarning   BadgeVariant = "warning"
	BadgeVariantError     BadgeVariant = "error"
	BadgeVariantOutline   BadgeVariant = "outline"
)

type BadgeProps struct {
	Variant BadgeVariant
	Class   string
}

func badgeClasses(props BadgeProps) string {
	classes := []string{"badge"}
	if props.Variant != "" {
		classes = append(classes, "badge-"+string(props.Variant))
	}
	if props.Class != "" {
		classes = append(classes, props.Class)
	}
	return strings.Join(classes, " ")
}

func badge(props BadgeProps, label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<span class="`+templ.EscapeString(badgeClasses(props))+`">`+templ.EscapeString(label)+`</span>`)
		return err
	})
}
