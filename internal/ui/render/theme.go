package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines editor colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	HeaderBg      tcell.Color
	HeaderFg      tcell.Color
	HeadingFg     tcell.Color
	QuoteFg       tcell.Color
	RuleFg        tcell.Color
	TableFg       tcell.Color
	FrontMatterFg tcell.Color
	SelectionBg   tcell.Color
	SelectionFg   tcell.Color
	FooterBg      tcell.Color
	FooterFg      tcell.Color
	ErrorBg       tcell.Color
	ErrorFg       tcell.Color
	FormatFg      tcell.Color
	CodeBlockBg   tcell.Color
	CodeBlockFg   tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:    tcell.ColorDefault,
		Foreground:    tcell.ColorDefault,
		HeaderBg:      tcell.ColorDefault,
		HeaderFg:      tcell.ColorDefault,
		HeadingFg:     tcell.Color33,
		QuoteFg:       tcell.ColorLightSlateGray,
		RuleFg:        tcell.ColorLightSlateGray,
		TableFg:       tcell.Color51,
		FrontMatterFg: tcell.ColorLightSlateGray,
		SelectionBg:   tcell.Color33,
		SelectionFg:   tcell.ColorWhite,
		FooterBg:      tcell.ColorDefault,
		FooterFg:      tcell.ColorDefault,
		ErrorBg:       tcell.ColorRed,
		ErrorFg:       tcell.ColorWhite,
		FormatFg:      tcell.Color44,
		CodeBlockBg:   tcell.Color234, // darker grey background for fenced code
		CodeBlockFg:   tcell.Color252,
	}
}

// lineStyle picks the base style for a source line of the given kind.
func (t ColorTheme) lineStyle(kind lineKind) tcell.Style {
	base := tcell.StyleDefault.Background(t.Background).Foreground(t.Foreground)
	switch kind {
	case lineHeading:
		return base.Foreground(t.HeadingFg).Bold(true)
	case lineCode:
		return base.Background(t.CodeBlockBg).Foreground(t.CodeBlockFg)
	case lineQuote:
		return base.Foreground(t.QuoteFg).Italic(true)
	case lineRule:
		return base.Foreground(t.RuleFg)
	case lineTable:
		return base.Foreground(t.TableFg)
	case lineFrontMatter:
		return base.Foreground(t.FrontMatterFg).Dim(true)
	default:
		return base
	}
}
